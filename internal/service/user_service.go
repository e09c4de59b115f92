package service

import (
	"errors"
	"fmt"

	"surety-web/internal/models"
	"surety-web/internal/repository"
	"surety-web/internal/utils"

	"github.com/sirupsen/logrus"
)

// UserStore is the persistence gateway for user records.
type UserStore interface {
	FindByMobileNo(mobileNo string) (*models.User, error)
	FindByID(id int) (*models.User, error)
	GetByRole(role string, limit, offset int) ([]models.User, int, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id int) (bool, error)
	FindOrCreateDefaultOwner() (*models.User, error)
}

type UserService struct {
	userRepo UserStore
	log      *logrus.Logger
}

func NewUserService(userRepo UserStore, log *logrus.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *UserService) GetMembers(limit, offset int) ([]models.User, int, error) {
	return s.userRepo.GetByRole("user", limit, offset)
}

func (s *UserService) GetByID(id int) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

// Create registers a member. The login credential is the date of birth, so
// the stored password is its bcrypt hash.
func (s *UserService) Create(req models.UserRequest) (*models.User, error) {
	existing, err := s.userRepo.FindByMobileNo(req.MobileNo)
	if err == nil && existing != nil {
		return nil, errors.New("user with this mobile number already exists")
	}

	passwordHash, err := utils.HashPassword(req.DOB)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		FullName:     req.FullName,
		DOB:          req.DOB,
		MobileNo:     req.MobileNo,
		Village:      req.Village,
		EmailID:      req.EmailID,
		Role:         "user",
		PasswordHash: passwordHash,
	}

	if err := s.userRepo.Create(user); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return nil, errors.New("user with this mobile number already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update patches the stored user field by field; empty request fields keep
// their prior values. A changed date of birth re-hashes the credential.
func (s *UserService) Update(id int, req models.UserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.MobileNo != "" {
		user.MobileNo = req.MobileNo
	}
	if req.Village != "" {
		user.Village = req.Village
	}
	if req.EmailID != "" {
		user.EmailID = req.EmailID
	}
	if req.DOB != "" {
		user.DOB = req.DOB
		passwordHash, err := utils.HashPassword(req.DOB)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.PasswordHash = passwordHash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *UserService) Delete(id int) error {
	deleted, err := s.userRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return errors.New("user not found")
	}
	return nil
}

// ImportUsers bulk-registers members from spreadsheet rows, best-effort:
// incomplete rows and already-registered mobile numbers are skipped, the rest
// are created in input order.
func (s *UserService) ImportUsers(rows []UserRow) (saved, skipped int, err error) {
	for _, row := range rows {
		if row.FullName == "" || row.DOB == "" || row.MobileNo == "" || row.Village == "" {
			skipped++
			continue
		}

		existing, err := s.userRepo.FindByMobileNo(row.MobileNo)
		if err == nil && existing != nil {
			skipped++
			continue
		}

		passwordHash, err := utils.HashPassword(row.DOB)
		if err != nil {
			return saved, skipped, fmt.Errorf("failed to hash password: %w", err)
		}

		user := &models.User{
			FullName:     row.FullName,
			DOB:          row.DOB,
			MobileNo:     row.MobileNo,
			Village:      row.Village,
			EmailID:      row.EmailID,
			Role:         "user",
			PasswordHash: passwordHash,
		}

		if err := s.userRepo.Create(user); err != nil {
			if repository.IsDuplicateKeyErr(err) {
				skipped++
				continue
			}
			s.log.WithError(err).WithField("mobile_no", row.MobileNo).Warn("User row insert failed, continuing")
			skipped++
			continue
		}
		saved++
	}

	return saved, skipped, nil
}
