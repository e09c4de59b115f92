package repository

import (
	"surety-web/internal/models"
	"surety-web/internal/utils"

	"github.com/jmoiron/sqlx"
)

// Fixed natural key for the fallback record owner created during admin
// spreadsheet imports.
const (
	DefaultOwnerMobileNo = "9999999999"
	DefaultOwnerDOB      = "2000-01-01"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByMobileNo(mobileNo string) (*models.User, error) {
	var user models.User
	query := "SELECT * FROM users WHERE mobile_no = ? LIMIT 1"
	err := r.db.Get(&user, query, mobileNo)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id int) (*models.User, error) {
	var user models.User
	query := "SELECT * FROM users WHERE id = ? LIMIT 1"
	err := r.db.Get(&user, query, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByRole(role string, limit, offset int) ([]models.User, int, error) {
	var users []models.User
	query := "SELECT * FROM users WHERE role = ? ORDER BY full_name LIMIT ? OFFSET ?"
	if err := r.db.Select(&users, query, role, limit, offset); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM users WHERE role = ?", role); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) Create(user *models.User) error {
	query := `INSERT INTO users (full_name, dob, mobile_no, village, email_id, role, password_hash)
	          VALUES (:full_name, :dob, :mobile_no, :village, :email_id, :role, :password_hash)`
	result, err := r.db.NamedExec(query, user)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	user.ID = int(id)
	return nil
}

func (r *UserRepository) Update(user *models.User) error {
	query := `UPDATE users SET full_name = :full_name, dob = :dob, mobile_no = :mobile_no,
	          village = :village, email_id = :email_id, password_hash = :password_hash
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, user)
	return err
}

func (r *UserRepository) Delete(id int) (bool, error) {
	result, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// FindOrCreateDefaultOwner returns the fallback owner for imported records,
// creating it on first use. Idempotent: keyed on the fixed mobile number, and
// a concurrent create racing past the lookup is resolved by re-reading after
// the unique-key violation.
func (r *UserRepository) FindOrCreateDefaultOwner() (*models.User, error) {
	user, err := r.FindByMobileNo(DefaultOwnerMobileNo)
	if err == nil {
		return user, nil
	}

	passwordHash, err := utils.HashPassword(DefaultOwnerDOB)
	if err != nil {
		return nil, err
	}

	owner := &models.User{
		FullName:     "Default Admin",
		DOB:          DefaultOwnerDOB,
		MobileNo:     DefaultOwnerMobileNo,
		Village:      "Default",
		EmailID:      "default@example.com",
		Role:         "user",
		PasswordHash: passwordHash,
	}

	if err := r.Create(owner); err != nil {
		if IsDuplicateKeyErr(err) {
			return r.FindByMobileNo(DefaultOwnerMobileNo)
		}
		return nil, err
	}

	return owner, nil
}
