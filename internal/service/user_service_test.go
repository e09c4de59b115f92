package service

import (
	"database/sql"
	"testing"

	"surety-web/internal/models"
	"surety-web/internal/repository"
	"surety-web/internal/utils"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byID   map[int]*models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[int]*models.User), nextID: 1}
}

func (f *fakeUserStore) FindByMobileNo(mobileNo string) (*models.User, error) {
	for _, u := range f.byID {
		if u.MobileNo == mobileNo {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) FindByID(id int) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) GetByRole(role string, limit, offset int) ([]models.User, int, error) {
	var matched []models.User
	for _, u := range f.byID {
		if u.Role == role {
			matched = append(matched, *u)
		}
	}
	return matched, len(matched), nil
}

func (f *fakeUserStore) Create(user *models.User) error {
	if _, err := f.FindByMobileNo(user.MobileNo); err == nil {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) Update(user *models.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return sql.ErrNoRows
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) Delete(id int) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeUserStore) FindOrCreateDefaultOwner() (*models.User, error) {
	if u, err := f.FindByMobileNo(repository.DefaultOwnerMobileNo); err == nil {
		return u, nil
	}
	hash, err := utils.HashPassword(repository.DefaultOwnerDOB)
	if err != nil {
		return nil, err
	}
	owner := &models.User{
		FullName:     "Default Admin",
		DOB:          repository.DefaultOwnerDOB,
		MobileNo:     repository.DefaultOwnerMobileNo,
		Village:      "Default",
		Role:         "user",
		PasswordHash: hash,
	}
	if err := f.Create(owner); err != nil {
		return nil, err
	}
	return f.byID[owner.ID], nil
}

func newTestUserService(store *fakeUserStore) *UserService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewUserService(store, log)
}

func TestUserService_CreateHashesDOBAsCredential(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(store)

	user, err := svc.Create(models.UserRequest{
		FullName: "Anita Deshmukh",
		DOB:      "1992-06-14",
		MobileNo: "9876543210",
		Village:  "Nashik",
		EmailID:  "anita@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "1992-06-14", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("1992-06-14", user.PasswordHash))
}

func TestUserService_CreateRejectsDuplicateMobile(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(store)

	req := models.UserRequest{FullName: "A", DOB: "1990-01-01", MobileNo: "9876543210", Village: "Pune"}
	_, err := svc.Create(req)
	require.NoError(t, err)

	_, err = svc.Create(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserService_UpdatePatchesAndRehashesOnDOBChange(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(store)

	created, err := svc.Create(models.UserRequest{FullName: "A", DOB: "1990-01-01", MobileNo: "9876543210", Village: "Pune"})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, models.UserRequest{Village: "Nashik"})
	require.NoError(t, err)
	assert.Equal(t, "Nashik", updated.Village)
	assert.Equal(t, "A", updated.FullName)
	assert.True(t, utils.CheckPasswordHash("1990-01-01", updated.PasswordHash))

	updated, err = svc.Update(created.ID, models.UserRequest{DOB: "1991-02-02"})
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("1991-02-02", updated.PasswordHash))
	assert.False(t, utils.CheckPasswordHash("1990-01-01", updated.PasswordHash))
}

func TestUserService_DeleteMissingUser(t *testing.T) {
	svc := newTestUserService(newFakeUserStore())

	err := svc.Delete(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUserService_ImportUsersBestEffort(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(store)

	_, err := svc.Create(models.UserRequest{FullName: "Existing", DOB: "1985-05-05", MobileNo: "9000000001", Village: "Pune"})
	require.NoError(t, err)

	rows := []UserRow{
		{FullName: "Anita Deshmukh", DOB: "1992-06-14", MobileNo: "9876543210", Village: "Nashik"},
		{FullName: "", DOB: "1990-01-01", MobileNo: "9111111111", Village: "Pune"}, // incomplete
		{FullName: "Dup", DOB: "1980-03-03", MobileNo: "9000000001", Village: "Pune"},
		{FullName: "Sunil Pawar", DOB: "1988-01-30", MobileNo: "9123456780", Village: "Satara"},
	}

	saved, skipped, err := svc.ImportUsers(rows)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.Equal(t, 2, skipped)

	member, err := store.FindByMobileNo("9876543210")
	require.NoError(t, err)
	assert.Equal(t, "user", member.Role)
	assert.True(t, utils.CheckPasswordHash("1992-06-14", member.PasswordHash))
}

func TestFindOrCreateDefaultOwner_Idempotent(t *testing.T) {
	store := newFakeUserStore()

	first, err := store.FindOrCreateDefaultOwner()
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultOwnerMobileNo, first.MobileNo)

	second, err := store.FindOrCreateDefaultOwner()
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
