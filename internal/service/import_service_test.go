package service

import (
	"database/sql"
	"errors"
	"testing"

	"surety-web/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuretyStore struct {
	byAadhar  map[string]*models.Surety
	createErr error // returned once by the next Create, then cleared
	manyErr   error
	manyCalls int
}

func newFakeSuretyStore() *fakeSuretyStore {
	return &fakeSuretyStore{byAadhar: make(map[string]*models.Surety)}
}

func (f *fakeSuretyStore) FindByAadharNo(aadharNo string) (*models.Surety, error) {
	if s, ok := f.byAadhar[aadharNo]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSuretyStore) Create(surety *models.Surety) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	if _, exists := f.byAadhar[surety.AadharNo]; exists {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	surety.ID = len(f.byAadhar) + 1
	stored := *surety
	f.byAadhar[surety.AadharNo] = &stored
	return nil
}

func (f *fakeSuretyStore) CreateMany(sureties []models.Surety) error {
	f.manyCalls++
	if f.manyErr != nil {
		return f.manyErr
	}
	for i := range sureties {
		if _, exists := f.byAadhar[sureties[i].AadharNo]; exists {
			// All-or-nothing: nothing already written sticks.
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	for i := range sureties {
		stored := sureties[i]
		f.byAadhar[sureties[i].AadharNo] = &stored
	}
	return nil
}

type fakeOwnerStore struct {
	owner *models.User
	users map[int]*models.User
}

func newFakeOwnerStore() *fakeOwnerStore {
	owner := &models.User{ID: 1, FullName: "Default Admin", Village: "Default", Role: "user"}
	return &fakeOwnerStore{
		owner: owner,
		users: map[int]*models.User{1: owner},
	}
}

func (f *fakeOwnerStore) FindByID(id int) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeOwnerStore) FindOrCreateDefaultOwner() (*models.User, error) {
	return f.owner, nil
}

func newTestImportService(sureties *fakeSuretyStore, users *fakeOwnerStore) *ImportService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewImportService(sureties, users, log)
}

func validRow(aadhar, name string) RawRow {
	return RawRow{
		FieldSuretyName:     name,
		FieldAddress:        "12 Station Road",
		FieldAadharNo:       aadhar,
		FieldPoliceStation:  "Shivaji Nagar",
		FieldCaseFirNo:      "FIR/2024/0117",
		FieldActName:        "IPC",
		FieldSection:        "420",
		FieldAccusedName:    "Suresh Patil",
		FieldAccusedAddress: "45 MG Road",
		FieldCourtCity:      "Pune",
		FieldAmount:         "50000",
		FieldDateOfSurety:   "15/03/2024",
	}
}

func TestImportBestEffort_AllValidRowsSave(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	rows := []RawRow{
		validRow("123456789012", "Ramesh Kumar"),
		validRow("234567890123", "Anita Deshmukh"),
		validRow("345678901234", "Sunil Pawar"),
	}

	outcome, err := svc.ImportBestEffort(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.TotalRows)
	assert.Equal(t, 3, outcome.Saved)
	assert.Equal(t, 0, outcome.Skipped)
	assert.Empty(t, outcome.Skips)

	saved := store.byAadhar["123456789012"]
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.AssignedUserID)
	require.NotNil(t, saved.DateOfSurety)
	assert.Equal(t, "2024-03-15", saved.DateOfSurety.Format("2006-01-02"))
}

func TestImportBestEffort_DuplicateOfExistingIsSkipped(t *testing.T) {
	store := newFakeSuretyStore()
	store.byAadhar["123456789012"] = &models.Surety{AadharNo: "123456789012", SuretyName: "Existing Person"}
	svc := newTestImportService(store, newFakeOwnerStore())

	rows := []RawRow{
		validRow("234567890123", "A"),
		validRow("345678901234", "B"),
		validRow("456789012345", "C"),
		validRow("123456789012", "Impostor"),
	}

	outcome, err := svc.ImportBestEffort(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Saved)
	assert.Equal(t, 1, outcome.Skipped)

	require.Len(t, outcome.Skips, 1)
	skip := outcome.Skips[0]
	assert.Equal(t, models.StageDuplicate, skip.Stage)
	assert.Equal(t, "123456789012", skip.AadharNo)
	assert.Equal(t, "Existing Person", skip.ExistingSurety)
	assert.Equal(t, 5, skip.Row) // fourth data row, header is row 1
}

func TestImportBestEffort_IntraBatchDuplicateSavesExactlyOne(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	rows := []RawRow{
		validRow("123456789012", "First"),
		validRow("123456789012", "Second"),
		validRow("123456789012", "Third"),
	}

	outcome, err := svc.ImportBestEffort(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Saved)
	assert.Equal(t, 2, outcome.Skipped)
	assert.Equal(t, "First", store.byAadhar["123456789012"].SuretyName)
	for _, skip := range outcome.Skips {
		assert.Equal(t, models.StageDuplicate, skip.Stage)
	}
}

func TestImportBestEffort_Idempotent(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	rows := []RawRow{
		validRow("123456789012", "A"),
		validRow("234567890123", "B"),
	}

	first, err := svc.ImportBestEffort(rows)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Saved)

	second, err := svc.ImportBestEffort(rows)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Saved)
	assert.Equal(t, 2, second.Skipped)
	for _, skip := range second.Skips {
		assert.Equal(t, models.StageDuplicate, skip.Stage)
	}
}

func TestImportBestEffort_ValidationFailures(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	missingName := validRow("123456789012", "X")
	delete(missingName, FieldSuretyName)

	shortAadhar := validRow("12345", "Short Aadhar")

	zeroAmount := validRow("234567890123", "Zero Amount")
	zeroAmount[FieldAmount] = "abc" // normalizes to 0, fails the > 0 rule

	outcome, err := svc.ImportBestEffort([]RawRow{missingName, shortAadhar, zeroAmount})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Saved)
	assert.Equal(t, 3, outcome.Skipped)

	for _, skip := range outcome.Skips {
		assert.Equal(t, models.StageValidate, skip.Stage)
	}
	assert.Contains(t, outcome.Skips[0].Reason, "surety_name")
	assert.Contains(t, outcome.Skips[1].Reason, "12 digits")
	assert.Contains(t, outcome.Skips[2].Reason, "greater than zero")
}

func TestImportBestEffort_EmptyRowReportedAtNormalizeStage(t *testing.T) {
	svc := newTestImportService(newFakeSuretyStore(), newFakeOwnerStore())

	outcome, err := svc.ImportBestEffort([]RawRow{{}})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Saved)
	require.Len(t, outcome.Skips, 1)
	assert.Equal(t, models.StageNormalize, outcome.Skips[0].Stage)
}

func TestImportBestEffort_WriteRaceReclassifiedAsDuplicate(t *testing.T) {
	store := newFakeSuretyStore()
	store.createErr = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	svc := newTestImportService(store, newFakeOwnerStore())

	rows := []RawRow{
		validRow("123456789012", "Loses Race"),
		validRow("234567890123", "Unaffected"),
	}

	outcome, err := svc.ImportBestEffort(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Saved)
	require.Len(t, outcome.Skips, 1)
	assert.Equal(t, models.StageDuplicate, outcome.Skips[0].Stage)
	assert.Equal(t, 2, outcome.Skips[0].Row)
}

func TestImportBestEffort_RowPersistErrorDoesNotStopBatch(t *testing.T) {
	store := newFakeSuretyStore()
	store.createErr = errors.New("column too long")
	svc := newTestImportService(store, newFakeOwnerStore())

	rows := []RawRow{
		validRow("123456789012", "Fails"),
		validRow("234567890123", "Succeeds"),
	}

	outcome, err := svc.ImportBestEffort(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Saved)
	require.Len(t, outcome.Skips, 1)
	assert.Equal(t, models.StagePersist, outcome.Skips[0].Stage)
}

func TestImportBestEffort_CourtCityDefaultsFromOwner(t *testing.T) {
	store := newFakeSuretyStore()
	users := newFakeOwnerStore()
	users.owner.Village = "Nagpur"
	svc := newTestImportService(store, users)

	row := validRow("123456789012", "No Court City")
	delete(row, FieldCourtCity)

	outcome, err := svc.ImportBestEffort([]RawRow{row})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Saved)
	assert.Equal(t, "Nagpur", store.byAadhar["123456789012"].CourtCity)
}

func TestImportBestEffort_UnparseableDateLeftNil(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	row := validRow("123456789012", "Bad Date")
	row[FieldDateOfSurety] = "31/02/2024"

	outcome, err := svc.ImportBestEffort([]RawRow{row})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Saved)
	assert.Nil(t, store.byAadhar["123456789012"].DateOfSurety)
}

func validRequest(aadhar, name string) models.SuretyRequest {
	return models.SuretyRequest{
		SuretyName:     name,
		Address:        "12 Station Road",
		AadharNo:       aadhar,
		PoliceStation:  "Shivaji Nagar",
		CaseFirNo:      "FIR/2024/0117",
		ActName:        "IPC",
		Section:        "420",
		AccusedName:    "Suresh Patil",
		AccusedAddress: "45 MG Road",
		CourtCity:      "Pune",
		Amount:         50000,
		DateOfSurety:   "2024-03-15",
	}
}

func TestImportAtomic_AllValid(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	requests := []models.SuretyRequest{
		validRequest("123456789012", "A"),
		validRequest("234567890123", "B"),
		validRequest("345678901234", "C"),
	}

	count, err := svc.ImportAtomic(requests, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, store.manyCalls)
	assert.Len(t, store.byAadhar, 3)
}

func TestImportAtomic_OneInvalidRowFailsEverything(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	bad := validRequest("456789012345", "D")
	bad.PoliceStation = ""

	requests := []models.SuretyRequest{
		validRequest("123456789012", "A"),
		validRequest("234567890123", "B"),
		validRequest("345678901234", "C"),
		bad,
	}

	count, err := svc.ImportAtomic(requests, 1)
	require.Error(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, store.manyCalls)
	assert.Empty(t, store.byAadhar)
}

func TestImportAtomic_IntraBatchDuplicateFailsEverything(t *testing.T) {
	store := newFakeSuretyStore()
	svc := newTestImportService(store, newFakeOwnerStore())

	requests := []models.SuretyRequest{
		validRequest("123456789012", "A"),
		validRequest("123456789012", "B"),
	}

	count, err := svc.ImportAtomic(requests, 1)
	require.Error(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, store.byAadhar)
}

func TestImportAtomic_ExistingDuplicateFailsEverything(t *testing.T) {
	store := newFakeSuretyStore()
	store.byAadhar["123456789012"] = &models.Surety{AadharNo: "123456789012", SuretyName: "Existing"}
	svc := newTestImportService(store, newFakeOwnerStore())

	requests := []models.SuretyRequest{
		validRequest("234567890123", "A"),
		validRequest("123456789012", "B"),
	}

	count, err := svc.ImportAtomic(requests, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Existing")
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, store.manyCalls)
}

func TestImportAtomic_TransactionFailureRollsBack(t *testing.T) {
	store := newFakeSuretyStore()
	store.manyErr = errors.New("deadlock detected")
	svc := newTestImportService(store, newFakeOwnerStore())

	count, err := svc.ImportAtomic([]models.SuretyRequest{validRequest("123456789012", "A")}, 1)
	require.Error(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, store.byAadhar)
}

func TestCreateSurety_DefaultsOwnerAndRejectsDuplicates(t *testing.T) {
	store := newFakeSuretyStore()
	users := newFakeOwnerStore()
	users.users[7] = &models.User{ID: 7, FullName: "Member", Village: "Satara", Role: "user"}
	svc := newTestImportService(store, users)

	req := validRequest("123456789012", "Ramesh Kumar")
	req.CourtCity = ""

	surety, err := svc.CreateSurety(req, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, surety.AssignedUserID)
	assert.Equal(t, "Satara", surety.CourtCity)

	_, err = svc.CreateSurety(validRequest("123456789012", "Impostor"), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
