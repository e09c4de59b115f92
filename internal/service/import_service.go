package service

import (
	"fmt"
	"strconv"
	"strings"

	"surety-web/internal/models"
	"surety-web/internal/repository"

	"github.com/sirupsen/logrus"
)

// RawRow is one spreadsheet row keyed by canonical field name, values still
// in their raw cell form.
type RawRow map[string]string

// Canonical surety field names.
const (
	FieldAadharNo       = "aadhar_no"
	FieldSuretyName     = "surety_name"
	FieldAddress        = "address"
	FieldPoliceStation  = "police_station"
	FieldCaseFirNo      = "case_fir_no"
	FieldActName        = "act_name"
	FieldSection        = "section"
	FieldAccusedName    = "accused_name"
	FieldAccusedAddress = "accused_address"
	FieldCourtCity      = "court_city"
	FieldAmount         = "amount"
	FieldDateOfSurety   = "date_of_surety"
)

// ColumnSynonym maps the spelling variants seen in the wild onto one
// canonical field. Consulted in order; the first header match wins.
type ColumnSynonym struct {
	Field    string
	Synonyms []string
}

// SuretyColumnSynonyms is the accepted header vocabulary for surety imports.
var SuretyColumnSynonyms = []ColumnSynonym{
	{FieldAadharNo, []string{"Aadhar No.", "Aadhar No", "aadharNo"}},
	{FieldSuretyName, []string{"shurityName", "Surety Name"}},
	{FieldAddress, []string{"Address", "address"}},
	{FieldPoliceStation, []string{"Police Station", "policeStation"}},
	{FieldCaseFirNo, []string{"Case/FIR No.", "Case/FIR No", "caseFirNo"}},
	{FieldActName, []string{"Act Name", "actName"}},
	{FieldSection, []string{"Section", "section"}},
	{FieldAccusedName, []string{"Accused Name", "accusedName"}},
	{FieldAccusedAddress, []string{"Accused Address", "accusedAddress"}},
	{FieldCourtCity, []string{"courtCity", "Court City"}},
	{FieldAmount, []string{"Surety Amount", "shurityAmount"}},
	{FieldDateOfSurety, []string{"Surety Date", "shurityDate", "Date of Surety", "dateOfSurety"}},
}

// CanonicalField resolves a spreadsheet header to its canonical field name.
// Matching ignores case and surrounding whitespace.
func CanonicalField(synonyms []ColumnSynonym, header string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(header))
	for _, col := range synonyms {
		for _, syn := range col.Synonyms {
			if strings.ToLower(syn) == normalized {
				return col.Field, true
			}
		}
	}
	return "", false
}

// requiredSuretyFields must be non-empty after normalization. Aadhaar and
// amount carry their own stronger checks; the surety date is not required
// because the record default (import time) covers it.
var requiredSuretyFields = []string{
	FieldSuretyName,
	FieldAddress,
	FieldPoliceStation,
	FieldCaseFirNo,
	FieldActName,
	FieldSection,
	FieldAccusedName,
	FieldAccusedAddress,
	FieldCourtCity,
}

// SuretyStore is the persistence gateway the pipeline writes through.
type SuretyStore interface {
	FindByAadharNo(aadharNo string) (*models.Surety, error)
	Create(surety *models.Surety) error
	CreateMany(sureties []models.Surety) error
}

// OwnerStore resolves record owners.
type OwnerStore interface {
	FindByID(id int) (*models.User, error)
	FindOrCreateDefaultOwner() (*models.User, error)
}

type ImportService struct {
	sureties SuretyStore
	users    OwnerStore
	log      *logrus.Logger
}

func NewImportService(sureties SuretyStore, users OwnerStore, log *logrus.Logger) *ImportService {
	return &ImportService{
		sureties: sureties,
		users:    users,
		log:      log,
	}
}

// normalizeSurety shapes one raw row into a record, defaulting court city
// from the owner before validation runs.
func normalizeSurety(row RawRow, owner *models.User) models.Surety {
	aadhar, _ := NormalizeAadhar(row[FieldAadharNo])

	courtCity := strings.TrimSpace(row[FieldCourtCity])
	if courtCity == "" {
		courtCity = owner.Village
	}

	return models.Surety{
		SuretyName:     strings.TrimSpace(row[FieldSuretyName]),
		Address:        strings.TrimSpace(row[FieldAddress]),
		AadharNo:       aadhar,
		PoliceStation:  strings.TrimSpace(row[FieldPoliceStation]),
		CaseFirNo:      strings.TrimSpace(row[FieldCaseFirNo]),
		ActName:        strings.TrimSpace(row[FieldActName]),
		Section:        strings.TrimSpace(row[FieldSection]),
		AccusedName:    strings.TrimSpace(row[FieldAccusedName]),
		AccusedAddress: strings.TrimSpace(row[FieldAccusedAddress]),
		CourtCity:      courtCity,
		Amount:         ParseAmount(row[FieldAmount]),
		DateOfSurety:   NormalizeDate(row[FieldDateOfSurety]),
		AssignedUserID: owner.ID,
	}
}

// validateSurety returns a rejection reason for a normalized record, or ""
// when the record is acceptable. Uniqueness is deliberately not checked here:
// the duplicate check runs separately, immediately before the write.
func validateSurety(surety *models.Surety, rawAadhar string) string {
	for _, field := range requiredSuretyFields {
		if fieldValue(surety, field) == "" {
			return fmt.Sprintf("missing required field %s", field)
		}
	}

	if _, ok := NormalizeAadhar(rawAadhar); !ok {
		return "aadhar number must be exactly 12 digits"
	}

	if surety.Amount <= 0 {
		return "amount must be greater than zero"
	}

	return ""
}

func fieldValue(s *models.Surety, field string) string {
	switch field {
	case FieldSuretyName:
		return s.SuretyName
	case FieldAddress:
		return s.Address
	case FieldPoliceStation:
		return s.PoliceStation
	case FieldCaseFirNo:
		return s.CaseFirNo
	case FieldActName:
		return s.ActName
	case FieldSection:
		return s.Section
	case FieldAccusedName:
		return s.AccusedName
	case FieldAccusedAddress:
		return s.AccusedAddress
	case FieldCourtCity:
		return s.CourtCity
	}
	return ""
}

// findDuplicate looks up an already-persisted record with the same aadhaar
// number. Returns (nil, nil) when the number is free.
func (s *ImportService) findDuplicate(aadharNo string) (*models.Surety, error) {
	existing, err := s.sureties.FindByAadharNo(aadharNo)
	if err != nil {
		if repository.IsNotFoundErr(err) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

// ImportBestEffort runs the continue-on-error pipeline over parsed spreadsheet
// rows: normalize, validate, duplicate-check, insert, strictly in input order
// so later rows observe earlier rows' just-persisted aadhaar numbers. A row
// failure of any kind becomes a skip entry; only a store-level failure of the
// duplicate lookup aborts the call. Rows are assigned to the fallback owner,
// matching how operator bulk uploads behave.
func (s *ImportService) ImportBestEffort(rows []RawRow) (*models.ImportOutcome, error) {
	owner, err := s.users.FindOrCreateDefaultOwner()
	if err != nil {
		return nil, fmt.Errorf("failed to ensure default owner: %w", err)
	}

	outcome := &models.ImportOutcome{TotalRows: len(rows)}

	for i, row := range rows {
		rowNum := i + 2 // spreadsheet numbering, header is row 1

		if len(row) == 0 {
			outcome.Skips = append(outcome.Skips, models.SkipReason{
				Row:    rowNum,
				Stage:  models.StageNormalize,
				Reason: "no recognized columns in row",
			})
			continue
		}

		surety := normalizeSurety(row, owner)

		if reason := validateSurety(&surety, row[FieldAadharNo]); reason != "" {
			outcome.Skips = append(outcome.Skips, models.SkipReason{
				Row:      rowNum,
				AadharNo: surety.AadharNo,
				Stage:    models.StageValidate,
				Reason:   reason,
			})
			continue
		}

		existing, err := s.findDuplicate(surety.AadharNo)
		if err != nil {
			return nil, fmt.Errorf("duplicate check failed: %w", err)
		}
		if existing != nil {
			outcome.Skips = append(outcome.Skips, models.SkipReason{
				Row:            rowNum,
				AadharNo:       surety.AadharNo,
				Stage:          models.StageDuplicate,
				Reason:         fmt.Sprintf("surety with aadhar %s already exists", surety.AadharNo),
				ExistingSurety: existing.SuretyName,
			})
			continue
		}

		if err := s.sureties.Create(&surety); err != nil {
			if repository.IsDuplicateKeyErr(err) {
				// Lost the check-then-insert race; the unique index is the
				// authoritative arbiter, so report it as a duplicate.
				outcome.Skips = append(outcome.Skips, models.SkipReason{
					Row:      rowNum,
					AadharNo: surety.AadharNo,
					Stage:    models.StageDuplicate,
					Reason:   fmt.Sprintf("surety with aadhar %s already exists", surety.AadharNo),
				})
				continue
			}

			s.log.WithError(err).WithField("row", rowNum).Warn("Row insert failed, continuing")
			outcome.Skips = append(outcome.Skips, models.SkipReason{
				Row:      rowNum,
				AadharNo: surety.AadharNo,
				Stage:    models.StagePersist,
				Reason:   err.Error(),
			})
			continue
		}

		outcome.Saved++
	}

	outcome.Skipped = len(outcome.Skips)
	return outcome, nil
}

// ImportAtomic persists pre-shaped records all-or-nothing. Every record is
// validated and duplicate-checked up front; the first problem fails the whole
// call with nothing persisted. Surviving records go through one transaction,
// so a late unique-key race also rolls back everything.
func (s *ImportService) ImportAtomic(requests []models.SuretyRequest, callerID int) (int, error) {
	if len(requests) == 0 {
		return 0, fmt.Errorf("no records supplied")
	}

	owner, err := s.resolveOwner(callerID)
	if err != nil {
		return 0, err
	}

	sureties := make([]models.Surety, 0, len(requests))
	seen := make(map[string]int) // aadhaar -> first request index

	for i, req := range requests {
		surety := normalizeSurety(rowFromRequest(req), owner)
		if req.AssignedUserID != 0 {
			surety.AssignedUserID = req.AssignedUserID
		}

		if reason := validateSurety(&surety, req.AadharNo); reason != "" {
			return 0, fmt.Errorf("record %d rejected: %s", i+1, reason)
		}

		if first, dup := seen[surety.AadharNo]; dup {
			return 0, fmt.Errorf("record %d duplicates aadhar %s of record %d", i+1, surety.AadharNo, first+1)
		}
		seen[surety.AadharNo] = i

		existing, err := s.findDuplicate(surety.AadharNo)
		if err != nil {
			return 0, fmt.Errorf("duplicate check failed: %w", err)
		}
		if existing != nil {
			return 0, fmt.Errorf("record %d rejected: surety with aadhar %s already exists (%s)",
				i+1, surety.AadharNo, existing.SuretyName)
		}

		sureties = append(sureties, surety)
	}

	if err := s.sureties.CreateMany(sureties); err != nil {
		return 0, fmt.Errorf("bulk insert aborted: %w", err)
	}

	return len(sureties), nil
}

// CreateSurety persists a single record on behalf of the caller, defaulting
// owner and court city the same way imports do.
func (s *ImportService) CreateSurety(req models.SuretyRequest, callerID int) (*models.Surety, error) {
	owner, err := s.resolveOwner(callerID)
	if err != nil {
		return nil, err
	}

	surety := normalizeSurety(rowFromRequest(req), owner)
	if req.AssignedUserID != 0 {
		surety.AssignedUserID = req.AssignedUserID
	}

	if reason := validateSurety(&surety, req.AadharNo); reason != "" {
		return nil, fmt.Errorf("invalid surety: %s", reason)
	}

	existing, err := s.findDuplicate(surety.AadharNo)
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("surety with aadhar %s already exists (%s)", surety.AadharNo, existing.SuretyName)
	}

	if err := s.sureties.Create(&surety); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return nil, fmt.Errorf("surety with aadhar %s already exists", surety.AadharNo)
		}
		return nil, err
	}

	return &surety, nil
}

func (s *ImportService) resolveOwner(callerID int) (*models.User, error) {
	if callerID == 0 {
		// Bootstrap admin token has no user row behind it.
		return s.users.FindOrCreateDefaultOwner()
	}
	owner, err := s.users.FindByID(callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve record owner: %w", err)
	}
	return owner, nil
}

// rowFromRequest lets the JSON entry points share the spreadsheet pipeline's
// normalization and validation.
func rowFromRequest(req models.SuretyRequest) RawRow {
	row := RawRow{
		FieldSuretyName:     req.SuretyName,
		FieldAddress:        req.Address,
		FieldAadharNo:       req.AadharNo,
		FieldPoliceStation:  req.PoliceStation,
		FieldCaseFirNo:      req.CaseFirNo,
		FieldActName:        req.ActName,
		FieldSection:        req.Section,
		FieldAccusedName:    req.AccusedName,
		FieldAccusedAddress: req.AccusedAddress,
		FieldCourtCity:      req.CourtCity,
		FieldAmount:         strconv.FormatFloat(req.Amount, 'f', -1, 64),
		FieldDateOfSurety:   req.DateOfSurety,
	}
	if req.DateOfSurety == "" {
		delete(row, FieldDateOfSurety)
	}
	return row
}
