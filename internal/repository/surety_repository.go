package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"surety-web/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// mysqlDuplicateEntry is the server error code for a unique-key violation.
const mysqlDuplicateEntry = 1062

// IsDuplicateKeyErr reports whether err is a unique-constraint violation.
// The UNIQUE index on aadhar_no is the authoritative duplicate check: an
// insert racing past the pre-insert lookup still fails here and callers
// reclassify it as a duplicate skip.
func IsDuplicateKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// IsNotFoundErr reports whether err means no matching row.
func IsNotFoundErr(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type SuretyRepository struct {
	db *sqlx.DB
}

func NewSuretyRepository(db *sqlx.DB) *SuretyRepository {
	return &SuretyRepository{db: db}
}

func (r *SuretyRepository) FindByID(id int) (*models.Surety, error) {
	var surety models.Surety
	query := "SELECT * FROM sureties WHERE id = ? LIMIT 1"
	err := r.db.Get(&surety, query, id)
	if err != nil {
		return nil, err
	}
	return &surety, nil
}

func (r *SuretyRepository) FindByAadharNo(aadharNo string) (*models.Surety, error) {
	var surety models.Surety
	query := "SELECT * FROM sureties WHERE aadhar_no = ? LIMIT 1"
	err := r.db.Get(&surety, query, aadharNo)
	if err != nil {
		return nil, err
	}
	return &surety, nil
}

func (r *SuretyRepository) GetAll(limit, offset int) ([]models.SuretyWithOwner, int, error) {
	var sureties []models.SuretyWithOwner
	query := `SELECT s.*, u.full_name AS owner_full_name, u.mobile_no AS owner_mobile_no
	          FROM sureties s
	          LEFT JOIN users u ON u.id = s.assigned_user_id
	          ORDER BY s.id DESC LIMIT ? OFFSET ?`
	if err := r.db.Select(&sureties, query, limit, offset); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM sureties"); err != nil {
		return nil, 0, err
	}

	return sureties, total, nil
}

func (r *SuretyRepository) GetByAssignedUser(userID, limit, offset int) ([]models.Surety, int, error) {
	var sureties []models.Surety
	query := "SELECT * FROM sureties WHERE assigned_user_id = ? ORDER BY id DESC LIMIT ? OFFSET ?"
	if err := r.db.Select(&sureties, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM sureties WHERE assigned_user_id = ?", userID); err != nil {
		return nil, 0, err
	}

	return sureties, total, nil
}

const insertSuretyQuery = `INSERT INTO sureties
	(surety_name, address, aadhar_no, police_station, case_fir_no, act_name,
	 section, accused_name, accused_address, court_city, amount, date_of_surety,
	 assigned_user_id)
	VALUES
	(:surety_name, :address, :aadhar_no, :police_station, :case_fir_no, :act_name,
	 :section, :accused_name, :accused_address, :court_city, :amount,
	 COALESCE(:date_of_surety, NOW()), :assigned_user_id)`

func (r *SuretyRepository) Create(surety *models.Surety) error {
	result, err := r.db.NamedExec(insertSuretyQuery, surety)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	surety.ID = int(id)
	return nil
}

// CreateMany inserts all records in one transaction. Any failing insert rolls
// the whole batch back; callers see either every record persisted or none.
func (r *SuretyRepository) CreateMany(sureties []models.Surety) error {
	if len(sureties) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i := range sureties {
		result, err := tx.NamedExec(insertSuretyQuery, &sureties[i])
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert for aadhar %s failed: %w", sureties[i].AadharNo, err)
		}
		id, _ := result.LastInsertId()
		sureties[i].ID = int(id)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *SuretyRepository) Update(surety *models.Surety) error {
	query := `UPDATE sureties SET surety_name = :surety_name, address = :address,
	          aadhar_no = :aadhar_no, police_station = :police_station,
	          case_fir_no = :case_fir_no, act_name = :act_name, section = :section,
	          accused_name = :accused_name, accused_address = :accused_address,
	          court_city = :court_city, amount = :amount,
	          date_of_surety = :date_of_surety
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, surety)
	return err
}

func (r *SuretyRepository) Delete(id int) (bool, error) {
	result, err := r.db.Exec("DELETE FROM sureties WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}
