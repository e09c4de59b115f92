package models

import "time"

type Surety struct {
	ID             int        `db:"id" json:"id"`
	SuretyName     string     `db:"surety_name" json:"surety_name"`
	Address        string     `db:"address" json:"address"`
	AadharNo       string     `db:"aadhar_no" json:"aadhar_no"`
	PoliceStation  string     `db:"police_station" json:"police_station"`
	CaseFirNo      string     `db:"case_fir_no" json:"case_fir_no"`
	ActName        string     `db:"act_name" json:"act_name"`
	Section        string     `db:"section" json:"section"`
	AccusedName    string     `db:"accused_name" json:"accused_name"`
	AccusedAddress string     `db:"accused_address" json:"accused_address"`
	CourtCity      string     `db:"court_city" json:"court_city"`
	Amount         float64    `db:"amount" json:"amount"`
	DateOfSurety   *time.Time `db:"date_of_surety" json:"date_of_surety"`
	AssignedUserID int        `db:"assigned_user_id" json:"assigned_user_id"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// SuretyWithOwner joins the assigned user's display fields for listings.
type SuretyWithOwner struct {
	Surety
	OwnerFullName string `db:"owner_full_name" json:"owner_full_name"`
	OwnerMobileNo string `db:"owner_mobile_no" json:"owner_mobile_no"`
}

type SuretyRequest struct {
	SuretyName     string  `json:"surety_name" validate:"required"`
	Address        string  `json:"address" validate:"required"`
	AadharNo       string  `json:"aadhar_no" validate:"required"`
	PoliceStation  string  `json:"police_station" validate:"required"`
	CaseFirNo      string  `json:"case_fir_no" validate:"required"`
	ActName        string  `json:"act_name" validate:"required"`
	Section        string  `json:"section" validate:"required"`
	AccusedName    string  `json:"accused_name" validate:"required"`
	AccusedAddress string  `json:"accused_address" validate:"required"`
	CourtCity      string  `json:"court_city"`
	Amount         float64 `json:"amount" validate:"gt=0"`
	DateOfSurety   string  `json:"date_of_surety"`
	AssignedUserID int     `json:"assigned_user_id"`
}

// SuretyUpdateRequest carries optional fields; omitted fields keep their
// stored values.
type SuretyUpdateRequest struct {
	SuretyName     *string  `json:"surety_name"`
	Address        *string  `json:"address"`
	AadharNo       *string  `json:"aadhar_no"`
	PoliceStation  *string  `json:"police_station"`
	CaseFirNo      *string  `json:"case_fir_no"`
	ActName        *string  `json:"act_name"`
	Section        *string  `json:"section"`
	AccusedName    *string  `json:"accused_name"`
	AccusedAddress *string  `json:"accused_address"`
	CourtCity      *string  `json:"court_city"`
	Amount         *float64 `json:"amount"`
	DateOfSurety   *string  `json:"date_of_surety"`
}
