package models

import "time"

type User struct {
	ID           int       `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	DOB          string    `db:"dob" json:"dob"` // YYYY-MM-DD, doubles as the login credential
	MobileNo     string    `db:"mobile_no" json:"mobile_no"`
	Village      string    `db:"village" json:"village"` // registered locality, default court city
	EmailID      string    `db:"email_id" json:"email_id"`
	Role         string    `db:"role" json:"role"` // admin, user
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type UserRequest struct {
	FullName string `json:"full_name" validate:"required"`
	DOB      string `json:"dob" validate:"required"`
	MobileNo string `json:"mobile_no" validate:"required"`
	Village  string `json:"village" validate:"required"`
	EmailID  string `json:"email_id" validate:"omitempty,email"`
}

type LoginRequest struct {
	MobileNo string `json:"mobile_no" validate:"required"`
	DOB      string `json:"dob" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
