package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a request-supplied role string. Unknown values are
// rejected rather than defaulted; a forged role must never widen access.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

type User struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	DOB       string    `json:"dob"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the resolved (actor, claimed role) pair threaded into every
// operation. It carries what the request claims, not what the store says;
// the authorization guard reconciles the two.
type Identity struct {
	ActorID int64
	Role    Role
}

// StaffDetail is the one-to-one extension of a staff user.
type StaffDetail struct {
	StaffID        int64   `json:"staff_id"`
	SalaryPerHour  float64 `json:"salary_per_hour"`
	Notes          string  `json:"notes"`
	DateRegistered string  `json:"date_registered"`
}

// StaffRow is the admin staff-listing projection (users joined with
// staff_details).
type StaffRow struct {
	StaffID        int64   `json:"staff_id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	DOB            string  `json:"dob"`
	SalaryPerHour  float64 `json:"salary_per_hour"`
	Notes          string  `json:"notes"`
	DateRegistered string  `json:"date_registered"`
}

// StaffPatch is a partial update of a staff member. Nil fields keep the
// currently stored value; the zero string is a legitimate new value and is
// therefore distinct from "not supplied".
type StaffPatch struct {
	StaffID       int64
	FullName      *string
	Phone         *string
	DOB           *string
	SalaryPerHour *float64
	Notes         *string
}

// Empty reports whether the patch would change nothing.
func (p StaffPatch) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.DOB == nil &&
		p.SalaryPerHour == nil && p.Notes == nil
}
