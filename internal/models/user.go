package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the capability tag carried by every authenticated user.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole accepts any casing of a known role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleStaff, RoleManager, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// WorksAtTruck reports whether the role operates a food truck.
func (r Role) WorksAtTruck() bool {
	return r == RoleStaff || r == RoleManager
}

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	PhoneNo      *string    `json:"phone_no" db:"phone_no"`
	Address      *string    `json:"address" db:"address"`
	Role         Role       `json:"role" db:"role"`
	FoodTruckID  *uuid.UUID `json:"food_truck_id,omitempty" db:"food_truck_id"` // set for staff and managers
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Actor is the authenticated identity a request acts as.
type Actor struct {
	UserID      uuid.UUID
	Role        Role
	FoodTruckID *uuid.UUID
}

// CanOperate reports whether the actor works at the given truck.
func (a Actor) CanOperate(truckID uuid.UUID) bool {
	return a.Role.WorksAtTruck() && a.FoodTruckID != nil && *a.FoodTruckID == truckID
}

// CustomerSearchFilter is used by staff to find the customer they order for
type CustomerSearchFilter struct {
	Query  string `json:"query,omitempty"` // matches email, first or last name
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
