// Package staff manages the hostel staff accounts allowed into the console.
package staff

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pgmhostel/pgm/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWarden  = "warden"
)

var AllRoles = []string{RoleAdmin, RoleManager, RoleWarden}

type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (s *Staff) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Staff) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// NewStaff contains information needed to create a new Staff account.
type NewStaff struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"omitempty,staffrole"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStaff) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Role = core.CleanString(ns.Role, true /* lower */)
	if ns.Role == "" {
		ns.Role = RoleManager
	}
}

// Login is the payload of a console sign in.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l *Login) Clean() {
	l.Email = core.CleanString(l.Email, true /* lower */)
}

// ResetPassword is an admin reset of a staff member's password.
type ResetPassword struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (rp *ResetPassword) Clean() {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
}
