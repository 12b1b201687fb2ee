package staff

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pgmhostel/pgm/core"
)

var (
	// errors
	ErrNotFound             = errors.New("staff not found")
	ErrEmailExists          = errors.New("a staff member with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAccountDeactivated   = errors.New("account deactivated")
)

type (
	Repository interface {
		CreateStaff(ctx context.Context, s Staff) (Staff, error)
		QueryAllStaff(ctx context.Context) ([]Staff, error)
		GetStaffByID(ctx context.Context, id string) (Staff, error)
		GetStaffByEmail(ctx context.Context, email string) (Staff, error)
		SetLastLogin(ctx context.Context, id string, at time.Time) error
		SetPassword(ctx context.Context, id string, hash []byte, at time.Time) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewStaff) (Staff, error)
		Authenticate(ctx context.Context, login Login) (Staff, error)
		QueryAll(ctx context.Context) ([]Staff, error)
		GetByID(ctx context.Context, id string) (Staff, error)
		ResetPassword(ctx context.Context, rp ResetPassword) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string) error {
	_, err := svc.repo.GetStaffByEmail(ctx, email)
	switch errors.Cause(err) {
	case ErrNotFound:
		return nil
	case nil:
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	default:
		return errors.Wrap(err, "checking email uniqueness")
	}
}

func (svc *Service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Staff{}, err
	}
	if err := svc.checkUniqueness(ctx, ns.Email); err != nil {
		return Staff{}, err
	}

	now := time.Now().UTC()
	s := Staff{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Email:     ns.Email,
		Role:      ns.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Staff{}, errors.Wrap(err, "hashing password")
	}
	s, err := svc.repo.CreateStaff(ctx, s)
	return s, errors.Wrap(err, "creating staff")
}

// Authenticate checks the credentials and records the login.
// Unknown emails and wrong passwords both yield ErrAuthenticationFailed.
func (svc *Service) Authenticate(ctx context.Context, login Login) (Staff, error) {
	login.Clean()
	if err := svc.validate.Struct(login); err != nil {
		return Staff{}, err
	}

	s, err := svc.repo.GetStaffByEmail(ctx, login.Email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Staff{}, ErrAuthenticationFailed
		}
		return Staff{}, errors.Wrap(err, "finding staff by email")
	}
	if err = s.CheckPassword(login.Password); err != nil {
		return Staff{}, ErrAuthenticationFailed
	}
	if !s.IsActive {
		return Staff{}, ErrAccountDeactivated
	}

	s.LastLogin = time.Now().UTC()
	if err = svc.repo.SetLastLogin(ctx, s.ID, s.LastLogin); err != nil {
		return Staff{}, errors.Wrap(err, "setting lastLogin")
	}
	return s, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Staff, error) {
	return svc.repo.QueryAllStaff(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Staff, error) {
	return svc.repo.GetStaffByID(ctx, id)
}

// ResetPassword sets a new password on the account registered under rp.Email.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetPassword) error {
	rp.Clean()
	if err := svc.validate.Struct(rp); err != nil {
		return err
	}

	s, err := svc.repo.GetStaffByEmail(ctx, rp.Email)
	if err != nil {
		return errors.Wrap(err, "finding staff by email")
	}
	if err = s.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return errors.Wrap(svc.repo.SetPassword(ctx, s.ID, s.PasswordHash, time.Now()), "setting password")
}
