package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = NewValidationError("id", "cannot be empty", nil)
	ErrEmptyEmail          = NewValidationError("email", "cannot be empty", nil)
	ErrEmptyName           = NewValidationError("name", "first and last name are required", nil)
	ErrEmptyHashedPassword = NewValidationError("password", "hash cannot be empty", nil)
	ErrInvalidRole         = NewValidationError("role", "must be one of LEARNER, TUTOR, ADMIN", nil)
)

// Role is the authorization level carried by a user and their tokens.
type Role string

const (
	RoleLearner Role = "LEARNER"
	RoleTutor   Role = "TUTOR"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleTutor, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents a registered account.
type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	Role           Role
	Avatar         *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// TutorProfile is only populated by profile lookups.
	TutorProfile *TutorProfile
}

// NewUser creates an active user with a fresh ID. An empty role defaults to LEARNER.
// The caller is responsible for hashing the password beforehand.
func NewUser(email, hashedPassword, firstName, lastName string, role Role) (*User, error) {
	if role == "" {
		role = RoleLearner
	}

	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          strings.TrimSpace(email),
		HashedPassword: hashedPassword,
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		Role:           role,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	if u.FirstName == "" || u.LastName == "" {
		return ErrEmptyName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// TutorProfile holds tutor-specific data attached to a user.
type TutorProfile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Bio         *string
	HourlyRate  *float64
	IsAvailable bool
	Languages   []TutorLanguage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TutorLanguage links a tutor to a language they teach.
type TutorLanguage struct {
	TutorID     uuid.UUID
	LanguageID  uuid.UUID
	Proficiency *string
	Language    *Language
}

// LanguageTutor is the tutor listing shown on a language detail page.
type LanguageTutor struct {
	ID          uuid.UUID
	Bio         *string
	HourlyRate  *float64
	IsAvailable bool
	FirstName   string
	LastName    string
	Avatar      *string
}
