package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingua-labs/lingua-api/internal/api/shared"
	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/mocks"
	"github.com/lingua-labs/lingua-api/internal/service"
	"github.com/lingua-labs/lingua-api/internal/store"
)

type authHandlerFixture struct {
	users    *mocks.MockUserStore
	tutors   *mocks.MockTutorStore
	verifier *mocks.MockPasswordVerifier
	router   chi.Router
}

func newAuthHandlerFixture(t *testing.T, role domain.Role) *authHandlerFixture {
	t.Helper()
	f := &authHandlerFixture{
		users:    &mocks.MockUserStore{},
		tutors:   &mocks.MockTutorStore{},
		verifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
	}
	svc, err := service.NewAuthService(
		f.users, f.tutors,
		&mocks.MockJWTService{Token: "signed-token"},
		&mocks.MockPasswordHasher{},
		f.verifier,
		discardLogger(),
	)
	require.NoError(t, err)

	h := NewAuthHandler(svc, discardLogger())
	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.With(asRole(role)).Get("/auth/profile", h.Profile)
	f.router = r
	return f
}

func TestNewAuthHandler_PanicsWithoutLogger(t *testing.T) {
	assert.Panics(t, func() { NewAuthHandler(nil, nil) })
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates learner by default", func(t *testing.T) {
		f := newAuthHandlerFixture(t, "")
		rr := serve(f.router, jsonRequest(t, http.MethodPost, "/auth/register", map[string]any{
			"email":     "Ana@Example.com",
			"password":  "secret1",
			"firstName": "Ana",
			"lastName":  "Lopez",
		}))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		resp := decodeBody[AuthResponse](t, rr)
		assert.Equal(t, "signed-token", resp.AccessToken)
		assert.Equal(t, "ana@example.com", resp.User.Email)
		assert.Equal(t, domain.RoleLearner, resp.User.Role)
		assert.NotNil(t, resp.User.CreatedAt)
		assert.NotContains(t, rr.Body.String(), "hashed:")

		require.Len(t, f.users.Created, 1)
		assert.Equal(t, "hashed:secret1", f.users.Created[0].HashedPassword)
	})

	t.Run("explicit role", func(t *testing.T) {
		f := newAuthHandlerFixture(t, "")
		rr := serve(f.router, jsonRequest(t, http.MethodPost, "/auth/register", map[string]any{
			"email": "t@example.com", "password": "secret1",
			"firstName": "T", "lastName": "Utor", "role": "TUTOR",
		}))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, domain.RoleTutor, decodeBody[AuthResponse](t, rr).User.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthHandlerFixture(t, "")
		f.users.GetByEmailFn = func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: uuid.New()}, nil
		}
		rr := serve(f.router, jsonRequest(t, http.MethodPost, "/auth/register", map[string]any{
			"email": "dup@example.com", "password": "secret1", "firstName": "A", "lastName": "B",
		}))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Email already exists", decodeBody[shared.ErrorResponse](t, rr).Error)
	})

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"bad email", map[string]any{"email": "nope", "password": "secret1", "firstName": "A", "lastName": "B"}, "email"},
		{"short password", map[string]any{"email": "a@b.co", "password": "123", "firstName": "A", "lastName": "B"}, "password"},
		{"missing first name", map[string]any{"email": "a@b.co", "password": "secret1", "lastName": "B"}, "firstName"},
		{"unknown role", map[string]any{"email": "a@b.co", "password": "secret1", "firstName": "A", "lastName": "B", "role": "OWNER"}, "role"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthHandlerFixture(t, "")
			rr := serve(f.router, jsonRequest(t, http.MethodPost, "/auth/register", tc.body))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeBody[shared.ErrorResponse](t, rr)
			assert.Equal(t, "Validation failed", resp.Error)
			require.Len(t, resp.Fields, 1)
			assert.Equal(t, tc.field, resp.Fields[0].Field)
			assert.Empty(t, f.users.Created)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		f := newAuthHandlerFixture(t, "")
		req := jsonRequest(t, http.MethodPost, "/auth/register", nil)
		req.Body = http.NoBody
		rr := serve(f.router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid request format", decodeBody[shared.ErrorResponse](t, rr).Error)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	existing := &domain.User{
		ID:             uuid.New(),
		Email:          "ana@example.com",
		HashedPassword: "hashed:secret1",
		FirstName:      "Ana",
		LastName:       "Lopez",
		Role:           domain.RoleAdmin,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}

	tests := []struct {
		name          string
		user          *domain.User
		passwordOK    bool
		expectedCode  int
		expectedError string
	}{
		{"success", existing, true, http.StatusOK, ""},
		{"unknown email", nil, true, http.StatusUnauthorized, "Invalid credentials"},
		{"wrong password", existing, false, http.StatusUnauthorized, "Invalid credentials"},
		{"deactivated", func() *domain.User { u := *existing; u.IsActive = false; return &u }(), true, http.StatusUnauthorized, "Account is deactivated"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthHandlerFixture(t, "")
			f.verifier.ShouldSucceed = tc.passwordOK
			if tc.user != nil {
				f.users.GetByEmailFn = func(context.Context, string) (*domain.User, error) { return tc.user, nil }
			}

			rr := serve(f.router, jsonRequest(t, http.MethodPost, "/auth/login", map[string]any{
				"email": "ana@example.com", "password": "secret1",
			}))

			require.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeBody[shared.ErrorResponse](t, rr).Error)
				return
			}
			resp := decodeBody[AuthResponse](t, rr)
			assert.Equal(t, "signed-token", resp.AccessToken)
			assert.Equal(t, domain.RoleAdmin, resp.User.Role)
			assert.Nil(t, resp.User.CreatedAt)
		})
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("requires principal", func(t *testing.T) {
		f := newAuthHandlerFixture(t, "")
		rr := serve(f.router, jsonRequest(t, http.MethodGet, "/auth/profile", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("learner has null tutor profile", func(t *testing.T) {
		f := newAuthHandlerFixture(t, domain.RoleLearner)
		f.users.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Email: "l@example.com", Role: domain.RoleLearner, IsActive: true}, nil
		}

		rr := serve(f.router, jsonRequest(t, http.MethodGet, "/auth/profile", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"tutorProfile":null`)
	})

	t.Run("tutor profile with languages", func(t *testing.T) {
		f := newAuthHandlerFixture(t, domain.RoleTutor)
		lang := &domain.Language{ID: uuid.New(), Name: "French", Country: "France", IsActive: true}
		f.users.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Email: "t@example.com", Role: domain.RoleTutor, IsActive: true}, nil
		}
		f.tutors.GetByUserIDFn = func(_ context.Context, userID uuid.UUID) (*domain.TutorProfile, error) {
			return &domain.TutorProfile{
				ID:          uuid.New(),
				UserID:      userID,
				IsAvailable: true,
				HourlyRate:  ptr(25.5),
				Languages:   []domain.TutorLanguage{{LanguageID: lang.ID, Language: lang}},
			}, nil
		}

		rr := serve(f.router, jsonRequest(t, http.MethodGet, "/auth/profile", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[ProfileResponse](t, rr)
		require.NotNil(t, resp.TutorProfile)
		assert.Equal(t, 25.5, *resp.TutorProfile.HourlyRate)
		require.Len(t, resp.TutorProfile.Languages, 1)
		assert.Equal(t, "French", resp.TutorProfile.Languages[0].Language.Name)
	})

	t.Run("user deleted after token issued", func(t *testing.T) {
		f := newAuthHandlerFixture(t, domain.RoleLearner)
		f.users.GetByIDFn = func(context.Context, uuid.UUID) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		}

		rr := serve(f.router, jsonRequest(t, http.MethodGet, "/auth/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "User not found", decodeBody[shared.ErrorResponse](t, rr).Error)
	})
}
