package auth

import (
	"time"

	"github.com/lingua-labs/lingua-api/internal/domain"
)

// NewTestJWTService creates a JWT service with a fixed clock for tests.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	svc, err := newHMACJWTService(secret, lifetime, timeFunc)
	if err != nil {
		panic(err)
	}
	return svc
}

func testUser(role domain.Role) *domain.User {
	u, err := domain.NewUser("learner@example.com", "hash", "Ada", "Lovelace", role)
	if err != nil {
		panic(err)
	}
	return u
}
