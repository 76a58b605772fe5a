package auth

import "github.com/lingua-labs/lingua-api/internal/domain"

// Allow reports whether a caller holding callerRole may use an operation
// restricted to any of the required roles. No required roles means the
// operation is open to every authenticated caller.
func Allow(callerRole domain.Role, required ...domain.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if callerRole == r {
			return true
		}
	}
	return false
}
