// ABOUTME: Tenant identifier validation applied before any path is built from an ID
// ABOUTME: Allow-list only; rejects separators, dots and anything outside [A-Za-z0-9_-]

package tenant

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidTenantID is returned for identifiers that are unsafe as directory names.
var ErrInvalidTenantID = errors.New("invalid tenant id")

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateID reports whether id may be used as a tenant identifier.
func ValidateID(id string) error {
	if !tenantIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidTenantID, id)
	}
	return nil
}
