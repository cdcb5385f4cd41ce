package auth

import (
	"errors"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

// ErrPermissionDenied means the identity is known but not allowed to act.
// It is deliberately distinct from the token errors: the caller is
// authenticated, just insufficient.
var ErrPermissionDenied = errors.New("permission denied")

// Authorize checks that the identity satisfies the required role. Roles
// form a total order (user < admin). An inactive identity satisfies no
// requirement, including the lowest. Pure function of its inputs.
func Authorize(identity domain.Identity, required domain.Role) error {
	if !identity.Active {
		return ErrPermissionDenied
	}
	if !identity.Role.AtLeast(required) {
		return ErrPermissionDenied
	}
	return nil
}
