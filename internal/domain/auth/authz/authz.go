package authz

import (
	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"

	"github.com/pmelnyk/currency-service/internal/domain/auth/model"
)

// Authorize checks plain membership of required in roles. Editor does not
// imply viewer.
func Authorize(roles []model.Role, required model.Role) error {
	for _, r := range roles {
		if r == required {
			return nil
		}
	}
	return customErrors.ErrPermissionDenied
}
