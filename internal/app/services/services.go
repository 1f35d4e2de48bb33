// Package services holds the business rules of the portal. Services
// validate form input, enforce the role and uniqueness rules, and turn store
// failures into the "Failed to ..." messages shown to users.
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

// Clock returns the current time; tests replace it
type Clock func() time.Time

// storeErr passes user facing errors through and wraps everything else
// as a failed store operation.
func storeErr(op string, err error) error {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return apperrors.NewOperationError(op, err)
}

// orDefault returns def when v is blank
func orDefault[S ~string](v S, def S) S {
	if strings.TrimSpace(string(v)) == "" {
		return def
	}
	return v
}
