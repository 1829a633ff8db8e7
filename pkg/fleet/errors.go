package fleet

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingRigID       = errors.New("missing rig_id")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrInvalidCursor      = errors.New("invalid cursor")
	ErrRigNotFound        = errors.New("rig not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidAuthorization = fmt.Errorf("%w: invalid authorization", ErrUnauthorized)
	ErrInvalidAPIKey        = fmt.Errorf("%w: invalid API key", ErrUnauthorized)
)

func storageError(op string, err error) error {
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

// IsClientError reports whether err is caused by the caller rather than the store.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrMissingRigID) ||
		errors.Is(err, ErrInvalidTimestamp) ||
		errors.Is(err, ErrInvalidCursor) ||
		errors.Is(err, ErrRigNotFound)
}
