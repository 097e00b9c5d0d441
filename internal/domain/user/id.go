package user

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "user-directory/pkg/errors"
)

// NewID returns a fresh identifier for a user record.
func NewID() string {
	return uuid.NewString()
}

// ParseID normalizes a client supplied identifier.
// Anything that is not a UUID is reported as an InvalidIDError.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", pkgerrors.NewInvalidIDError(raw)
	}
	return id.String(), nil
}
