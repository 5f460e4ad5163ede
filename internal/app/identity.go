package app

import (
	"errors"
	"os"

	"examnova/internal/ports"
)

const userEnv = "EXAMNOVA_USER"

// ErrNotAuthenticated is returned by user-scoped operations when nobody is
// signed in.
var ErrNotAuthenticated = errors.New("not authenticated")

// EnvIdentity resolves the current user from the EXAMNOVA_USER environment
// variable on every call, so a sign-in during the process lifetime is
// picked up by the next scheduler tick.
type EnvIdentity struct{}

var _ ports.Identity = EnvIdentity{}

// CurrentUserID reports the configured user id, or false when nobody is
// signed in.
func (EnvIdentity) CurrentUserID() (string, bool) {
	id := os.Getenv(userEnv)
	return id, id != ""
}
