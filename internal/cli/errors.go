package cli

import "errors"

type authError struct {
	msg string
}

func (e authError) Error() string { return e.msg }

func errNotLoggedIn() error {
	return authError{msg: "not logged in; run `hrdash login --domain <id>` first"}
}

func errSessionExpired() error {
	return authError{msg: "session expired; run `hrdash login` again"}
}

// IsAuthError reports whether err is a login/session problem rather than a
// remote failure. Used to pick the exit message.
func IsAuthError(err error) bool {
	var ae authError
	return errors.As(err, &ae)
}
