// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"strings"
)

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username can't be longer than 50 characters")
	ErrUsernameInvalid = errors.New("username contains invalid characters")
)

func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) > 50 {
		return ErrUsernameTooLong
	}

	if strings.ContainsAny(u, " \t\r\n") {
		return ErrUsernameInvalid
	}

	return nil
}
