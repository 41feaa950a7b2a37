package validators

import (
	"errors"
	"strings"
	"testing"
)

func TestPasswordValidator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		password string
		want     error
	}{
		{"", ErrPasswordEmpty},
		{"short", ErrPasswordTooShort},
		{"1234567", ErrPasswordTooShort},
		{"password123", nil},
		{strings.Repeat("a", 256), ErrPasswordTooLong},
	}

	for _, tc := range cases {
		err := PasswordValidator(tc.password)
		if !errors.Is(err, tc.want) {
			t.Fatalf("PasswordValidator(%q) = %v, want %v", tc.password, err, tc.want)
		}
	}
}

func TestUsernameValidator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		username string
		want     error
	}{
		{"", ErrUsernameEmpty},
		{"alice", nil},
		{"a", nil},
		{strings.Repeat("a", 50), nil},
		{strings.Repeat("a", 51), ErrUsernameTooLong},
		{"al ice", ErrUsernameInvalid},
		{"alice\n", ErrUsernameInvalid},
	}

	for _, tc := range cases {
		err := UsernameValidator(tc.username)
		if !errors.Is(err, tc.want) {
			t.Fatalf("UsernameValidator(%q) = %v, want %v", tc.username, err, tc.want)
		}
	}
}
