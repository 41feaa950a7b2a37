package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenInvalid   = errors.New("token is invalid")
)

// Claims carries the verified subject of a token. Expiry is only present
// when jwt.ttl is configured above zero.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// MakeToken mints a signed token asserting the identity of userID. The token
// is self-contained: nothing is stored server-side and losing the secret
// invalidates every token out there.
func MakeToken(userID string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: userID,
	}

	if ttl := viper.GetDuration("jwt.ttl"); ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}

// ParseToken verifies tok by recomputing the signature and returns the
// subject user ID. Failures come back as one of ErrTokenExpired,
// ErrTokenMalformed or ErrTokenInvalid; callers must reject the request on
// any of them and may use the distinction for logging only.
func ParseToken(tok string) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", ErrTokenInvalid
		}
	}

	if !t.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}

	return claims.UserID, nil
}
