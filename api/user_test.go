package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSignupLoginProfile(t *testing.T) {
	a := newTestAPI(t, nil)

	userID := signup(t, a, "alice", "password123")
	require.NotEmpty(t, userID)

	token := login(t, a, "alice", "password123")
	require.NotEmpty(t, token)

	w := doJSON(t, a, http.MethodGet, "/api/users", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	require.Equal(t, "alice", out["username"])
	require.Equal(t, userID, out["id"])

	// The password hash must never appear anywhere in the response
	require.NotContains(t, w.Body.String(), "argon2id")
	require.NotContains(t, w.Body.String(), "password_hash")
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newTestAPI(t, nil)

	signup(t, a, "alice", "password123")

	w := doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{
		"username": "alice",
		"password": "wrongpass",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownUserSameResponse(t *testing.T) {
	a := newTestAPI(t, nil)

	signup(t, a, "alice", "password123")

	wrongPass := doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{
		"username": "alice",
		"password": "wrongpass",
	}, "")
	unknownUser := doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{
		"username": "mallory",
		"password": "wrongpass",
	}, "")

	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, wrongPass.Code, unknownUser.Code)
	require.JSONEq(t, stripRequestID(t, wrongPass.Body.Bytes()), stripRequestID(t, unknownUser.Body.Bytes()))
}

func TestSignup_DuplicateUsername(t *testing.T) {
	a := newTestAPI(t, nil)

	signup(t, a, "alice", "password123")

	w := doJSON(t, a, http.MethodPost, "/api/users", gin.H{
		"username": "alice",
		"password": "different456",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "already taken")
}

func TestSignup_Validation(t *testing.T) {
	a := newTestAPI(t, nil)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"short password", "alice", "short"},
		{"empty username", "", "password123"},
		{"long username", string(make([]byte, 51)), "password123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, a, http.MethodPost, "/api/users", gin.H{
				"username": tc.username,
				"password": tc.password,
			}, "")
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProfile_Unauthorized(t *testing.T) {
	a := newTestAPI(t, nil)

	// No token at all
	w := doJSON(t, a, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token
	w = doJSON(t, a, http.MethodGet, "/api/users", nil, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	a := newTestAPI(t, nil)

	signup(t, a, "alice", "password123")
	token := login(t, a, "alice", "password123")

	req := doJSON(t, a, http.MethodHead, "/api/validate", nil, token)
	require.Equal(t, http.StatusOK, req.Code)

	req = doJSON(t, a, http.MethodHead, "/api/validate", nil, "bogus")
	require.Equal(t, http.StatusUnauthorized, req.Code)
}

func TestHeartbeat(t *testing.T) {
	a := newTestAPI(t, nil)

	w := doJSON(t, a, http.MethodHead, "/api/heartbeat", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
}
