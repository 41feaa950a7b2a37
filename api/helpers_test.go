package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// newTestAPI wires a full router against a throwaway sqlite DB and a
// temp-dir storage root. overrides lets a test flip individual config keys
// before the router is built.
func newTestAPI(t *testing.T, overrides map[string]any) *API {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dir := t.TempDir()

	viper.Set("app.log_level", "error")
	viper.Set("host.cors_origins", []string{"*"})
	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.ttl", "1h")
	viper.Set("db.driver", "sqlite")
	viper.Set("db.dsn", filepath.Join(dir, "test.db"))
	viper.Set("storage.type", "local")
	viper.Set("storage.root", filepath.Join(dir, "data"))
	viper.Set("upload.max_size", int64(25<<20))
	viper.Set("upload.allowed_extensions", []string{"txt", "pdf", "png", "jpg", "jpeg", "gif"})
	viper.Set("download.public", false)

	for k, v := range overrides {
		viper.Set(k, v)
	}

	a, err := NewRouter()
	require.NoError(t, err)

	return a
}

func doJSON(t *testing.T, a *API, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

// stripRequestID drops the per-request ID so two error payloads can be
// compared for equality.
func stripRequestID(t *testing.T, body []byte) string {
	t.Helper()

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out))
	delete(out, "requestID")

	b, err := json.Marshal(out)
	require.NoError(t, err)

	return string(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func signup(t *testing.T, a *API, username, password string) string {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/api/users", gin.H{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decode(t, w)["user_id"].(string)
}

func login(t *testing.T, a *API, username, password string) string {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/api/users/login", gin.H{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decode(t, w)["token"].(string)
}

func sendFile(t *testing.T, a *API, token, recipient, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	require.NoError(t, mw.WriteField("recipient_username", recipient))

	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func listReceived(t *testing.T, a *API, token string) []map[string]any {
	t.Helper()

	w := doJSON(t, a, http.MethodGet, "/api/files", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := []map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}
