package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoFile             = errors.New("no file provided")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileNameTooLong    = errors.New("file name is too long")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
	ErrFileNameInvalid    = errors.New("file name is invalid")
)

const maxFileNameSize = 255

// Extensions we know how to double-check against the actual bytes. Anything
// else on the allow-list passes on extension alone.
var sniffable = map[string]string{
	"txt":  "text/plain",
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// FileValidator checks an uploaded file against the configured allow-list and
// size limit before anything is written anywhere. On success it returns the
// opened file rewound to the start. The int is the HTTP status to respond
// with when err is not nil.
func FileValidator(fh *multipart.FileHeader) (int, multipart.File, error) {
	if fh == nil || fh.Size == 0 {
		return http.StatusBadRequest, nil, ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, nil, ErrFileNameTooLong
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, nil, ErrFileTooLarge
	}

	// Check the extension first which is easy to spoof, but fast for
	// legit clients
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))
	if !slices.Contains(viper.GetStringSlice("upload.allowed_extensions"), ext) {
		return http.StatusBadRequest, nil, ErrFileTypeNotAllowed
	}

	// And now look at the actual bytes to catch malicious clients
	// renaming binaries
	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	if want, ok := sniffable[ext]; ok {
		mime, err := mimetype.DetectReader(f)
		if err != nil {
			f.Close()
			return http.StatusInternalServerError, nil, err
		}

		if !mime.Is(want) {
			f.Close()
			return http.StatusBadRequest, nil, ErrFileTypeNotAllowed
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	return 0, f, nil
}

// SanitizeFilename strips directory components and anything outside a safe
// character set from name. The result is what gets embedded in the storage
// key, so nothing here may escape the storage root. An empty string means
// the name was unusable.
func SanitizeFilename(name string) string {
	// Clients on Windows send backslash-separated paths
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), ".")
	if out == "" {
		return ""
	}

	return out
}
