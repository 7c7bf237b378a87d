package admin

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

// ImageReadError is returned when an uploaded image cannot be converted
type ImageReadError struct {
	Filename string
	Err      error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("failed to read image %q: %v", e.Filename, e.Err)
}

func (e *ImageReadError) Unwrap() error {
	return e.Err
}

var errEmptyImage = errors.New("file is empty")

// ReadImage converts the contents of r into a data URL.
// The MIME type comes from the file extension, falling back to content sniffing.
func ReadImage(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &ImageReadError{Filename: filename, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", &ImageReadError{Filename: filename, Err: errEmptyImage}
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ReadImageFile opens an uploaded multipart file and converts it with ReadImage
func ReadImageFile(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", &ImageReadError{Filename: fh.Filename, Err: err}
	}
	defer f.Close()

	return ReadImage(f, fh.Filename)
}
