package extract

import (
	"net/http"
	"strings"

	"github.com/oukeidos/scantranslate/internal/apperrors"
)

// MIME types the extraction call accepts. PDF uploads are rendered to PNG
// pages before they reach this gate.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEPDF  = "application/pdf"
)

func imageMIME(mime string) bool {
	switch mime {
	case MIMEJPEG, "image/jpg", MIMEPNG:
		return true
	}
	return false
}

// ResolveMIME validates the declared media type against the accepted set,
// sniffing the bytes when the declaration is missing or generic. It rejects
// anything that is not a JPEG or PNG page image.
func ResolveMIME(declared string, data []byte) (string, error) {
	mime := strings.ToLower(strings.TrimSpace(declared))
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	if !imageMIME(mime) {
		return "", apperrors.Unsupported(nil)
	}
	if mime == "image/jpg" {
		mime = MIMEJPEG
	}
	return mime, nil
}

// SniffUpload classifies raw upload bytes as image, PDF, or unsupported.
func SniffUpload(declared string, data []byte) (string, error) {
	mime := strings.ToLower(strings.TrimSpace(declared))
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	if mime == MIMEPDF {
		return MIMEPDF, nil
	}
	return ResolveMIME(mime, data)
}
