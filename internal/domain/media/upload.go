package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"seratus-studio/internal/apperr"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadSize caps every image upload.
const MaxUploadSize int64 = 10 << 20

const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
	TypeWEBP = "image/webp"
	TypeSVG  = "image/svg+xml"
)

var allowedTypes = map[string]string{
	TypeJPEG: ".jpg",
	TypePNG:  ".png",
	TypeWEBP: ".webp",
	TypeSVG:  ".svg",
}

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	nonSlug      = regexp.MustCompile(`[^a-z0-9._\-]+`)
	multiDash    = regexp.MustCompile(`-+`)
)

// Upload is an image the API layer has read fully into memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (u Upload) Size() int64 {
	return int64(len(u.Data))
}

// Validate checks the size cap and sniffs the real content type against the
// image allow-list. It returns the detected type.
func Validate(u Upload) (string, error) {
	if u.Size() == 0 {
		return "", apperr.Validation("No file uploaded")
	}
	if u.Size() > MaxUploadSize {
		return "", apperr.Validation("File too large. Maximum size is %dMB", MaxUploadSize>>20)
	}

	detected := mimetype.Detect(u.Data)
	for t := range allowedTypes {
		if detected.Is(t) {
			return t, nil
		}
	}

	// Some SVGs sniff as plain XML.
	if strings.EqualFold(filepath.Ext(u.Filename), ".svg") && (detected.Is("text/xml") || detected.Is("text/plain") || u.ContentType == TypeSVG) {
		return TypeSVG, nil
	}

	return "", apperr.Validation("Invalid file type. Only JPEG, PNG, WebP and SVG are allowed")
}

// Ext returns the canonical file extension for an allowed type.
func Ext(contentType string) string {
	return allowedTypes[contentType]
}

// IsRaster reports whether the type can be decoded and resized.
func IsRaster(contentType string) bool {
	return contentType == TypeJPEG || contentType == TypePNG
}

// SafeName turns a user supplied name into a lowercase file-system safe slug.
func SafeName(name string) string {
	base := invalidChars.ReplaceAllString(strings.TrimSpace(name), "")
	base = strings.ToLower(strings.ReplaceAll(base, " ", "-"))
	base = nonSlug.ReplaceAllString(base, "-")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")

	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" {
		base = "file"
	}
	return base
}

// ObjectKey builds "<dir>/<unix-millis>-<safe name><ext>". The extension comes
// from the detected type so a renamed file cannot pick its own.
func ObjectKey(dir string, unixMillis int64, name, contentType string) string {
	base := SafeName(strings.TrimSuffix(name, filepath.Ext(name)))
	return fmt.Sprintf("%s/%d-%s%s", strings.Trim(dir, "/"), unixMillis, base, Ext(contentType))
}
