package respond

import (
	"errors"
	"io"
	"net/http"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PrincipalKey is the gin context key the auth middleware stores the caller under.
const PrincipalKey = "principal"

// Error logs err and writes {"error": message} with the status for its kind.
// Internal causes are logged but never sent to the client.
func Error(c *gin.Context, err error) {
	e := apperr.From(err, c.Request.Method+" "+c.FullPath())
	status := e.HTTPStatus()

	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("request failed")

	msg := e.Message
	if e.Kind == apperr.KindInternal {
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// BadRequest reports a malformed request body or query.
func BadRequest(c *gin.Context, msg string) {
	Error(c, apperr.Validation("%s", msg))
}

// Principal returns the authenticated caller or nil.
func Principal(c *gin.Context) *users.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*users.Principal)
	return p
}

// FormUpload reads a multipart file field fully into memory. A missing field
// yields nil with no error. Reads stop one byte past the size cap so
// oversized files still fail validation.
func FormUpload(c *gin.Context, field string) (*media.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("Invalid multipart form")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal("open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadSize+1))
	if err != nil {
		return nil, apperr.Internal("read upload", err)
	}
	return &media.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// IsMultipart reports whether the request carries a multipart form.
func IsMultipart(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEMultipartPOSTForm
}
