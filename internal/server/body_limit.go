package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// urlencoding turns one byte into at most three ("%E2")
	FORM_ENCODING_FACTOR = 3
	// a JSON string escape turns one byte into at most six (a \u00e2 escape)
	JSON_ENCODING_FACTOR = 6
	BODY_LIMIT_SLACK     = 1024
)

// bodyLimit caps the request body at what maxTextBytes of text can encode to.
// Larger bodies are rejected before they are read into memory.
func bodyLimit(maxTextBytes int64, factor int64) echo.MiddlewareFunc {
	// a bare number is read as bytes
	return middleware.BodyLimit(strconv.FormatInt(maxTextBytes*factor+BODY_LIMIT_SLACK, 10))
}

// onBodyTooLarge turns a 413 from bodyLimit, or from reading a capped body, into
// the route's own response.
func onBodyTooLarge(respond func(c echo.Context) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if isBodyTooLarge(err) {
				return respond(c)
			}
			return err
		}
	}
}

// isBodyTooLarge digs through echo's wrapped binder errors for a 413, and also
// recognises net/http's own form size cap.
func isBodyTooLarge(err error) bool {
	for err != nil {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			break
		}
		if he.Code == http.StatusRequestEntityTooLarge {
			return true
		}
		err = he.Internal
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "request body too large") || strings.Contains(msg, "POST too large")
}
