package echomw

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/middleware"
)

// Options configures ParseEDI.
type Options struct {
	// Type fixes the message type. When empty, the path parameter named by
	// TypeParam is used, and when that is empty too the type is detected
	// from the UNH header.
	Type      string
	TypeParam string
	MaxBody   int64
	Parse     edikit.ParseOpt
}

// ParseEDI parses the request body with the definition registered in reg
// and stores the message in the request context. It answers 400 with the
// issues payload on parse failures, 404 for an unknown type and 413 for an
// oversized body.
func ParseEDI(reg *edikit.Registry, opts Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			text, err := middleware.ReadBody(c.Request().Body, opts.MaxBody)
			if err != nil {
				status := http.StatusBadRequest
				if errors.Is(err, middleware.ErrBodyTooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				return c.JSON(status, map[string]any{"error": err.Error()})
			}
			typ := opts.Type
			if typ == "" && opts.TypeParam != "" {
				typ = c.Param(opts.TypeParam)
			}
			msg, err := reg.Parse(typ, text, opts.Parse)
			if err != nil {
				iss, ok := edikit.AsIssues(err)
				if !ok {
					return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
				}
				status := http.StatusBadRequest
				if iss.Is(edikit.ErrUnknownMessageType) {
					status = http.StatusNotFound
				}
				return c.JSON(status, middleware.ErrorPayload(iss))
			}
			ctx := middleware.ContextWithMessage(c.Request().Context(), msg)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetMessage fetches the message stored by ParseEDI.
func GetMessage(c echo.Context) (*edikit.Message, bool) {
	return middleware.MessageFromContext(c.Request().Context())
}
