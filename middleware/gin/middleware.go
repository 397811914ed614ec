package ginmw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/middleware"
)

// Options configures ParseEDI.
type Options struct {
	// Type fixes the message type. When empty, the route parameter named by
	// TypeParam is used, and when that is empty too the type is detected
	// from the UNH header.
	Type      string
	TypeParam string
	MaxBody   int64
	Parse     edikit.ParseOpt
}

// ParseEDI reads the request body as an interchange, parses it with the
// definition registered in reg and stores the message in the request
// context. Parse failures answer 400 with the issues payload; an unknown
// type answers 404.
func ParseEDI(reg *edikit.Registry, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := middleware.ReadBody(c.Request.Body, opts.MaxBody)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, middleware.ErrBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		typ := opts.Type
		if typ == "" && opts.TypeParam != "" {
			typ = c.Param(opts.TypeParam)
		}
		msg, err := reg.Parse(typ, text, opts.Parse)
		if err != nil {
			iss, ok := edikit.AsIssues(err)
			if !ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status := http.StatusBadRequest
			if iss.Is(edikit.ErrUnknownMessageType) {
				status = http.StatusNotFound
			}
			c.AbortWithStatusJSON(status, middleware.ErrorPayload(iss))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithMessage(c.Request.Context(), msg))
		c.Next()
	}
}

// GetMessage fetches the message stored by ParseEDI.
func GetMessage(c *gin.Context) (*edikit.Message, bool) {
	return middleware.MessageFromContext(c.Request.Context())
}
