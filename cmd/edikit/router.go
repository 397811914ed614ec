package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/jsonview"
	"github.com/reoring/edikit/middleware"
	ginmw "github.com/reoring/edikit/middleware/gin"
)

const contentTypeEDIFACT = "application/EDIFACT"

type routerOptions struct {
	maxBody int64
	logger  *slog.Logger
	// check, when set, runs cross-field rules on every parsed message.
	check func(*edikit.Message) error
}

func newRouter(reg *edikit.Registry, opts routerOptions) *gin.Engine {
	r := gin.New()
	if opts.logger != nil {
		r.Use(requestLogger(opts.logger))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.GET("/types", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"types": reg.Types()})
	})
	parse := ginmw.ParseEDI(reg, ginmw.Options{TypeParam: "type", MaxBody: opts.maxBody})
	v1.POST("/messages", parse, projectHandler(reg, opts.check))
	v1.POST("/messages/:type", parse, projectHandler(reg, opts.check))
	v1.POST("/format", formatHandler(reg, opts.maxBody))
	return r
}

// projectHandler answers with the JSON projection of the parsed message.
func projectHandler(reg *edikit.Registry, check func(*edikit.Message) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, ok := ginmw.GetMessage(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if check != nil {
			if err := check(msg); err != nil {
				abortWithError(c, err)
				return
			}
		}
		def, err := lookup(reg, msg.Type)
		if err != nil {
			abortWithError(c, err)
			return
		}
		b, err := jsonview.Marshal(def, msg)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
	}
}

// formatHandler renders a JSON projection as interchange text. The query
// parameter una=true prefixes a UNA service string advice.
func formatHandler(reg *edikit.Registry, maxBody int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := middleware.ReadBody(c.Request.Body, maxBody)
		if err != nil {
			abortWithError(c, err)
			return
		}
		data := []byte(body)
		typ := c.Query("type")
		if typ == "" {
			if typ, err = jsonview.TypeOf(data); err != nil {
				abortWithError(c, err)
				return
			}
		}
		def, err := lookup(reg, typ)
		if err != nil {
			abortWithError(c, err)
			return
		}
		msg, err := jsonview.Unmarshal(def, data)
		if err != nil {
			abortWithError(c, err)
			return
		}
		out, err := edikit.Format(def, msg, edikit.FormatOpt{EmitUNA: c.Query("una") == "true"})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, contentTypeEDIFACT, []byte(out))
	}
}

func abortWithError(c *gin.Context, err error) {
	switch iss, ok := edikit.AsIssues(err); {
	case ok && iss.Is(edikit.ErrUnknownMessageType):
		c.AbortWithStatusJSON(http.StatusNotFound, middleware.ErrorPayload(iss))
	case ok:
		c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
	case errors.Is(err, middleware.ErrBodyTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func requestLogger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
