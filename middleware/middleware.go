// Package middleware holds the framework-neutral pieces shared by the HTTP
// adapters: request-scoped message storage, body limits and the JSON error
// payload.
package middleware

import (
	"context"
	"errors"
	"io"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/i18n"
)

// DefaultMaxBody caps interchange bodies read by the adapters.
const DefaultMaxBody int64 = 1 << 20

// ErrBodyTooLarge is returned by ReadBody when the limit is exceeded.
var ErrBodyTooLarge = errors.New("middleware: request body too large")

type ctxKeyMessage struct{}

// ContextWithMessage attaches a parsed message to the context.
func ContextWithMessage(ctx context.Context, msg *edikit.Message) context.Context {
	return context.WithValue(ctx, ctxKeyMessage{}, msg)
}

// MessageFromContext retrieves the message stored by ContextWithMessage.
func MessageFromContext(ctx context.Context) (*edikit.Message, bool) {
	v, ok := ctx.Value(ctxKeyMessage{}).(*edikit.Message)
	return v, ok && v != nil
}

// ReadBody reads at most max bytes (DefaultMaxBody when max <= 0).
func ReadBody(r io.Reader, max int64) (string, error) {
	if max <= 0 {
		max = DefaultMaxBody
	}
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > max {
		return "", ErrBodyTooLarge
	}
	return string(b), nil
}

// IssueView is the JSON shape of an issue in error responses.
type IssueView struct {
	Path     string `json:"path"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses. Messages missing on an
// issue are filled from the active translator.
func ErrorPayload(issues edikit.Issues) map[string]any {
	out := make([]IssueView, 0, len(issues))
	for _, it := range issues {
		msg := it.Message
		if msg == "" {
			msg = i18n.T(it.Code, map[string]string{"expected": it.Expected, "tag": it.Tag})
		}
		out = append(out, IssueView{
			Path:     it.Path,
			Code:     it.Code,
			Message:  msg,
			Line:     it.Line,
			Tag:      it.Tag,
			Field:    it.Field,
			Expected: it.Expected,
			Fragment: it.Fragment,
		})
	}
	return map[string]any{"issues": out}
}
