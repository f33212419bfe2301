package middleware

import (
	"context"

	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/viewstate"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyIsHTMX       ctxKey = "is_htmx"
	ctxKeySession      ctxKey = "session"
	ctxKeyLang         ctxKey = "lang"
	ctxKeyCapabilities ctxKey = "capabilities"
)

// WithHTMX marks request as HTMX
func WithHTMX(ctx context.Context, is bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, is)
}

// IsHTMX returns whether this is an htmx request
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return v
}

// WithLang stores the resolved page language.
func WithLang(ctx context.Context, l lang.Language) context.Context {
	return context.WithValue(ctx, ctxKeyLang, l)
}

// Lang returns the language resolved by the Language middleware, or the default.
func Lang(ctx context.Context) lang.Language {
	if v, ok := ctx.Value(ctxKeyLang).(lang.Language); ok && v != "" {
		return v
	}
	return lang.Default
}

// WithCapabilities stores the client capabilities detected for this request.
func WithCapabilities(ctx context.Context, c viewstate.Capabilities) context.Context {
	return context.WithValue(ctx, ctxKeyCapabilities, c)
}

// CapabilitiesFrom returns the detected capabilities; zero value if absent.
func CapabilitiesFrom(ctx context.Context) viewstate.Capabilities {
	c, _ := ctx.Value(ctxKeyCapabilities).(viewstate.Capabilities)
	return c
}
