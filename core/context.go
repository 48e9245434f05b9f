package core

import "context"

// Context keys for execution options
type contextKey string

const (
	skipRevealKey contextKey = "skipReveal"
	observerKey   contextKey = "observer"
)

// WithSkipReveal disables the reveal pause for the rest of the call chain
func WithSkipReveal(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipRevealKey, true)
}

// shouldSkipReveal returns whether the reveal pause is disabled in context
func shouldSkipReveal(ctx context.Context) bool {
	val := ctx.Value(skipRevealKey)
	if val == nil {
		return false // default: pause before revealing
	}
	skip, ok := val.(bool)
	return ok && skip
}

// ContextWithObserver attaches an observer for evaluations and shares
func ContextWithObserver(ctx context.Context, o Observer) context.Context {
	return context.WithValue(ctx, observerKey, o)
}

// observerFromContext returns the attached observer, or nil
func observerFromContext(ctx context.Context) Observer {
	o, _ := ctx.Value(observerKey).(Observer)
	return o
}
