package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// NewCorrelationID devuelve los primeros 8 caracteres de un UUID.
func NewCorrelationID() string {
	return uuid.New().String()[:8]
}

// WithCorrelationID mete un id de correlación nuevo en el contexto, salvo
// que ya exista uno.
func WithCorrelationID(ctx context.Context) context.Context {
	if CorrelationID(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, NewCorrelationID())
}

// CorrelationID devuelve "" si el contexto no tiene id.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx devuelve el logger global con el id de correlación del contexto.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := Logger()
	if id := CorrelationID(ctx); id != "" {
		l = l.With().Str("correlation_id", id).Logger()
	}
	return &l
}
