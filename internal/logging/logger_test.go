package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Info().Int("movie_id", 42).Msg("rated movie")
	Debug().Msg("hidden")

	out := buf.String()
	require.Contains(t, out, `"movie_id":42`)
	require.Contains(t, out, `"message":"rated movie"`)
	require.NotContains(t, out, "hidden")
}

func TestCtx_AddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	ctx := WithCorrelationID(context.Background())
	id := CorrelationID(ctx)
	require.Len(t, id, 8)

	// no se pisa un id existente
	require.Equal(t, id, CorrelationID(WithCorrelationID(ctx)))

	Ctx(ctx).Warn().Msg("load more failed")
	require.Contains(t, buf.String(), id)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":    "debug",
		"WARNING":  "warn",
		"error":    "error",
		"disabled": "disabled",
		"nonsense": "info",
	}
	for in, want := range tests {
		require.Equal(t, want, parseLevel(in).String(), in)
	}
}
