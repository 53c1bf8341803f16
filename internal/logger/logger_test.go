package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{" DEBUG ", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseLevel(c.in), c.in)
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithSession(ctx, ""))
	assert.Empty(t, SessionID(ctx))

	ctx = WithSession(ctx, "abc-123")
	assert.Equal(t, "abc-123", SessionID(ctx))

	var buf bytes.Buffer
	base := zerolog.New(&buf)
	C(ctx, &base).Info().Msg("page fetched")
	assert.Contains(t, buf.String(), `"session_id":"abc-123"`)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("12345678"))
	assert.Equal(t, "sess...9xyz", MaskSecret("sessionid=abc; ttwid=9xyz"))
}
