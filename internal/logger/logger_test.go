package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	log := New(Options{Out: &bytes.Buffer{}})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_ConsoleOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Out: buf, Level: "debug"})

	log.Debug().Str("bank", "KASPI").Msg("parsed statement")

	out := buf.String()
	assert.Contains(t, out, "parsed statement")
	assert.Contains(t, out, "KASPI")
}

func TestNew_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Out: buf, JSON: true})

	log.Info().Int("accepted", 3).Msg("done")

	assert.Contains(t, buf.String(), `"accepted":3`)
	assert.Contains(t, buf.String(), `"message":"done"`)
}

func TestNew_LevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Out: buf, Level: "warn", JSON: true})

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	assert.NotZero(t, buf.Len())
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]any{"run_id": "abc"})

	log.Info().Msg("x")

	assert.Contains(t, buf.String(), `"run_id":"abc"`)
}
