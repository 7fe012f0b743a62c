package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/typed-emitter/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("DEBUG", "")

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestParseLevel_DebugFlag(t *testing.T) {
	t.Setenv("DEBUG", "1")

	assert.Equal(t, zerolog.DebugLevel, logging.ParseLevel(""))
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, zerolog.InfoLevel)

	log.Debug().Msg("hidden")
	log.Info().Str("event", "order.created").Msg("emitted")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"event":"order.created"`)
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Info().Msg("one")
	tl.Warn().Msg("two")

	assert.Len(t, tl.Lines(), 2)
	assert.True(t, tl.Contains("two"))
}

func TestNewConsole_WritesText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	log := logging.NewConsole(&buf, zerolog.InfoLevel)
	log.Info().Str("event", "order.created").Msg("emitted")
	log.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "emitted")
	assert.Contains(t, out, "event=order.created")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "{")
}
