package cli

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    zerolog.Level
	}{
		{level: "", want: zerolog.InfoLevel},
		{level: "WARN", want: zerolog.WarnLevel},
		{level: "nonsense", want: zerolog.InfoLevel},
		{level: "error", verbose: true, want: zerolog.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, NewLogger(&bytes.Buffer{}, tt.level, tt.verbose).GetLevel())
		})
	}
}

func TestNewLogger_WritesToGivenWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, "info", false)
	log.Info().Str("component", "board").Msg("Attendees refreshed")
	assert.Contains(t, buf.String(), "Attendees refreshed")
	assert.Contains(t, buf.String(), "component=board")
}
