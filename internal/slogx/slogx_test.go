package slogx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, VerbosityLevel(0, slog.LevelWarn))
	assert.Equal(t, slog.LevelDebug, VerbosityLevel(1, slog.LevelWarn))
	assert.Equal(t, LevelTrace, VerbosityLevel(2, slog.LevelInfo))
	assert.Equal(t, LevelFile, VerbosityLevel(3, slog.LevelInfo))
	assert.Equal(t, LevelFile, VerbosityLevel(9, slog.LevelInfo))
}

func TestNewPrintsCustomLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelFile)
	log.Log(context.Background(), LevelTrace, "day")
	log.Log(context.Background(), LevelFile, "file")
	log.Debug("month")

	out := buf.String()
	assert.Contains(t, out, "level=TRACE msg=day")
	assert.Contains(t, out, "level=FILE msg=file")
	assert.Contains(t, out, "level=DEBUG msg=month")
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)
	log.Debug("hidden")
	log.Log(context.Background(), LevelTrace, "hidden too")
	assert.Empty(t, buf.String())
}
