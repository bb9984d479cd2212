package storage

import (
	"io"
	"testing"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/config"
)

func loadConfig(t *testing.T) {
	t.Helper()
	restore := colors.SetOutput(io.Discard, io.Discard)
	t.Cleanup(restore)
	config.Load()
}
