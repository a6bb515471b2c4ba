// Package testlog configures process logging for test binaries and
// emits one line identifying the running test to its log sink.
package testlog

import (
	"testing"

	"github.com/danmuck/extprot/internal/logging"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	logger := logging.Logger()
	logger.Info().Str("test", t.Name()).Msg("test started")
}
