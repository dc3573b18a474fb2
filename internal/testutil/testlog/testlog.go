package testlog

import (
	"testing"

	"github.com/danmuck/postbuild/internal/logging"
	"github.com/rs/zerolog/log"
)

// Start configures test logging once per binary and tags the running test.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Debug().Str("test", t.Name()).Msg("start")
}
