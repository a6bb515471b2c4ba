package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds an app-scoped console logger and installs it as the
// global zerolog logger, one per binary.
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	l := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = l
	return l
}
