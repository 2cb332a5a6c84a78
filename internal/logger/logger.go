package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// Init configures the shared logger. JSON output in production, colored
// text during development.
func Init(level string, development bool) *logrus.Logger {
	l := logrus.New()

	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		l.SetLevel(parsed)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	if !development || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.SetOutput(os.Stdout)
	log = l
	return l
}

// Get returns the shared logger, initializing it with defaults if needed.
func Get() *logrus.Logger {
	if log == nil {
		return Init("info", false)
	}
	return log
}

// WithGame returns an entry tagged with an external game id.
func WithGame(gameID string) *logrus.Entry {
	return Get().WithField("game_id", gameID)
}

// WithPlayer returns an entry tagged with player context.
func WithPlayer(playerID, name string) *logrus.Entry {
	return Get().WithFields(logrus.Fields{
		"player_id":   playerID,
		"player_name": name,
	})
}
