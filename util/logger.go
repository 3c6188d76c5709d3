package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the application logger. Security events go through LogSecurityEvent instead.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// ConfigureLogger switches to JSON output in release mode and sets the level.
func ConfigureLogger(ginMode string) {
	if ginMode == "release" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		Log.SetLevel(logrus.InfoLevel)
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	Log.SetLevel(logrus.DebugLevel)
}
