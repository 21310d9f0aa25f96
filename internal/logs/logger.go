package logs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger uygulama genelinde kullanılan logger (Init ile hazırlanır).
var Logger = logrus.New()

type Options struct {
	Level  string // trace|debug|info|warning|error
	Format string // text|json
}

func Init(opts Options) {
	l := logrus.New()

	switch opts.Level {
	case "trace":
		l.SetLevel(logrus.TraceLevel)
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warning", "warn":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}

	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	l.SetOutput(os.Stdout)
	Logger = l
}
