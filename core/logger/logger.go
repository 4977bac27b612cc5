package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	log.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the global log level ("debug", "info", "warn", "error").
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	log.SetLevel(parsed)
}

// fields turns a variadic key/value list into logrus fields. A trailing odd
// argument or a bare error is recorded under "error".
func fields(args []any) logrus.Fields {
	f := logrus.Fields{}
	i := 0
	for i < len(args) {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			f[key] = args[i+1]
			i += 2
			continue
		}
		if err, ok := args[i].(error); ok {
			f["error"] = err.Error()
		} else {
			f["detail"] = args[i]
		}
		i++
	}
	return f
}

func Debug(msg string, args ...any) {
	log.WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	log.WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	log.WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	log.WithFields(fields(args)).Error(msg)
}
