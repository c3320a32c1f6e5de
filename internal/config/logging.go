package config

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Logging struct {
	Level logrus.Level
	File  string // rotated JSON log, empty to disable
}

func NewLogging() (*Logging, error) {
	cfg := &Logging{Level: logrus.InfoLevel}
	if Development() {
		cfg.Level = logrus.DebugLevel
	}
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		l, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = l
	}
	cfg.File = os.Getenv("LOG_FILE")
	return cfg, nil
}

// Logger writes colored text to stderr in development and JSON otherwise.
// With File set every entry is also appended to a rotated JSON file.
func (l *Logging) Logger() (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(l.Level)
	if Development() {
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if l.File == "" {
		return logger, nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   l.File,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      l.Level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, err
	}
	logger.AddHook(hook)
	return logger, nil
}
