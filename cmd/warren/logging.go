package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/taigrr/warren/pkg/config"
)

// newLogger builds the process logger. The interactive crawler owns the
// terminal, so it always logs to a rotating file, falling back to
// warren.log when none is configured.
func newLogger(c config.Log, interactive bool) (*logrus.Logger, io.Closer, error) {
	lvl, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	log := logrus.New()
	log.SetLevel(lvl)

	file := c.File
	if file == "" && interactive {
		file = "warren.log"
	}
	if file == "" {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		return log, io.NopCloser(nil), nil
	}
	sink := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
	}
	log.SetOutput(sink)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, sink, nil
}
