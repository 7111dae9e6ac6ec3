// Package logger holds the process-wide loggers. Everything logs through
// these four; there is no per-package logger state.
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

// InitLogger points all four levels at stdout plus a fresh timestamped file
// under ./logs. Runs from init; exported so it can be rerun after rotation.
func InitLogger() error {
	if err := os.MkdirAll("./logs", 0700); err != nil {
		return err
	}

	name := filepath.Join("logs", time.Now().Format("2006-01-02_15-04-05")+".log")
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	out := io.MultiWriter(os.Stdout, file)
	flags := log.Ldate | log.Ltime | log.Lshortfile

	Info = log.New(out, "INFO: ", flags)
	Warn = log.New(out, "WARN: ", flags)
	Error = log.New(out, "ERROR: ", flags)
	Debug = log.New(out, "DEBUG: ", flags)
	return nil
}

// SetLogLevel drops Debug output in production.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

func init() {
	if err := InitLogger(); err != nil {
		log.Fatalf("logger init: %v", err)
	}
}
