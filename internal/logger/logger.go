// Package logger is the process-wide structured log. Records go to a
// size-rotated file under the config directory so the TUI's screen stays
// clean; --debug also copies them to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/daycount/internal/constants"
)

const (
	maxLogMB      = 10
	maxLogFiles   = 3
	maxLogAgeDays = 28
)

// Logger is nil until Init runs; the helpers below drop records until then.
var Logger *log.Logger

var rotator *lumberjack.Logger

type Config struct {
	Debug     bool
	ConfigDir string
}

// LogFile returns the path of the rotating log file under configDir.
func LogFile(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init points Logger at LogFile(cfg.ConfigDir). Calling it again closes the
// previous file.
func Init(cfg Config) error {
	path := LogFile(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := Close(); err != nil {
		return err
	}

	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogMB,
		MaxBackups: maxLogFiles,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	out := io.Writer(rotator)
	level := log.InfoLevel
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, rotator)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		Prefix:          constants.AppName,
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// Close flushes and closes the log file. Logging after Close is dropped.
func Close() error {
	Logger = nil
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

func emit(level log.Level, msg string, keyvals []interface{}) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...interface{})  { emit(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...interface{})  { emit(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }
