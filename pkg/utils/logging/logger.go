package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDir is where draw logs are kept, relative to the working directory
const DefaultDir = "logs"

// Options configures the two logger outputs
type Options struct {
	// Env prefixes the log file name
	Env string

	// Dir receives one JSON log file per run
	Dir string

	// Console receives human readable output at ConsoleLevel
	Console      io.Writer
	ConsoleLevel zapcore.Level
}

// InitLogger writes Info and above to stdout and everything to a JSON file under logs/.
// Each draw gets its own file so a run can be audited together with its seed.
func InitLogger(env string) (*zap.Logger, error) {
	logger, _, err := New(Options{
		Env:          env,
		Dir:          DefaultDir,
		Console:      os.Stdout,
		ConsoleLevel: zapcore.InfoLevel,
	})
	return logger, err
}

// New builds a logger from opts and returns it with the path of its log file
func New(opts Options) (*zap.Logger, string, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(opts.Dir, fmt.Sprintf("%s_draw_%s.log", opts.Env, timestamp))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}

	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleConfig.CallerKey = zapcore.OmitKey

	fileConfig := zap.NewProductionEncoderConfig()
	fileConfig.TimeKey = "timestamp"
	fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	console := opts.Console
	if console == nil {
		console = io.Discard
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(console), opts.ConsoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("env", opts.Env))

	return logger, logPath, nil
}
