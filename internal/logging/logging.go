// Package logging builds the diagnostic logger used with --verbose.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w. Debug events are emitted only when
// verbose is set; otherwise only warnings and errors pass.
func New(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(newEncoder(), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}

// newEncoder creates the console encoder.
func newEncoder() zapcore.Encoder {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.CallerKey = ""
	return zapcore.NewConsoleEncoder(encoderCfg)
}
