// Package monitoring owns process-wide diagnostic logging.
package monitoring

import (
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Logf is the package-level diagnostic logger. It defaults to a no-op zap
// logger until Init is called, and may be replaced by SetLogger. Tests or
// production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = zap.NewNop().Sugar().Infof

// Init builds the zap logger behind Logf. Debug selects the development
// encoder with debug level; otherwise production JSON output is used.
func Init(debug bool) error {
	var (
		z   *zap.Logger
		err error
	)
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	sugar = z.Sugar()
	Logf = sugar.Infof
	return nil
}

// Sugar returns the logger built by Init, or a no-op logger before Init.
func Sugar() *zap.SugaredLogger {
	if sugar == nil {
		return zap.NewNop().Sugar()
	}
	return sugar
}

// Sync flushes buffered log entries.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
