package logsvc

import (
	"log"
	"os"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// ConsoleLogger writes to a std logger only. Debug output needs debug enabled.
type ConsoleLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger, debug bool) *ConsoleLogger {
	return &ConsoleLogger{std: std, debug: debug}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		printArgs(l.std, "DEBUG", msg, args)
	}
}

func (l ConsoleLogger) Info(msg string, args ...interface{}) {
	printArgs(l.std, "INFO", msg, args)
}

func (l ConsoleLogger) Warn(msg string, args ...interface{}) {
	printArgs(l.std, "WARN", msg, args)
}

func (l ConsoleLogger) Error(msg string, args ...interface{}) {
	printArgs(l.std, "ERROR", msg, args)
}

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	printArgs(l.std, "FATAL", msg, args)
	l.std.Fatal(msg)
}

// New picks rollbar when a token is configured and the console otherwise.
func New(prefix string, conf *core.Config) core.Logger {
	std := log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.RollbarToken != "" && !conf.TestMode {
		return NewRollbarLogger(std, conf)
	}
	return NewConsoleLogger(std, conf.Debug)
}

func printArgs(std *log.Logger, level, msg string, args []interface{}) {
	std.Printf("%s %s", level, msg)
	for _, arg := range args {
		if _, ok := arg.(Person); ok {
			continue
		}
		std.Printf("  %+v", arg)
	}
}
