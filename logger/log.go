package logger

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
)

const DebugEnv = "ORMACCESSOR_DEBUG"

var logger = zap.NewNop().Sugar()

// Init builds the global logger; debug output is enabled by the argument or by the ORMACCESSOR_DEBUG env.
func Init(debug bool) {
	if !debug {
		envDebug := os.Getenv(DebugEnv)
		if len(envDebug) > 0 && !(strings.ToLower(envDebug) == "disable" || strings.ToLower(envDebug) == "false") {
			debug = true
		}
	}

	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Encoding = "console"
		config.DisableStacktrace = true
	}
	l, err := config.Build()
	if err != nil {
		log.Fatal(err)
	}

	zap.ReplaceGlobals(l)
	logger = zap.S()
}

func Sync() {
	_ = logger.Sync()
}

func Debugw(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}

func Debugf(template string, args ...interface{}) {
	logger.Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	logger.Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	logger.Warnf(template, args...)
}
