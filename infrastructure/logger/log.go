package applog

import (
	"go.uber.org/zap"
)

var GLog struct {
	ZapLogger *zap.Logger
	Logger    *zap.SugaredLogger
}

func InitZap() (zapLogger *zap.Logger) {
	conf := zap.NewProductionConfig()
	conf.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	conf.DisableCaller = true
	conf.DisableStacktrace = true
	zapLogger, e := conf.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if e != nil {
		panic(e)
	}
	return
}

func init() {
	GLog.ZapLogger = InitZap()
	GLog.Logger = GLog.ZapLogger.Sugar()
}

func Err(format string, args ...interface{}) {
	GLog.Logger.Errorf(format, args...)
}

func Warn(format string, args ...interface{}) {
	GLog.Logger.Warnf(format, args...)
}

func Info(format string, args ...interface{}) {
	GLog.Logger.Infof(format, args...)
}

// Audit logs business-level events which must always be traceable.
func Audit(format string, args ...interface{}) {
	GLog.Logger.Infof(format, args...)
}

func Debug(format string, args ...interface{}) {
	GLog.Logger.Debugf(format, args...)
}
