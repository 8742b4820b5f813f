package logging

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level AtomicLevel
	inUTC bool
	// fields are attached to every entry, ahead of the per call fields.
	fields []zapcore.Field

	appenders []Appender
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = imp.name + "." + subname
	}
	return &impl{
		name:      newName,
		level:     NewAtomicLevelAt(imp.level.Get()),
		inUTC:     imp.inUTC,
		fields:    imp.fields,
		appenders: imp.appenders,
	}
}

func (imp *impl) WithFields(keysAndValues ...interface{}) Logger {
	fields := make([]zapcore.Field, 0, len(imp.fields)+len(keysAndValues)/2)
	fields = append(fields, imp.fields...)
	return &impl{
		name:      imp.name,
		level:     imp.level,
		inUTC:     imp.inUTC,
		fields:    append(fields, toFields(keysAndValues)...),
		appenders: imp.appenders,
	}
}

func (imp *impl) Sync() error {
	var errs error
	for _, appender := range imp.appenders {
		errs = multierr.Combine(errs, appender.Sync())
	}
	return errs
}

func (imp *impl) enabled(level Level) bool {
	return level >= imp.level.Get()
}

// write hands one entry to every appender. It must be called directly from the exported logging
// method so the caller lookup lands on the user's code.
func (imp *impl) write(level Level, msg string, keysAndValues []interface{}) {
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
		Caller:     getCaller(),
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	fields := imp.fields
	if len(keysAndValues) > 0 {
		fields = append(append(make([]zapcore.Field, 0, len(imp.fields)+len(keysAndValues)/2), imp.fields...),
			toFields(keysAndValues)...)
	}
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprint(os.Stderr, err)
		}
	}
}

// toFields pairs up keys and values. A trailing key without a value gets an error as its value
// rather than being dropped.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		var key string
		if stringer, ok := keysAndValues[i].(fmt.Stringer); ok {
			key = stringer.String()
		} else {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
		}
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) {
	if imp.enabled(DEBUG) {
		imp.write(DEBUG, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	if imp.enabled(DEBUG) {
		imp.write(DEBUG, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	if imp.enabled(DEBUG) {
		imp.write(DEBUG, msg, keysAndValues)
	}
}

func (imp *impl) Info(args ...interface{}) {
	if imp.enabled(INFO) {
		imp.write(INFO, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) Infof(template string, args ...interface{}) {
	if imp.enabled(INFO) {
		imp.write(INFO, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	if imp.enabled(INFO) {
		imp.write(INFO, msg, keysAndValues)
	}
}

func (imp *impl) Warn(args ...interface{}) {
	if imp.enabled(WARN) {
		imp.write(WARN, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	if imp.enabled(WARN) {
		imp.write(WARN, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	if imp.enabled(WARN) {
		imp.write(WARN, msg, keysAndValues)
	}
}

func (imp *impl) Error(args ...interface{}) {
	if imp.enabled(ERROR) {
		imp.write(ERROR, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	if imp.enabled(ERROR) {
		imp.write(ERROR, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	if imp.enabled(ERROR) {
		imp.write(ERROR, msg, keysAndValues)
	}
}

// These Fatal* methods log as errors then exit the process.
func (imp *impl) Fatal(args ...interface{}) {
	imp.write(ERROR, fmt.Sprint(args...), nil)
	os.Exit(1)
}

func (imp *impl) Fatalf(template string, args ...interface{}) {
	imp.write(ERROR, fmt.Sprintf(template, args...), nil)
	os.Exit(1)
}

// getCaller skips itself, write and the exported logging method.
func getCaller() zapcore.EntryCaller {
	const skipToLogCaller = 3
	var entryCaller zapcore.EntryCaller
	var ok bool
	entryCaller.PC, entryCaller.File, entryCaller.Line, ok = runtime.Caller(skipToLogCaller)
	if !ok {
		return entryCaller
	}
	entryCaller.Defined = true
	if fn := runtime.FuncForPC(entryCaller.PC); fn != nil {
		entryCaller.Function = fn.Name()
	}
	return entryCaller
}
