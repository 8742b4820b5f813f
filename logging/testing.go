package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

type testAppender struct {
	tb      testing.TB
	encoder zapcore.Encoder
}

// NewTestAppender returns an appender that logs through tb.Log, so each line is attributed to the
// test that produced it. Lines use the console layout without colors.
func NewTestAppender(tb testing.TB) Appender {
	cfg := NewEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return &testAppender{tb: tb, encoder: zapcore.NewConsoleEncoder(cfg)}
}

func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	buf, err := tapp.encoder.EncodeEntry(entry, fields)
	if err != nil {
		tapp.tb.Log(entry.Message)
		return err
	}
	defer buf.Free()
	tapp.tb.Log(strings.TrimRight(buf.String(), "\n"))
	return nil
}

// Sync is a no-op.
func (tapp *testAppender) Sync() error {
	return nil
}
