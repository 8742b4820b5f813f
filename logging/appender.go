package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap/zapcore"
)

// Appender is an output for log entries. It is a subset of the `zapcore.Core` interface, so
// observers and tees can be attached directly.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs should be flushed.
	Sync() error
}

// ConsoleAppender writes human readable log lines to an io.Writer.
type ConsoleAppender struct {
	mu      sync.Mutex
	encoder zapcore.Encoder
	out     io.Writer
}

// NewStdoutAppender creates a new appender that outputs to stdout.
func NewStdoutAppender() *ConsoleAppender {
	return NewWriterAppender(os.Stdout)
}

// NewWriterAppender creates a new appender that outputs to the input writer.
func NewWriterAppender(writer io.Writer) *ConsoleAppender {
	return &ConsoleAppender{encoder: zapcore.NewConsoleEncoder(NewEncoderConfig()), out: writer}
}

// Write outputs the log entry to the underlying stream.
func (appender *ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := appender.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	appender.mu.Lock()
	defer appender.mu.Unlock()
	_, err = appender.out.Write(buf.Bytes())
	return err
}

// Sync flushes the underlying writer when it supports it.
func (appender *ConsoleAppender) Sync() error {
	if syncer, ok := appender.out.(interface{ Sync() error }); ok {
		//nolint:errcheck
		syncer.Sync()
	}
	return nil
}

func callerToString(caller *zapcore.EntryCaller) string {
	return caller.TrimmedPath()
}
