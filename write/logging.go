package write

import (
	"log/slog"
	"time"
)

// LoggingWriter logs every operation of the wrapped writer at debug level.
type LoggingWriter struct {
	base   Writer
	logger *slog.Logger
}

func NewLoggingWriter(base Writer, logger *slog.Logger) *LoggingWriter {
	if base == nil {
		base = NewBaseWriter()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingWriter{base: base, logger: logger}
}

func (lw *LoggingWriter) MkdirAll(path string) error {
	err := lw.base.MkdirAll(path)
	if err != nil {
		lw.logger.Error("mkdir failed", "path", path, "error", err)
		return err
	}
	lw.logger.Debug("created directory", "path", path)
	return nil
}

func (lw *LoggingWriter) Write(path string, content []byte, options WriteOptions) error {
	start := time.Now()
	err := lw.base.Write(path, content, options)
	if err != nil {
		lw.logger.Error("write failed", "path", path, "error", err)
		return err
	}
	lw.logger.Debug("wrote file", "path", path, "bytes", len(content), "duration", time.Since(start))
	return nil
}
