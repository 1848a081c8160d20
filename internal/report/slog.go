package report

import "log/slog"

// LogSink reports to a structured logger. Failed assertions log at
// error level so they stand out in interactive runs; everything else is
// informational.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink writing to logger. A nil logger uses the
// process default.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Assert implements Sink.
func (s *LogSink) Assert(condition bool, description string) {
	if condition {
		s.logger.Debug("assert passed", "description", description)
		return
	}
	s.logger.Error("assert failed", "description", description)
}

// Assume implements Sink.
func (s *LogSink) Assume(condition bool, description string) {
	if condition {
		s.logger.Debug("assume satisfied", "description", description)
		return
	}
	s.logger.Warn("assume violated", "description", description)
}

// Checkpoint implements Sink.
func (s *LogSink) Checkpoint(description string) {
	s.logger.Info("checkpoint", "description", description)
}

// Comment implements Sink.
func (s *LogSink) Comment(description string) {
	s.logger.Info("comment", "description", description)
}

// BeginTest implements Sink.
func (s *LogSink) BeginTest(name string) {
	s.logger.Info("test started", "name", name)
}

// EndTest implements Sink.
func (s *LogSink) EndTest() {
	s.logger.Info("test finished")
}
