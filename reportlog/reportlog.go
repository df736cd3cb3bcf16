// Package reportlog records report-generation runs in an append-only log
// file. The log is a side channel and never read back by the application.
package reportlog

import (
	"agenda/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Summary describes one report-generation run.
type Summary struct {
	// Period is the trend bucketing unit the run used.
	Period report.Period
	// Events is the number of events the report covered.
	Events int
	// Categories is the number of distinct categories.
	Categories int
	// Days is the number of distinct days with events.
	Days int
	// TrendBuckets is the number of non-empty trend buckets.
	TrendBuckets int
}

// Recorder appends report-run records to a rotated log file.
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder creates a Recorder writing to the given file. Rotation limits
// are in megabytes and days.
func NewRecorder(filename string, maxSizeMB int, keepDays int) *Recorder {
	encConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "msg",
		LevelKey:       "level",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename: filename,
			MaxSize:  maxSizeMB,
			MaxAge:   keepDays,
		}),
		zap.InfoLevel)
	return &Recorder{
		logger: zap.New(core),
	}
}

// Record appends one report-run entry and returns the generated run id.
func (r *Recorder) Record(summary Summary) string {
	runID := uuid.New().String()
	r.logger.Info("report generated",
		zap.String("run_id", runID),
		zap.String("period", string(summary.Period)),
		zap.Int("events", summary.Events),
		zap.Int("categories", summary.Categories),
		zap.Int("days", summary.Days),
		zap.Int("trend_buckets", summary.TrendBuckets))
	return runID
}

// Close flushes pending entries.
func (r *Recorder) Close() {
	_ = r.logger.Sync()
}
