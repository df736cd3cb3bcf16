package app

import (
	"os"

	"agenda/errors"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// StorageBackend selects the persistence collaborator.
type StorageBackend string

const (
	// StorageJSON persists the schedule as a single JSON file.
	StorageJSON StorageBackend = "json"
	// StorageSQLite persists the schedule in an embedded SQLite database.
	StorageSQLite StorageBackend = "sqlite"
)

// LogConfig is the configuration for application logging.
type LogConfig struct {
	// ConsoleLevel is the minimum level logged to the console. Defaults to
	// warn so command output stays readable.
	ConsoleLevel string `yaml:"console_level"`
	// DebugOutput is an optional file that receives all log output. Empty
	// disables the file log.
	DebugOutput string `yaml:"debug_output"`
	// MaxSize is the maximum log file size in megabytes before rotation.
	MaxSize int `yaml:"max_size"`
	// KeepDays is how many days rotated log files are kept.
	KeepDays int `yaml:"keep_days"`
}

// Config is the configuration needed in order to run the App.
type Config struct {
	// Storage selects the persistence backend.
	Storage StorageBackend `yaml:"storage"`
	// ScheduleFile is the schedule location for the JSON backend.
	ScheduleFile string `yaml:"schedule_file"`
	// DatabaseFile is the database location for the SQLite backend.
	DatabaseFile string `yaml:"database_file"`
	// ReportLog is the append-only log recording report-generation runs.
	ReportLog string `yaml:"report_log"`
	// Log is the logging configuration.
	Log LogConfig `yaml:"log"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Storage:      StorageJSON,
		ScheduleFile: "events.json",
		DatabaseFile: "agenda.db",
		ReportLog:    "report_log.log",
		Log: LogConfig{
			ConsoleLevel: "warn",
			MaxSize:      10,
			KeepDays:     30,
		},
	}
}

// Normalize fills missing values with defaults so partially filled config
// files still behave correctly.
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if c.Storage == "" {
		c.Storage = defaults.Storage
	}
	if c.ScheduleFile == "" {
		c.ScheduleFile = defaults.ScheduleFile
	}
	if c.DatabaseFile == "" {
		c.DatabaseFile = defaults.DatabaseFile
	}
	if c.ReportLog == "" {
		c.ReportLog = defaults.ReportLog
	}
	if c.Log.ConsoleLevel == "" {
		c.Log.ConsoleLevel = defaults.Log.ConsoleLevel
	}
	if c.Log.MaxSize <= 0 {
		c.Log.MaxSize = defaults.Log.MaxSize
	}
	if c.Log.KeepDays <= 0 {
		c.Log.KeepDays = defaults.Log.KeepDays
	}
}

// LoadConfig reads the config file at the given path. A missing file yields
// the default config. The result is normalized and validated.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, errors.NewIOError(err, "read config file", path)
		}
	} else if err := yaml.Unmarshal(raw, &config); err != nil {
		return Config{}, errors.NewInternalErrorFromErr(err, "unmarshal config file",
			errors.Details{"path": path})
	}
	config.Normalize()
	if err := ValidateConfig(config); err != nil {
		return Config{}, errors.Wrap(err, "validate config", nil)
	}
	return config, nil
}

// ValidateConfig assures that the given config can be used to run the App.
func ValidateConfig(config Config) error {
	switch config.Storage {
	case StorageJSON, StorageSQLite:
	default:
		return errors.NewInvalidInputError("unknown storage backend",
			errors.Details{"storage": string(config.Storage)})
	}
	if _, err := zapcore.ParseLevel(config.Log.ConsoleLevel); err != nil {
		return errors.NewInvalidInputError("unknown console log level",
			errors.Details{"console_level": config.Log.ConsoleLevel})
	}
	return nil
}
