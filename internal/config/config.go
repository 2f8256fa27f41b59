package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	FSRS     FSRSConfig     `mapstructure:"fsrs" validate:"required"`
	Revlog   RevlogConfig   `mapstructure:"revlog" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the postgres review log. An empty URL means the
// local sqlite review log is used instead.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// ScheduleConfig contains the review times and queue behavior.
type ScheduleConfig struct {
	MorningReviewTime        string `mapstructure:"morning_review_time" validate:"required"`
	EveningReviewTime        string `mapstructure:"evening_review_time" validate:"required"`
	EnqueueNonRepeatingNotes bool   `mapstructure:"enqueue_non_repeating_notes"`
	DefaultRepeat            string `mapstructure:"default_repeat" validate:"required"`
}

// FSRSConfig overrides the memory model parameters. Zero values keep the
// model defaults.
type FSRSConfig struct {
	RequestRetention float64   `mapstructure:"request_retention" validate:"gt=0,lt=1"`
	MaximumInterval  int       `mapstructure:"maximum_interval" validate:"gt=0"`
	Weights          []float64 `mapstructure:"weights" validate:"omitempty,len=19"`
}

// RevlogConfig locates the local sqlite review log.
type RevlogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}
