package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"` // seconds
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string `mapstructure:"url" validate:"required"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"gte=0"` // minutes
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret              string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes   int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshLifetimeMinutes int    `mapstructure:"refresh_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost             int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// EngineConfig carries operator overrides for the scoring engine parameters.
// Zero values mean "use the built-in default"; only tuned deployments set
// these, so none of them are required.
type EngineConfig struct {
	RecoveryHalfLifeHours   float64 `mapstructure:"recovery_half_life_hours" validate:"gte=0"`
	RecoveryGainCoeff       float64 `mapstructure:"recovery_gain_coeff" validate:"gte=0"`
	SharpnessFastWeight     float64 `mapstructure:"sharpness_fast_weight" validate:"gte=0,lte=1"`
	SharpnessFloor          float64 `mapstructure:"sharpness_floor" validate:"gte=0,lte=1"`
	InactivityThresholdDays int     `mapstructure:"inactivity_threshold_days" validate:"gte=0"`
	DebounceWindowSeconds   int     `mapstructure:"debounce_window_seconds" validate:"gte=0"`

	PenaltyTriggerDays   int     `mapstructure:"penalty_trigger_days" validate:"gte=0"`
	PenaltyInitialPoints float64 `mapstructure:"penalty_initial_points" validate:"gte=0"`
	PenaltyPointsPerDay  float64 `mapstructure:"penalty_points_per_day" validate:"gte=0"`
	PenaltyCapPoints     float64 `mapstructure:"penalty_cap_points" validate:"gte=0"`

	RQSkillWeight     float64 `mapstructure:"rq_skill_weight" validate:"gte=0,lte=1"`
	RQRecentWeight    float64 `mapstructure:"rq_recent_weight" validate:"gte=0,lte=1"`
	RQTaskWeight      float64 `mapstructure:"rq_task_weight" validate:"gte=0,lte=1"`
	RQRecencyDiscount float64 `mapstructure:"rq_recency_discount" validate:"gte=0,lte=1"`
}
