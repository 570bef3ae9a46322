package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	APIKey   string
	Engine   Engine
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Engine holds the tunable constants of the recommendation and mastery core.
// They are configuration rather than literals so behaviour stays reproducible
// across deployments.
type Engine struct {
	// MasteryGainFactor is the fraction of the remaining gap to 1.0 gained on
	// a correct attempt; MasteryLossFactor is the fraction of the current
	// mastery lost on an incorrect attempt.
	MasteryGainFactor float64
	MasteryLossFactor float64

	// FlagErrorThreshold is the error-meter value at which a learner is
	// flagged for external intervention.
	FlagErrorThreshold int

	// ConflictRetries bounds how often a lost optimistic update is retried
	// with a fresh read before giving up.
	ConflictRetries int

	// DistractorCount is the number of incorrect options generated per
	// correct answer of a dynamic question.
	DistractorCount int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8087")
	viper.SetDefault("MASTERY_GAIN_FACTOR", 0.35)
	viper.SetDefault("MASTERY_LOSS_FACTOR", 0.30)
	viper.SetDefault("FLAG_ERROR_THRESHOLD", 3)
	viper.SetDefault("CONFLICT_RETRIES", 3)
	viper.SetDefault("DISTRACTOR_COUNT", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.APIKey = viper.GetString("RECOMMENDER_API_KEY")

	config.Engine.MasteryGainFactor = viper.GetFloat64("MASTERY_GAIN_FACTOR")
	config.Engine.MasteryLossFactor = viper.GetFloat64("MASTERY_LOSS_FACTOR")
	config.Engine.FlagErrorThreshold = viper.GetInt("FLAG_ERROR_THRESHOLD")
	config.Engine.ConflictRetries = viper.GetInt("CONFLICT_RETRIES")
	config.Engine.DistractorCount = viper.GetInt("DISTRACTOR_COUNT")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
