package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	ReloadChannel string `env:"RELOAD_CHANNEL" envDefault:"model:reload"`

	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"place-trainer"`

	// El disparo automático usa 1, las estadísticas 10.
	RetrainThreshold      int           `env:"RETRAIN_THRESHOLD" envDefault:"1"`
	StatsRetrainThreshold int           `env:"STATS_RETRAIN_THRESHOLD" envDefault:"10"`
	TrainingDelay         time.Duration `env:"TRAINING_DELAY" envDefault:"2s"`
	RetrainLeaseEnabled   bool          `env:"RETRAIN_LEASE_ENABLED" envDefault:"false"`
	RetrainLeaseTTL       time.Duration `env:"RETRAIN_LEASE_TTL" envDefault:"2m"`

	AutoVerifyCron     string `env:"AUTO_VERIFY_CRON" envDefault:"0 2 * * *"`
	AutoVerifyTimezone string `env:"AUTO_VERIFY_TIMEZONE" envDefault:"Asia/Colombo"`
	AutoVerifyLimit    int    `env:"AUTO_VERIFY_LIMIT" envDefault:"5"`

	ModelDownloadURL string `env:"MODEL_DOWNLOAD_URL" envDefault:"https://your-storage-bucket.googleapis.com/ml_models/travel_model.tflite"`
	ModelSizeBytes   int64  `env:"MODEL_SIZE_BYTES" envDefault:"1048576"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
