package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    string `mapstructure:"http_port"`
	DatabaseDSN string `mapstructure:"database_dsn"`
	JWTSecret   string `mapstructure:"jwt_secret"`
	CORSOrigins string `mapstructure:"cors_origins"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error
		Format string `mapstructure:"format"` // text|json
	} `mapstructure:"logging"`
}

// Load env/dosyadan konfigürasyonu okur. Env değişkenleri dosyayı ezer
// (HTTP_PORT, DATABASE_DSN, JWT_SECRET, CORS_ORIGINS, LOGGING_LEVEL...).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_port", "8080")
	v.SetDefault("database_dsn", "host=localhost user=postgres password=postgres dbname=itops port=5432 sslmode=disable")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/itops")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config okunamadı: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config çözümlenemedi: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func validate(c *Config) error {
	// Production güvenlik kontrolleri
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET tanımlanmamış, production için zorunludur")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET en az 32 karakter olmalıdır")
	}
	return nil
}
