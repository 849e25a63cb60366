package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("config", fx.Provide(LoadConfig))

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	BaseURL    string `mapstructure:"BASE_URL"`

	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`

	Database struct {
		Type           string `mapstructure:"TYPE"`
		Host           string `mapstructure:"HOST"`
		Port           string `mapstructure:"PORT"`
		DBName         string `mapstructure:"DBNAME"`
		User           string `mapstructure:"USER"`
		Password       string `mapstructure:"PASSWORD"`
		SSLMode        string `mapstructure:"SSLMODE"`
		Timezone       string `mapstructure:"TIMEZONE"`
		ConnectionPool struct {
			MaxIdleConn     int           `mapstructure:"MAX_IDLE_CONN"`
			MaxOpenConn     int           `mapstructure:"MAX_OPEN_CONN"`
			ConnMaxLifetime time.Duration `mapstructure:"CONN_MAX_LIFETIME"`
			ConnMaxIdleTime time.Duration `mapstructure:"CONN_MAX_IDLE_TIME"`
		} `mapstructure:"CONNECTION_POOL"`
	} `mapstructure:"DATABASE"`

	Redis struct {
		Addr        string        `mapstructure:"ADDR"`
		Password    string        `mapstructure:"PASSWORD"`
		DB          int           `mapstructure:"DB"`
		PoolSize    int           `mapstructure:"POOL_SIZE"`
		PoolTimeout time.Duration `mapstructure:"POOL_TIMEOUT"`
	} `mapstructure:"REDIS"`

	JWT struct {
		Secret string        `mapstructure:"SECRET"`
		TTL    time.Duration `mapstructure:"TTL"`
	} `mapstructure:"JWT"`

	SMTP struct {
		Host     string `mapstructure:"HOST"`
		Port     int    `mapstructure:"PORT"`
		Username string `mapstructure:"USERNAME"`
		Password string `mapstructure:"PASSWORD"`
		From     string `mapstructure:"FROM"`
	} `mapstructure:"SMTP"`

	Storage struct {
		Endpoint   string `mapstructure:"ENDPOINT"`
		AccessKey  string `mapstructure:"ACCESS_KEY"`
		SecretKey  string `mapstructure:"SECRET_KEY"`
		Secure     bool   `mapstructure:"SECURE"`
		BucketName string `mapstructure:"BUCKET_NAME"`
	} `mapstructure:"STORAGE"`

	RateLimit struct {
		Requests int           `mapstructure:"REQUESTS"`
		Window   time.Duration `mapstructure:"WINDOW"`
	} `mapstructure:"RATE_LIMIT"`

	Quote struct {
		TaxRate float64 `mapstructure:"TAX_RATE"`
	} `mapstructure:"QUOTE"`

	// Loyalty tiers and checklist required fields live here so there is
	// exactly one source of truth; call sites never carry their own copies.
	Loyalty   LoyaltyConfig   `mapstructure:"LOYALTY"`
	Checklist ChecklistConfig `mapstructure:"CHECKLIST"`
}

type LoyaltyConfig struct {
	SilverThreshold   int64 `mapstructure:"SILVER_THRESHOLD"`
	GoldThreshold     int64 `mapstructure:"GOLD_THRESHOLD"`
	PlatinumThreshold int64 `mapstructure:"PLATINUM_THRESHOLD"`
}

type ChecklistConfig struct {
	// RequiredFields maps checklist category -> fields that must all be
	// filled before the category counts as complete.
	RequiredFields map[string][]string `mapstructure:"REQUIRED_FIELDS"`
}

func (c LoyaltyConfig) withDefaults() LoyaltyConfig {
	if c.SilverThreshold <= 0 {
		c.SilverThreshold = 100
	}
	if c.GoldThreshold <= c.SilverThreshold {
		c.GoldThreshold = 500
	}
	if c.PlatinumThreshold <= c.GoldThreshold {
		c.PlatinumThreshold = 1000
	}
	return c
}

func (c ChecklistConfig) withDefaults() ChecklistConfig {
	if len(c.RequiredFields) == 0 {
		c.RequiredFields = map[string][]string{
			"lugar":      {"direccion", "capacidad_confirmada", "contrato_firmado"},
			"catering":   {"menu_definido", "proveedor", "degustacion_realizada"},
			"personal":   {"meseros_asignados", "chef_asignado", "coordinador"},
			"logistica":  {"mobiliario", "sonido", "transporte_confirmado"},
			"decoracion": {"tematica", "flores", "montaje_aprobado"},
		}
	}
	return c
}

func (c *Config) EmailConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}

func (c *Config) StorageConfigured() bool {
	return c.Storage.Endpoint != "" && c.Storage.BucketName != ""
}

func LoadConfig() *Config {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional, environment variables alone are enough.
		zap.L().Warn("no config file found, relying on environment", zap.Error(err))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		zap.L().Fatal("failed to unmarshal config", zap.Error(err))
	}

	applyDefaults(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.AppName == "" {
		cfg.AppName = "banquet-backoffice"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 60
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.Quote.TaxRate <= 0 {
		cfg.Quote.TaxRate = 0.16
	}
	cfg.Loyalty = cfg.Loyalty.withDefaults()
	cfg.Checklist = cfg.Checklist.withDefaults()
}

// NewTest returns a config suitable for unit tests: defaults only, no
// external services configured.
func NewTest() *Config {
	cfg := &Config{AppEnv: "test"}
	applyDefaults(cfg)
	return cfg
}
