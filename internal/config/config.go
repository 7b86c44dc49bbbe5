package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr         string
		StaticDir    string
		AllowOrigins []string
	}
	Session struct {
		Secret        string
		TTL           time.Duration
		SweepInterval time.Duration
		CookieName    string
		SecureCookie  bool
	}
	Auth struct {
		BcryptCost    int
		AdminPassword string
		HRPassword    string
	}
	Jobs struct {
		Seed bool
	}
	Upload struct {
		Dir          string
		MaxBytes     int64
		CleanupDelay time.Duration
	}
	Notify struct {
		Driver string
		From   string
		To     string
		Gmail  struct {
			CredentialsFile string
			TokenFile       string
		}
	}
	Redis struct {
		Addr     string
		Password string
	}
	RateLimit struct {
		Capacity       int
		RefillInterval time.Duration
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// Variables already present in the environment win over .env.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TALENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:3000")
	v.SetDefault("server.staticdir", "public")
	v.SetDefault("server.alloworigins", []string{})
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.sweepinterval", "10m")
	v.SetDefault("session.cookiename", "talent_session")
	v.SetDefault("session.securecookie", false)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.adminpassword", "admin123")
	v.SetDefault("auth.hrpassword", "hr123")
	v.SetDefault("jobs.seed", true)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.maxbytes", 5<<20)
	v.SetDefault("upload.cleanupdelay", "1m")
	v.SetDefault("notify.driver", "log")
	v.SetDefault("notify.from", "noreply@ittalentsolution.com")
	v.SetDefault("notify.to", "hr.ittalentsolution@gmail.com")
	v.SetDefault("notify.gmail.credentialsfile", "credentials.json")
	v.SetDefault("notify.gmail.tokenfile", "token.json")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("ratelimit.capacity", 10)
	v.SetDefault("ratelimit.refillinterval", "6s")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Session.Secret) == "" {
		errs = append(errs, errors.New("session.secret is required (TALENT_SESSION_SECRET)"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.maxbytes must be positive"))
	}
	switch c.Notify.Driver {
	case "log", "gmail":
	default:
		errs = append(errs, fmt.Errorf("notify.driver %q is not one of log, gmail", c.Notify.Driver))
	}
	return errors.Join(errs...)
}
