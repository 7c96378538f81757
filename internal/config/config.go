// Package config loads server settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is the full server configuration.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	ContentFile   string        `env:"CONTENT_FILE"`
	StaticDir     string        `env:"STATIC_DIR" envDefault:"./static"`
	DBPath        string        `env:"DB_PATH" envDefault:"folio.db"`
	ViewTTL       time.Duration `env:"VIEW_TTL" envDefault:"30m"`
	MaxViews      int           `env:"MAX_VIEWS" envDefault:"1000"`
	FrameInterval time.Duration `env:"FRAME_INTERVAL" envDefault:"16ms"`
	// VisitorRetention bounds how long page-view records are kept.
	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
	Debug            bool          `env:"DEBUG"`
	// ContactTo is where contact mail is delivered. See MailRecipient.
	ContactTo string `env:"TO_EMAIL"`

	SMTP  SMTP  `envPrefix:"SMTP_"`
	Admin Admin `envPrefix:"ADMIN_"`
}

type SMTP struct {
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port string `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
}

type Admin struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Password string `env:"PASSWORD" envDefault:"admin123"`
}

// Load parses the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// UsingDefaultAdmin reports whether the admin credentials were left at
// their development defaults.
func (c *Config) UsingDefaultAdmin() bool {
	return c.Admin.Username == "admin" && c.Admin.Password == "admin123"
}

// MailRecipient is ContactTo, or the SMTP account itself when TO_EMAIL is
// unset.
func (c *Config) MailRecipient() string {
	if c.ContactTo != "" {
		return c.ContactTo
	}
	return c.SMTP.User
}
