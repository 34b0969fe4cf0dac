package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{InternalPort: "8080", ExternalPort: "8080", Domain: "localhost"},
		Postgres: PostgresConfig{Host: "localhost", Port: "5432", DbName: "anjali_connect"},
		Redis:    RedisConfig{Host: "localhost", Port: "6379"},
		Mail:     MailConfig{Host: "localhost", FromAddress: "noreply@anjaliconnect.org"},
		Reminder: ReminderConfig{Schedule: "0 9 5 * *"},
		Auth:     AuthConfig{JWTSecret: "secret"},
	}
}

func TestLoadDevelopmentConfig(t *testing.T) {
	t.Parallel()

	v, err := LoadConfig(getConfigPath(""), "yml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg, err := ParseConfig(v)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.Postgres.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("conn max lifetime = %v", cfg.Postgres.ConnMaxLifetime)
	}
	if cfg.Mail.Timeout != 15*time.Second {
		t.Errorf("mail timeout = %v", cfg.Mail.Timeout)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Errorf("run mode %q", cfg.Server.RunMode)
	}
	if got := cfg.GetServerAddress(); got != ":8080" {
		t.Errorf("server address = %q", got)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":           "config-development",
		"docker":     "config-docker",
		"production": "config-production",
		"staging":    "config-development",
	}
	for env, want := range tests {
		if got := getConfigPath(env); got != want {
			t.Errorf("getConfigPath(%q) = %q, want %q", env, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Server.InternalPort = "" }, true},
		{"missing database", func(c *Config) { c.Postgres.DbName = "" }, true},
		{"missing sender", func(c *Config) { c.Mail.FromAddress = "" }, true},
		{"missing schedule", func(c *Config) { c.Reminder.Schedule = "" }, true},
		{"unknown zone", func(c *Config) { c.Reminder.TimeZone = "Mars/Olympus" }, true},
		{"negative concurrency", func(c *Config) { c.Reminder.Concurrency = -1 }, true},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"no webhook secret", func(c *Config) { c.Auth.WebhookSecret = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReminderDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	loc, err := cfg.ReminderLocation()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != "Asia/Kolkata" {
		t.Errorf("default zone = %s", loc)
	}
	if got := cfg.ReminderConcurrency(); got != defaultReminderConcurrency {
		t.Errorf("default concurrency = %d", got)
	}

	cfg.Reminder.TimeZone = "UTC"
	cfg.Reminder.Concurrency = 3
	if loc, _ := cfg.ReminderLocation(); loc.String() != "UTC" {
		t.Errorf("zone = %s", loc)
	}
	if got := cfg.ReminderConcurrency(); got != 3 {
		t.Errorf("concurrency = %d", got)
	}
}

func TestReminderPaymentURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		frontEnd string
		payment  string
		want     string
	}{
		{"explicit", "https://anjaliconnect.org", "https://pay.anjaliconnect.org", "https://pay.anjaliconnect.org"},
		{"from front end", "https://anjaliconnect.org/", "", "https://anjaliconnect.org/payments"},
		{"unset", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Server.FrontEndURL = tt.frontEnd
			cfg.Reminder.PaymentURL = tt.payment
			if got := cfg.ReminderPaymentURL(); got != tt.want {
				t.Fatalf("ReminderPaymentURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
