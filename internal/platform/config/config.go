// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"os"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

type AppConfig struct {
	ServiceName string
	Env         string
	LogLevel    string
	HTTP        HTTPConfig

	DatabaseURL string
	NATSURL     string
	JWTSecret   string

	// TrustedGroups lists the group memberships whose comments
	// are published without moderation.
	TrustedGroups []string
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		Env:         strings.TrimSpace(os.Getenv("APP_ENV")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		NATSURL:       strings.TrimSpace(os.Getenv("NATS_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TrustedGroups: splitList(os.Getenv("TRUSTED_GROUPS")),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "discussion"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.TrustedGroups) == 0 {
		cfg.TrustedGroups = []string{"trusted", "moderator", "admin"}
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return AppConfig{}, errors.New("JWT_SECRET is required in production")
	}
	return cfg, nil
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
