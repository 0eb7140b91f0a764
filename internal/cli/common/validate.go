package common

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/lightgame/panel/internal/auth/users"
	"github.com/lightgame/panel/internal/shell"
)

func fileExists(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return nil
}

func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port %d out of range", port)
	}
	return nil
}

// ValidateBaseURL requires an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("empty url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) url", raw)
	}
	return nil
}

// ValidatePanelConfig checks a services/panel config file.
func ValidatePanelConfig(v *viper.Viper, strict bool) error {
	if err := ValidatePort(v.GetInt("port")); err != nil {
		return fmt.Errorf("Port: %w", err)
	}
	if base := v.GetString("gameapi.baseurl"); base != "" || strict {
		if err := ValidateBaseURL(base); err != nil {
			return fmt.Errorf("GameAPI.BaseURL: %w", err)
		}
	}
	if p := v.GetString("navigation.file"); p != "" {
		if _, err := shell.LoadNavigation(p); err != nil {
			return fmt.Errorf("Navigation.File: %w", err)
		}
	}
	if r := v.GetString("session.redisurl"); r != "" {
		if _, err := redis.ParseURL(r); err != nil {
			return fmt.Errorf("Session.RedisURL: %w", err)
		}
	}
	if p := v.GetString("audit.file"); p != "" {
		if err := fileExists(filepath.Dir(p)); err != nil && strict {
			return fmt.Errorf("Audit.File: %w", err)
		}
	}
	return nil
}

// ValidateGameAPIConfig checks a services/gameapi config file.
func ValidateGameAPIConfig(v *viper.Viper, strict bool) error {
	if err := ValidatePort(v.GetInt("port")); err != nil {
		return fmt.Errorf("Port: %w", err)
	}
	secret := v.GetString("auth.secret")
	if secret == "" {
		return errors.New("Auth.Secret missing")
	}
	if strict && len(secret) < 16 {
		return errors.New("Auth.Secret must be at least 16 characters")
	}
	if dsn := v.GetString("database.datasource"); strings.HasPrefix(dsn, "postgres") {
		if _, err := url.Parse(dsn); err != nil {
			return fmt.Errorf("Database.DataSource: %w", err)
		}
	}
	if p := v.GetString("seed.users"); p != "" {
		if _, err := users.Load(p); err != nil {
			return fmt.Errorf("Seed.Users: %w", err)
		}
	} else if strict {
		return errors.New("Seed.Users missing")
	}
	return nil
}
