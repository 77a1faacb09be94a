package config

import (
	"fmt"
	"strings"
)

func MustNonEmpty(value, envName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "pq":
		if err := MustNonEmpty(c.DatabaseURL, "DATABASE_URL"); err != nil {
			return err
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}
	return nil
}
