package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SetupLogging настраивает глобальный logrus по конфигу
func SetupLogging(cfg *Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	log.SetLevel(level)

	switch cfg.LogFormat {
	case "json", "":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.LogFormat)
	}
	return nil
}
