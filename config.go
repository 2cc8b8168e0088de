package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Pass != ""
}

type Config struct {
	Port       string
	DBPath     string
	AdminToken string
	HashSalt   string
	Profile    Profile
	SMTP       SMTPConfig
}

// loadConfig reads the environment (.env is autoloaded in main) and the
// optional PROFILE_FILE. Profile env vars win over the file.
func loadConfig() (*Config, error) {
	cfg := &Config{
		Port:       getenv("PORT", "8080"),
		DBPath:     getenv("DB_PATH", "portfolio.db"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		HashSalt:   os.Getenv("HASH_SALT"),
		SMTP: SMTPConfig{
			Host: getenv("SMTP_HOST", "smtp.gmail.com"),
			Port: getenv("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			To:   os.Getenv("TO_EMAIL"),
		},
	}

	if path := os.Getenv("PROFILE_FILE"); path != "" {
		p, err := loadProfileFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Profile = p
	}

	cfg.Profile.Name = getenv("PROFILE_NAME", cfg.Profile.Name)
	cfg.Profile.Email = getenv("PROFILE_EMAIL", cfg.Profile.Email)
	cfg.Profile.Location = getenv("PROFILE_LOCATION", cfg.Profile.Location)

	// Messages go to the showcased person unless TO_EMAIL says otherwise.
	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.Profile.Email
	}

	return cfg, nil
}

func loadProfileFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile file %s: %w", path, err)
	}
	return p, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
