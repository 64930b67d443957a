package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for config, env and query files
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Dialect     string
	DatabaseURL string
	Debug       bool
	CacheSize   int
}

// Load reads configuration from .env files, the environment and an
// optional .cotton.yaml. An explicit configFile must exist.
func Load(configFile string) (*Config, error) {
	// .env.local wins over .env, and neither overrides the real environment
	// except .env.local over .env.
	if err := loadEnvFile(".env", false); err != nil {
		return nil, err
	}
	if err := loadEnvFile(".env.local", true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("COTTON")
	v.AutomaticEnv()

	v.SetDefault("dialect", "")
	v.SetDefault("debug", false)
	v.SetDefault("cache_size", 128)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".cotton")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "cotton"))
		}

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	databaseURL := v.GetString("database_url")
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Dialect:     v.GetString("dialect"),
		DatabaseURL: databaseURL,
		Debug:       v.GetBool("debug"),
		CacheSize:   v.GetInt("cache_size"),
	}, nil
}

// loadEnvFile sets variables from an env file on AppFs. Without override,
// variables already present in the environment are kept.
func loadEnvFile(name string, override bool) error {
	data, err := afero.ReadFile(AppFs, name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	for key, value := range env {
		if _, exists := os.LookupEnv(key); exists && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}
