package utils

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config Application configuration, read from a YAML file.
// Secrets (object store keys, JWT secret) are not kept here,
// they come from the environment.
type Config struct {
	Server struct {
		Port         string   `yaml:"port"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"server"`
	Database struct {
		// Driver is "sqlite" (default) or "mysql".
		Driver   string `yaml:"driver"`
		Filename string `yaml:"filename"`
		DSN      string `yaml:"dsn"`
	} `yaml:"database"`
	Storage struct {
		Endpoint      string `yaml:"endpoint"`
		Bucket        string `yaml:"bucket"`
		UseSSL        bool   `yaml:"use_ssl"`
		PublicBaseURL string `yaml:"public_base_url"`
	} `yaml:"storage"`
	Maps struct {
		DirectionsBaseURL string  `yaml:"directions_base_url"`
		DefaultLatitude   float64 `yaml:"default_latitude"`
		DefaultLongitude  float64 `yaml:"default_longitude"`
		DefaultZoom       int     `yaml:"default_zoom"`
		ActiveZoom        int     `yaml:"active_zoom"`
	} `yaml:"maps"`
	Auth struct {
		TokenLifespanHours int `yaml:"token_lifespan_hours"`
	} `yaml:"auth"`
}

// NewConfig Read and decode the config file at the given path.
func NewConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(&config); err != nil {
		return nil, err
	}

	applyDefaults(config)

	if config.Database.Driver == "mysql" && config.Database.DSN == "" {
		return nil, errors.New("database driver mysql requires a dsn")
	}
	if config.Storage.Endpoint == "" {
		return nil, errors.New("storage endpoint is required")
	}

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Database.Driver == "" {
		config.Database.Driver = "sqlite"
	}
	if config.Database.Filename == "" {
		config.Database.Filename = "greenlens.sqlite"
	}
	if config.Storage.Bucket == "" {
		config.Storage.Bucket = "images"
	}
	if config.Maps.DirectionsBaseURL == "" {
		config.Maps.DirectionsBaseURL = "https://www.google.com/maps/dir/"
	}
	if config.Maps.DefaultLatitude == 0 && config.Maps.DefaultLongitude == 0 {
		config.Maps.DefaultLatitude = 20.5937
		config.Maps.DefaultLongitude = 78.9629
	}
	if config.Maps.DefaultZoom == 0 {
		config.Maps.DefaultZoom = 5
	}
	if config.Maps.ActiveZoom == 0 {
		config.Maps.ActiveZoom = 13
	}
	if config.Auth.TokenLifespanHours == 0 {
		config.Auth.TokenLifespanHours = 24
	}
}

// ValidateConfigPath Check the config path points to a normal file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a normal file", path)
	}
	return nil
}

// ParseFlags Parse the command line flags and return the config path and debug mode.
func ParseFlags() (string, bool, error) {
	var configPath string
	var debugMode bool

	flag.StringVar(&configPath, "config", "./config.yaml", "path to config file")
	flag.BoolVar(&debugMode, "debug", false, "run the server in debug mode")
	flag.Parse()

	if err := ValidateConfigPath(configPath); err != nil {
		return "", false, err
	}

	return configPath, debugMode, nil
}
