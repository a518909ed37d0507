package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

// 10 GiB per uploaded file unless the config says otherwise.
const defaultMaxFileSize = 10 << 30

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Storage struct {
		Path        string `yaml:"path"`
		Database    string `yaml:"database"`
		MaxFileSize int64  `yaml:"max_file_size"`
	} `yaml:"storage"`
}

func LoadConfig() *Config {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	var config Config
	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Failed to read config file, using defaults: %v", err)
	} else if err := yaml.Unmarshal(data, &config); err != nil {
		log.Printf("Failed to parse config file, using defaults: %v", err)
		config = Config{}
	}

	// Override bind address from environment variable if set
	if envAddr := os.Getenv("BIND_ADDR"); envAddr != "" {
		config.Server.Addr = envAddr
	}

	if config.Server.Addr == "" {
		config.Server.Addr = "0.0.0.0:8080"
	}
	if config.Storage.Path == "" {
		config.Storage.Path = "./uploads"
	}
	if config.Storage.Database == "" {
		config.Storage.Database = "./filedrop.db"
	}
	if config.Storage.MaxFileSize <= 0 {
		config.Storage.MaxFileSize = defaultMaxFileSize
	}

	return &config
}
