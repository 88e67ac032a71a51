package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the application configuration. When path is empty
// a small set of conventional locations is tried in order.
func Load(path string) (*AppConfig, error) {
	paths := []string{path}
	if path == "" {
		paths = []string{"config.yml", "./config/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Fetch.TimeoutMS == 0 {
		cfg.Fetch.TimeoutMS = 15000
	}
	if cfg.Fetch.RetryAttempts == 0 {
		cfg.Fetch.RetryAttempts = 3
	}
	if cfg.Fetch.RetryBaseDelayMS == 0 {
		cfg.Fetch.RetryBaseDelayMS = 1000
	}
	if cfg.RoadNetwork.PageSize == 0 {
		cfg.RoadNetwork.PageSize = 1000
	}
	if cfg.RoadNetwork.ChunkSize == 0 {
		cfg.RoadNetwork.ChunkSize = 1000
	}
	if cfg.RoadNetwork.CachePath == "" {
		cfg.RoadNetwork.CachePath = "roadnet.db"
	}
	if cfg.RoadNetwork.CacheTTLDays == 0 {
		cfg.RoadNetwork.CacheTTLDays = 7
	}
	if cfg.RoadNetwork.RecordTag == "" {
		cfg.RoadNetwork.RecordTag = "CENTERLINE"
	}
	if cfg.Speed.RefreshSeconds == 0 {
		cfg.Speed.RefreshSeconds = 60
	}
	if cfg.Nav.AlertRadiusM == 0 {
		cfg.Nav.AlertRadiusM = 10
	}
	if cfg.Nav.RouteBufferM == 0 {
		cfg.Nav.RouteBufferM = 50
	}
	if cfg.Nav.ArriveRadiusM == 0 {
		cfg.Nav.ArriveRadiusM = 50
	}
}
