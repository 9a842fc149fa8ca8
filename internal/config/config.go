// Package config provides configuration management for the permit odds engine.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Stores     StoresConfig     `mapstructure:"stores" validate:"required"`
	CoreZones  CoreZonesConfig  `mapstructure:"core_zones" validate:"required"`
	Estimation EstimationConfig `mapstructure:"estimation" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StoresConfig locates the per-year record stores
type StoresConfig struct {
	Dir               string `mapstructure:"dir" validate:"required"`
	FilePrefix        string `mapstructure:"file_prefix" validate:"required"`
	Extension         string `mapstructure:"extension" validate:"required,extension"`
	DefaultDataYears  []int  `mapstructure:"default_data_years" validate:"required,min=1,dive,gte=1900"`
	DefaultPermitYear int    `mapstructure:"default_permit_year" validate:"required,gte=1900"`
}

// CoreZonesConfig designates each historical year's core zone
type CoreZonesConfig struct {
	DefaultZoneID int             `mapstructure:"default_zone_id" validate:"required,gt=0"`
	Years         []CoreZoneEntry `mapstructure:"years" validate:"dive"`
}

// CoreZoneEntry maps one data year to its core zone id
type CoreZoneEntry struct {
	Year   int `mapstructure:"year" validate:"required,gte=1900"`
	ZoneID int `mapstructure:"zone_id" validate:"required,gt=0"`
}

// EstimationConfig tunes the nearest-neighbor search
type EstimationConfig struct {
	MaxRounds     int     `mapstructure:"max_rounds" validate:"required,gt=0"`
	MaxCandidates int     `mapstructure:"max_candidates" validate:"required,gt=1"`
	ShrinkFactor  float64 `mapstructure:"shrink_factor" validate:"required,gt=0,lt=1"`
	WidenFactor   float64 `mapstructure:"widen_factor" validate:"required,gt=1"`
	DistanceScale float64 `mapstructure:"distance_scale" validate:"required,gt=0"`
}

// CacheConfig represents the in-memory estimate cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"required_if=Enabled true,gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"required_if=Enabled true,gte=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// DefaultCoreZones returns the historical core zone designations
func DefaultCoreZones() CoreZonesConfig {
	return CoreZonesConfig{
		DefaultZoneID: 3,
		Years: []CoreZoneEntry{
			{Year: 2022, ZoneID: 4},
			{Year: 2023, ZoneID: 7},
			{Year: 2024, ZoneID: 1},
		},
	}
}

// CoreZoneMap flattens the configured designations into a lookup table
func (c CoreZonesConfig) CoreZoneMap() map[int]int {
	m := make(map[int]int, len(c.Years))
	for _, entry := range c.Years {
		m[entry.Year] = entry.ZoneID
	}
	return m
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// StorePath returns the record store path for a data year
func (c *Config) StorePath(year int) string {
	return filepath.Join(c.Stores.Dir, fmt.Sprintf("%s%d.%s", c.Stores.FilePrefix, year, c.Stores.Extension))
}

// CacheTTL returns the estimate cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
