/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package config holds the application configuration shared by the unosys
// commands: sampling cadence, output and server settings, device filters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents application configuration.
type Config struct {
	SamplingInterval time.Duration // Interval between refresh cycles
	OutputPath       string        // Path to CSV output file
	BufferSize       int           // Number of records to buffer before flush
	FlushInterval    time.Duration // Maximum time before forcing a flush

	// Engine
	Workers      int  // Worker pool size for process enumeration
	NormalizeCPU bool // Divide process CPU usage by core count

	// Filters
	IncludeDisks    []string // Disk devices to monitor (empty = all)
	ExcludeDisks    []string // Disk devices to exclude
	IncludeNetworks []string // Network interfaces to monitor (empty = all)
	ExcludeNetworks []string // Network interfaces to exclude

	// HTTP server
	ServerHost string
	ServerPort int

	// Logging
	LogLevel string // Log level: debug, info, warn, error
	LogFile  string // Log file path (empty = stdout)

	// Timezone
	Timezone string // Timezone location (e.g., "Asia/Ho_Chi_Minh", "Local")
}

// Default configuration values.
const (
	DefaultSamplingInterval = 30 * time.Second
	DefaultBufferSize       = 100
	DefaultFlushInterval    = 5 * time.Second
	DefaultWorkers          = 8
	DefaultServerHost       = "0.0.0.0"
	DefaultServerPort       = 8080
	DefaultLogLevel         = "info"
)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		SamplingInterval: DefaultSamplingInterval,
		BufferSize:       DefaultBufferSize,
		FlushInterval:    DefaultFlushInterval,
		Workers:          DefaultWorkers,
		ServerHost:       DefaultServerHost,
		ServerPort:       DefaultServerPort,
		LogLevel:         DefaultLogLevel,
		Timezone:         "Local",
	}
}

// GetDefaultOutputPath generates default output path: <hostname>_<timestamp>.csv
func GetDefaultOutputPath() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	// Clean hostname (remove invalid filename characters)
	hostname = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|' {
			return '_'
		}
		return r
	}, hostname)

	timestamp := time.Now().Format("20060102150405")
	filename := fmt.Sprintf("%s_%s.csv", hostname, timestamp)

	exePath, err := os.Executable()
	if err != nil {
		return filename
	}

	return filepath.Join(filepath.Dir(exePath), filename)
}

// ParseCommaSeparated parses a comma-separated string into a slice of
// trimmed, non-empty strings.
func ParseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SamplingInterval < 1*time.Second {
		return errors.New("sampling interval must be at least 1 second")
	}

	if c.SamplingInterval > 1*time.Hour {
		return errors.New("sampling interval must not exceed 1 hour")
	}

	if c.BufferSize < 1 {
		return errors.New("buffer size must be at least 1")
	}

	if c.FlushInterval < 1*time.Second {
		return errors.New("flush interval must be at least 1 second")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server port: %d", c.ServerPort)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %s (%w)", c.Timezone, err)
		}
	}

	return nil
}
