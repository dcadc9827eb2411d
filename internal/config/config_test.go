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

package config

import (
	"reflect"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", modify: func(c *Config) {}, wantErr: false},
		{name: "interval too short", modify: func(c *Config) { c.SamplingInterval = 500 * time.Millisecond }, wantErr: true},
		{name: "interval too long", modify: func(c *Config) { c.SamplingInterval = 2 * time.Hour }, wantErr: true},
		{name: "buffer size zero", modify: func(c *Config) { c.BufferSize = 0 }, wantErr: true},
		{name: "flush interval too short", modify: func(c *Config) { c.FlushInterval = 100 * time.Millisecond }, wantErr: true},
		{name: "workers zero", modify: func(c *Config) { c.Workers = 0 }, wantErr: true},
		{name: "port zero", modify: func(c *Config) { c.ServerPort = 0 }, wantErr: true},
		{name: "port too large", modify: func(c *Config) { c.ServerPort = 70000 }, wantErr: true},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "bad timezone", modify: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "empty timezone ok", modify: func(c *Config) { c.Timezone = "" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "sda", expected: []string{"sda"}},
		{name: "multiple", input: "sda,sdb,nvme0n1", expected: []string{"sda", "sdb", "nvme0n1"}},
		{name: "whitespace trimmed", input: " sda , sdb ", expected: []string{"sda", "sdb"}},
		{name: "empty parts skipped", input: "sda,,sdb,", expected: []string{"sda", "sdb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommaSeparated(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseCommaSeparated(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("UNOSYS_INTERVAL", "5s")
	t.Setenv("UNOSYS_WORKERS", "16")
	t.Setenv("UNOSYS_LOG_LEVEL", "debug")
	t.Setenv("UNOSYS_EXCLUDE_NETS", "lo, docker0")

	cfg := New()
	cfg.LoadEnv()

	if cfg.SamplingInterval != 5*time.Second {
		t.Errorf("SamplingInterval = %v, want 5s", cfg.SamplingInterval)
	}
	if cfg.Workers != 16 {
		t.Errorf("Workers = %d, want 16", cfg.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.ExcludeNetworks, []string{"lo", "docker0"}) {
		t.Errorf("ExcludeNetworks = %v", cfg.ExcludeNetworks)
	}
}

func TestLoadEnvIgnoresMalformed(t *testing.T) {
	t.Setenv("UNOSYS_INTERVAL", "not-a-duration")
	t.Setenv("UNOSYS_WORKERS", "many")

	cfg := New()
	cfg.LoadEnv()

	if cfg.SamplingInterval != DefaultSamplingInterval {
		t.Errorf("SamplingInterval = %v, want default", cfg.SamplingInterval)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want default", cfg.Workers)
	}
}
