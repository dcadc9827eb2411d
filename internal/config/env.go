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
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv overlays environment variables onto the config. A .env file in the
// working directory is loaded first if present (existing environment wins).
// Unset or malformed variables leave the corresponding field untouched.
//
// Recognized variables:
//
//	UNOSYS_INTERVAL        sampling interval (Go duration, e.g. "5s")
//	UNOSYS_OUTPUT          CSV output path
//	UNOSYS_WORKERS         process enumeration worker count
//	UNOSYS_SERVER_HOST     HTTP server listen address
//	UNOSYS_SERVER_PORT     HTTP server port
//	UNOSYS_LOG_LEVEL       debug, info, warn or error
//	UNOSYS_INCLUDE_DISKS   comma-separated include list
//	UNOSYS_EXCLUDE_DISKS   comma-separated exclude list
//	UNOSYS_INCLUDE_NETS    comma-separated include list
//	UNOSYS_EXCLUDE_NETS    comma-separated exclude list
func (c *Config) LoadEnv() {
	// Ignore the error: a missing .env file is the normal case.
	_ = godotenv.Load()

	if v := os.Getenv("UNOSYS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SamplingInterval = d
		}
	}
	if v := os.Getenv("UNOSYS_OUTPUT"); v != "" {
		c.OutputPath = v
	}
	if v := os.Getenv("UNOSYS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("UNOSYS_SERVER_HOST"); v != "" {
		c.ServerHost = v
	}
	if v := os.Getenv("UNOSYS_SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ServerPort = n
		}
	}
	if v := os.Getenv("UNOSYS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("UNOSYS_INCLUDE_DISKS"); v != "" {
		c.IncludeDisks = ParseCommaSeparated(v)
	}
	if v := os.Getenv("UNOSYS_EXCLUDE_DISKS"); v != "" {
		c.ExcludeDisks = ParseCommaSeparated(v)
	}
	if v := os.Getenv("UNOSYS_INCLUDE_NETS"); v != "" {
		c.IncludeNetworks = ParseCommaSeparated(v)
	}
	if v := os.Getenv("UNOSYS_EXCLUDE_NETS"); v != "" {
		c.ExcludeNetworks = ParseCommaSeparated(v)
	}
}
