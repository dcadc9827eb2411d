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

// Package server exposes the committed metric state over HTTP: a JSON API for
// dashboards and scripts, and a Prometheus scrape endpoint.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phuonguno98/unosys/pkg/probe"
	"github.com/phuonguno98/unosys/pkg/version"
)

// Server serves the metric state of one probe.System over HTTP.
type Server struct {
	sys      *probe.System
	logger   *slog.Logger
	router   *mux.Router
	registry *prometheus.Registry
	runID    string // Unique id for this server run, returned on every response
	started  time.Time
}

// NewServer creates a new HTTP server around the given system.
func NewServer(sys *probe.System, logger *slog.Logger) *Server {
	s := &Server{
		sys:      sys,
		logger:   logger,
		router:   mux.NewRouter(),
		registry: prometheus.NewRegistry(),
		runID:    uuid.New().String(),
		started:  time.Now(),
	}

	s.registry.MustRegister(newSystemCollector(sys))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(corsMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.runIDMiddleware)

	// OPTIONS is routed too so preflights reach the middleware chain instead
	// of mux's MethodNotAllowed path, which skips router.Use handlers.
	s.router.HandleFunc("/api/version", s.handleGetVersion).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/system", s.handleGetSystem).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/cpus", s.handleGetCPUs).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/memory", s.handleGetMemory).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/processes", s.handleGetProcesses).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/processes/{pid:[0-9]+}", s.handleGetProcess).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/disks", s.handleGetDisks).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/networks", s.handleGetNetworks).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/sensors", s.handleGetSensors).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/users", s.handleGetUsers).Methods("GET", "OPTIONS")

	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// runIDMiddleware stamps every response with this server run's id so clients
// can detect restarts.
func (s *Server) runIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Run-ID", s.runID)
		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleGetVersion returns version information from the version package.
func (s *Server) handleGetVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"run_id":  s.runID,
	})
}

// handleGetSystem returns the machine-wide summary.
func (s *Server) handleGetSystem(w http.ResponseWriter, _ *http.Request) {
	memSample, memMetrics := s.sys.Memory()
	s.writeJSON(w, map[string]interface{}{
		"uptime_seconds":       time.Since(s.started).Seconds(),
		"cpu_usage_percent":    s.sys.GlobalCPUUsage(),
		"memory_used_percent":  memMetrics.UsedPercent,
		"swap_used_percent":    memMetrics.SwapUsedPercent,
		"memory_total_bytes":   memSample.Total,
		"memory_used_bytes":    memSample.Used,
		"process_count":        s.sys.ProcessCount(),
		"core_count":           s.sys.CoreCount(),
	})
}

func (s *Server) handleGetCPUs(w http.ResponseWriter, _ *http.Request) {
	cpus := s.sys.CPUs()
	out := make([]map[string]interface{}, 0, len(cpus))
	for _, c := range cpus {
		out = append(out, map[string]interface{}{
			"name":          c.Name,
			"usage_percent": c.Metrics.UsagePercent,
			"frequency_mhz": c.Sample.FrequencyMHz,
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleGetMemory(w http.ResponseWriter, _ *http.Request) {
	sample, derived := s.sys.Memory()
	s.writeJSON(w, map[string]interface{}{
		"total":             sample.Total,
		"available":         sample.Available,
		"used":              sample.Used,
		"free":              sample.Free,
		"swap_total":        sample.SwapTotal,
		"swap_used":         sample.SwapUsed,
		"swap_free":         sample.SwapFree,
		"used_percent":      derived.UsedPercent,
		"swap_used_percent": derived.SwapUsedPercent,
	})
}

func (s *Server) handleGetProcesses(w http.ResponseWriter, _ *http.Request) {
	procs := s.sys.Processes()
	out := make([]map[string]interface{}, 0, len(procs))
	for _, p := range procs {
		out = append(out, processJSON(p))
	}
	s.writeJSON(w, out)
}

func (s *Server) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pid, err := strconv.ParseInt(vars["pid"], 10, 32)
	if err != nil {
		s.writeError(w, "invalid pid", http.StatusBadRequest)
		return
	}

	p, ok := s.sys.Process(int32(pid))
	if !ok {
		s.writeError(w, "process not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, processJSON(p))
}

func processJSON(p probe.ProcessInfo) map[string]interface{} {
	return map[string]interface{}{
		"pid":                 p.PID,
		"name":                p.Sample.Name,
		"status":              p.Sample.Status,
		"gone":                p.Gone,
		"cpu_usage_percent":   p.Metrics.CPUUsagePercent,
		"rss":                 p.Sample.RSS,
		"vms":                 p.Sample.VMS,
		"read_bytes_per_sec":  p.Metrics.ReadBytesPerSec,
		"write_bytes_per_sec": p.Metrics.WriteBytesPerSec,
		"username":            p.Sample.Username,
	}
}

func (s *Server) handleGetDisks(w http.ResponseWriter, _ *http.Request) {
	disks := s.sys.Disks()
	out := make([]map[string]interface{}, 0, len(disks))
	for _, d := range disks {
		out = append(out, map[string]interface{}{
			"device":              d.Device,
			"mountpoint":          d.Sample.Mountpoint,
			"filesystem":          d.Sample.Filesystem,
			"total_space":         d.Sample.TotalSpace,
			"free_space":          d.Sample.FreeSpace,
			"read_bytes_per_sec":  d.Metrics.ReadBytesPerSec,
			"write_bytes_per_sec": d.Metrics.WriteBytesPerSec,
			"read_ops_per_sec":    d.Metrics.ReadOpsPerSec,
			"write_ops_per_sec":   d.Metrics.WriteOpsPerSec,
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleGetNetworks(w http.ResponseWriter, _ *http.Request) {
	nets := s.sys.Networks()
	out := make([]map[string]interface{}, 0, len(nets))
	for _, n := range nets {
		out = append(out, map[string]interface{}{
			"name":                 n.Name,
			"mac_address":          n.Sample.MacAddress,
			"recv_bytes_per_sec":   n.Metrics.RecvBytesPerSec,
			"sent_bytes_per_sec":   n.Metrics.SentBytesPerSec,
			"recv_packets_per_sec": n.Metrics.RecvPacketsPerSec,
			"sent_packets_per_sec": n.Metrics.SentPacketsPerSec,
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleGetSensors(w http.ResponseWriter, _ *http.Request) {
	sensors := s.sys.Sensors()
	out := make([]map[string]interface{}, 0, len(sensors))
	for _, sn := range sensors {
		out = append(out, map[string]interface{}{
			"label":         sn.Label,
			"temperature_c": sn.Sample.TemperatureC,
			"high_c":        sn.Sample.HighC,
			"critical_c":    sn.Sample.CriticalC,
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleGetUsers(w http.ResponseWriter, _ *http.Request) {
	users := s.sys.Users()
	out := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]interface{}{
			"name":     u.Name,
			"terminal": u.Sample.Terminal,
			"host":     u.Sample.Host,
			"started":  u.Sample.Started,
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		s.logger.Error("Failed to write error response", "error", err)
	}
}
