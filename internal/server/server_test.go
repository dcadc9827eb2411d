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

package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/phuonguno98/unosys/pkg/metrics"
	"github.com/phuonguno98/unosys/pkg/probe"
)

// stubSource yields a fixed machine view: two cores, one disk, one process.
type stubSource struct{}

func (stubSource) Supported() bool     { return true }
func (stubSource) CoreCount() int      { return 2 }
func (stubSource) ProcessIDs() []int32 { return []int32{1} }

func (stubSource) ProcessSample(pid int32, _ probe.ProcessRefreshKind, _ *metrics.ProcessSample) (metrics.ProcessSample, bool) {
	if pid != 1 {
		return metrics.ProcessSample{}, false
	}
	return metrics.ProcessSample{Name: "init", Status: "sleeping", RSS: 4096}, true
}

func (stubSource) CPUSamples(probe.CPURefreshKind) map[string]metrics.CPUSample {
	return map[string]metrics.CPUSample{
		probe.TotalCPUKey: {Busy: 10, Total: 20, FrequencyMHz: 2400},
		"cpu0":            {Busy: 5, Total: 10, FrequencyMHz: 2400},
		"cpu1":            {Busy: 5, Total: 10, FrequencyMHz: 2400},
	}
}

func (stubSource) MemorySample(probe.MemoryRefreshKind) (metrics.MemorySample, bool) {
	return metrics.MemorySample{Total: 1000, Used: 400, Available: 600, SwapTotal: 500, SwapUsed: 100}, true
}

func (stubSource) DiskSamples() map[string]metrics.DiskSample {
	return map[string]metrics.DiskSample{
		"sda": {Mountpoint: "/", Filesystem: "ext4", TotalSpace: 10000, FreeSpace: 5000},
	}
}

func (stubSource) NetSamples() map[string]metrics.NetSample {
	return map[string]metrics.NetSample{
		"eth0": {MacAddress: "aa:bb:cc:dd:ee:ff"},
	}
}

func (stubSource) SensorSamples() map[string]metrics.SensorSample {
	return map[string]metrics.SensorSample{
		"coretemp": {TemperatureC: 45, HighC: 80, CriticalC: 100},
	}
}

func (stubSource) UserSamples() map[string]metrics.UserSample {
	return map[string]metrics.UserSample{
		"root": {Terminal: "tty1"},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := probe.NewSystem(probe.WithSource(stubSource{}), probe.WithLogger(logger))
	sys.RefreshAll()
	return NewServer(sys, logger)
}

func getJSON(t *testing.T, s *Server, path string, out interface{}) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	resp := rec.Result()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp
}

func TestAPIEndpoints(t *testing.T) {
	s := newTestServer(t)

	paths := []string{
		"/api/version",
		"/api/system",
		"/api/cpus",
		"/api/memory",
		"/api/processes",
		"/api/disks",
		"/api/networks",
		"/api/sensors",
		"/api/users",
	}
	for _, path := range paths {
		resp := getJSON(t, s, path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
		if got := resp.Header.Get("X-Run-ID"); got == "" {
			t.Errorf("GET %s missing X-Run-ID header", path)
		}
	}
}

func TestMemoryEndpoint(t *testing.T) {
	s := newTestServer(t)

	var body map[string]interface{}
	getJSON(t, s, "/api/memory", &body)

	if got := body["total"].(float64); got != 1000 {
		t.Errorf("total = %v, want 1000", got)
	}
	if got := body["used_percent"].(float64); got != 40 {
		t.Errorf("used_percent = %v, want 40", got)
	}
	if got := body["swap_used_percent"].(float64); got != 20 {
		t.Errorf("swap_used_percent = %v, want 20", got)
	}
}

func TestProcessEndpoint(t *testing.T) {
	s := newTestServer(t)

	var body map[string]interface{}
	resp := getJSON(t, s, "/api/processes/1", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/processes/1 = %d", resp.StatusCode)
	}
	if body["name"] != "init" {
		t.Errorf("name = %v, want init", body["name"])
	}

	resp = getJSON(t, s, "/api/processes/999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /api/processes/999 = %d, want 404", resp.StatusCode)
	}
}

func TestCPUsEndpointExcludesAggregate(t *testing.T) {
	s := newTestServer(t)

	var body []map[string]interface{}
	getJSON(t, s, "/api/cpus", &body)

	if len(body) != 2 {
		t.Fatalf("got %d cpus, want 2", len(body))
	}
	for _, c := range body {
		if c["name"] == "total" {
			t.Error("aggregate record leaked into /api/cpus")
		}
	}
}

func TestCORSPreflights(t *testing.T) {
	s := newTestServer(t)

	// A preflight must reach the middleware chain on every route, the
	// parameterized one included, not fall through to mux's 405 handler.
	paths := []string{
		"/api/version",
		"/api/system",
		"/api/cpus",
		"/api/memory",
		"/api/processes",
		"/api/processes/1",
		"/api/disks",
		"/api/networks",
		"/api/sensors",
		"/api/users",
	}
	for _, path := range paths {
		req := httptest.NewRequest("OPTIONS", path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("OPTIONS %s = %d, want 200", path, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("OPTIONS %s Allow-Origin = %q, want *", path, got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
			t.Errorf("OPTIONS %s missing Allow-Methods header", path)
		}
	}
}

func TestPrometheusCollector(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := probe.NewSystem(probe.WithSource(stubSource{}), probe.WithLogger(logger))
	sys.RefreshAll()

	c := newSystemCollector(sys)

	// total + 2 cores, with frequency for each core.
	if got := testutil.CollectAndCount(c, "unosys_cpu_usage_percent"); got != 3 {
		t.Errorf("cpu usage series = %d, want 3", got)
	}
	if got := testutil.CollectAndCount(c, "unosys_disk_free_bytes"); got != 1 {
		t.Errorf("disk free series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(c, "unosys_sensor_temperature_celsius"); got != 1 {
		t.Errorf("sensor series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(c, "unosys_memory_used_percent"); got != 1 {
		t.Errorf("memory percent series = %d, want 1", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "unosys_memory_used_percent") {
		t.Error("exposition missing unosys_memory_used_percent")
	}
	if !strings.Contains(body, "unosys_cpu_usage_percent") {
		t.Error("exposition missing unosys_cpu_usage_percent")
	}
}
