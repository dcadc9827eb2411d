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

package exporter

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phuonguno98/unosys/internal/config"
	"github.com/phuonguno98/unosys/pkg/metrics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.csv")
	cfg.Timezone = "UTC"
	return cfg
}

func testSnapshot(ts time.Time) *metrics.Snapshot {
	return &metrics.Snapshot{
		Timestamp:    ts,
		CPU:          42.5,
		Memory:       61.2,
		ProcessCount: 123,
		Disks: map[string]metrics.DiskMetrics{
			"sda": {ReadBytesPerSec: 2_000_000, WriteBytesPerSec: 1_000_000, ReadOpsPerSec: 10, WriteOpsPerSec: 5},
		},
		Networks: map[string]metrics.NetMetrics{
			"eth0": {RecvBytesPerSec: 1_250_000, SentBytesPerSec: 125_000},
		},
	}
}

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read csv: %v", err)
		}
		rows = append(rows, row)
	}
	return rows
}

func TestCSVExporterWritesHeaderAndRows(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ch := make(chan *metrics.Snapshot)
	e, err := NewCSVExporter(cfg, ch, logger)
	if err != nil {
		t.Fatalf("NewCSVExporter: %v", err)
	}

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := e.writeSnapshot(testSnapshot(ts)); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}
	if err := e.writeSnapshot(testSnapshot(ts.Add(30 * time.Second))); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readAllRows(t, cfg.OutputPath)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 data rows", len(rows))
	}

	header := rows[0]
	if header[0] != "Timestamp" || header[1] != "CPU Utilization (%)" {
		t.Errorf("unexpected header start: %v", header[:2])
	}
	if len(header) != 4+4+2 {
		t.Errorf("header has %d columns, want 10", len(header))
	}

	row := rows[1]
	if row[0] != "2026-08-30 12:00:00" {
		t.Errorf("timestamp = %q", row[0])
	}
	if row[1] != "42.50" || row[2] != "61.20" || row[3] != "123" {
		t.Errorf("summary cells = %v", row[1:4])
	}
	// sda read 2 MB/s, eth0 recv 10 Mbps.
	if row[4] != "2.00" {
		t.Errorf("disk read = %q, want 2.00", row[4])
	}
	if row[8] != "10.00" {
		t.Errorf("net recv = %q, want 10.00", row[8])
	}
}

func TestCSVExporterMissingDeviceWritesNA(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ch := make(chan *metrics.Snapshot)
	e, err := NewCSVExporter(cfg, ch, logger)
	if err != nil {
		t.Fatalf("NewCSVExporter: %v", err)
	}

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := e.writeSnapshot(testSnapshot(ts)); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}

	// Second snapshot lost the disk and the interface.
	second := testSnapshot(ts.Add(30 * time.Second))
	second.Disks = nil
	second.Networks = nil
	if err := e.writeSnapshot(second); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readAllRows(t, cfg.OutputPath)
	row := rows[2]
	for _, cell := range row[4:] {
		if cell != "N/A" {
			t.Errorf("missing device cell = %q, want N/A", cell)
		}
	}
}

func TestCSVExporterInvalidTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timezone = "Mars/Olympus"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := NewCSVExporter(cfg, make(chan *metrics.Snapshot), logger); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}
