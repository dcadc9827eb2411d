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

// Package exporter writes metric snapshots to a CSV file with buffered,
// periodically flushed output.
package exporter

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/phuonguno98/unosys/internal/config"
	"github.com/phuonguno98/unosys/pkg/metrics"
)

const naString = "N/A"

// CSVExporter exports metric snapshots to a CSV file with buffering.
//
// The column layout is fixed by the first snapshot: disks and interfaces
// present in later snapshots but absent from the first are dropped, and ones
// that disappear are written as N/A. This keeps every row aligned with the
// header.
type CSVExporter struct {
	config        *config.Config
	file          *os.File
	csvWriter     *csv.Writer
	bufWriter     *bufio.Writer
	metricsChan   <-chan *metrics.Snapshot
	flushTicker   *time.Ticker
	recordCount   int
	logger        *slog.Logger
	headerWritten bool
	deviceOrder   []string       // Order of disk devices for consistent columns
	ifaceOrder    []string       // Order of interfaces for consistent columns
	location      *time.Location // Timezone location for timestamps
}

// NewCSVExporter creates a new CSV exporter instance.
func NewCSVExporter(cfg *config.Config, metricsChan <-chan *metrics.Snapshot, logger *slog.Logger) (*CSVExporter, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", cfg.Timezone, err)
	}

	file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	bufWriter := bufio.NewWriterSize(file, 8192) // 8KB buffer
	csvWriter := csv.NewWriter(bufWriter)

	return &CSVExporter{
		config:      cfg,
		file:        file,
		csvWriter:   csvWriter,
		bufWriter:   bufWriter,
		metricsChan: metricsChan,
		logger:      logger,
		location:    loc,
	}, nil
}

// Start begins listening to the metrics channel and writing to CSV.
func (e *CSVExporter) Start(ctx context.Context) error {
	e.logger.Info("Starting CSV exporter", "output", e.config.OutputPath, "timezone", e.config.Timezone)

	e.flushTicker = time.NewTicker(e.config.FlushInterval)
	defer e.flushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("CSV exporter stopping...")
			return e.flush()

		case snapshot, ok := <-e.metricsChan:
			if !ok {
				e.logger.Info("Metrics channel closed, flushing remaining data...")
				return e.flush()
			}

			if err := e.writeSnapshot(snapshot); err != nil {
				e.logger.Error("Failed to write snapshot", "error", err)
			}

			e.recordCount++
			if e.recordCount >= e.config.BufferSize {
				if err := e.flush(); err != nil {
					e.logger.Error("Failed to flush", "error", err)
				}
				e.recordCount = 0
			}

		case <-e.flushTicker.C:
			if e.recordCount > 0 {
				if err := e.flush(); err != nil {
					e.logger.Error("Failed to flush", "error", err)
				}
				e.recordCount = 0
			}
		}
	}
}

// writeSnapshot writes a single snapshot to the CSV file.
func (e *CSVExporter) writeSnapshot(snapshot *metrics.Snapshot) error {
	if !e.headerWritten {
		if err := e.writeHeader(snapshot); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		e.headerWritten = true
	}

	if err := e.csvWriter.Write(e.buildRow(snapshot)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// writeHeader writes the CSV header row and fixes the column order.
func (e *CSVExporter) writeHeader(snapshot *metrics.Snapshot) error {
	header := []string{
		"Timestamp",
		"CPU Utilization (%)",
		"Memory Utilization (%)",
		"Process Count",
	}

	e.deviceOrder = make([]string, 0, len(snapshot.Disks))
	for device := range snapshot.Disks {
		e.deviceOrder = append(e.deviceOrder, device)
	}
	sort.Strings(e.deviceOrder)

	for _, device := range e.deviceOrder {
		header = append(header,
			fmt.Sprintf("Disk [%s] Read (MB/s)", device),
			fmt.Sprintf("Disk [%s] Write (MB/s)", device),
			fmt.Sprintf("Disk [%s] Read (IOPS)", device),
			fmt.Sprintf("Disk [%s] Write (IOPS)", device))
	}

	e.ifaceOrder = make([]string, 0, len(snapshot.Networks))
	for iface := range snapshot.Networks {
		e.ifaceOrder = append(e.ifaceOrder, iface)
	}
	sort.Strings(e.ifaceOrder)

	for _, iface := range e.ifaceOrder {
		header = append(header,
			fmt.Sprintf("Network [%s] Recv (Mbps)", iface),
			fmt.Sprintf("Network [%s] Sent (Mbps)", iface))
	}

	return e.csvWriter.Write(header)
}

// buildRow builds a CSV row from a snapshot.
func (e *CSVExporter) buildRow(snapshot *metrics.Snapshot) []string {
	ts := snapshot.Timestamp.In(e.location)

	row := []string{
		ts.Format("2006-01-02 15:04:05"),
		fmt.Sprintf("%.2f", snapshot.CPU),
		fmt.Sprintf("%.2f", snapshot.Memory),
		fmt.Sprintf("%d", snapshot.ProcessCount),
	}

	for _, device := range e.deviceOrder {
		if stats, ok := snapshot.Disks[device]; ok {
			row = append(row,
				fmt.Sprintf("%.2f", stats.ReadBytesPerSec/1_000_000),
				fmt.Sprintf("%.2f", stats.WriteBytesPerSec/1_000_000),
				fmt.Sprintf("%.2f", stats.ReadOpsPerSec),
				fmt.Sprintf("%.2f", stats.WriteOpsPerSec))
		} else {
			row = append(row, naString, naString, naString, naString)
		}
	}

	for _, iface := range e.ifaceOrder {
		if stats, ok := snapshot.Networks[iface]; ok {
			// Bytes per second to megabits per second.
			row = append(row,
				fmt.Sprintf("%.2f", stats.RecvBytesPerSec*8/1_000_000),
				fmt.Sprintf("%.2f", stats.SentBytesPerSec*8/1_000_000))
		} else {
			row = append(row, naString, naString)
		}
	}

	return row
}

// flush flushes the buffered data to disk.
func (e *CSVExporter) flush() error {
	e.csvWriter.Flush()
	if err := e.csvWriter.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	if err := e.bufWriter.Flush(); err != nil {
		return fmt.Errorf("buffer writer error: %w", err)
	}

	e.logger.Debug("Flushed to disk", "records", e.recordCount)
	return nil
}

// Close closes the CSV exporter and flushes remaining data.
func (e *CSVExporter) Close() error {
	if e.flushTicker != nil {
		e.flushTicker.Stop()
	}

	if err := e.flush(); err != nil {
		e.logger.Error("Final flush failed", "error", err)
	}

	if err := e.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	e.logger.Info("CSV exporter closed")
	return nil
}
