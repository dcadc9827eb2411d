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

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unosys/internal/config"
	"github.com/phuonguno98/unosys/internal/exporter"
	"github.com/phuonguno98/unosys/pkg/metrics"
	"github.com/phuonguno98/unosys/pkg/probe"
	"github.com/phuonguno98/unosys/pkg/version"
)

var (
	// Watch command specific flags
	samplingInterval time.Duration
	outputPath       string
	bufferSize       int
	flushInterval    time.Duration
	workers          int
	normalizeCPU     bool
	includeDisks     string
	excludeDisks     string
	includeNetworks  string
	excludeNetworks  string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sample system metrics periodically and record them to CSV",
	Long: `Refresh all system metrics on a fixed interval and append one snapshot row
per cycle to a CSV file.

Examples:
  # Run in foreground with default settings
  unosys watch

  # Custom interval and filters
  unosys watch --interval 5s --exclude-networks "lo"`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&samplingInterval, "interval", config.DefaultSamplingInterval,
		"Sampling interval (e.g., 1s, 30s, 1m)")
	watchCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output CSV file path (default: <hostname>_<timestamp>.csv)")
	watchCmd.Flags().IntVar(&bufferSize, "buffer-size", config.DefaultBufferSize,
		"Buffer size for CSV writer")
	watchCmd.Flags().DurationVar(&flushInterval, "flush-interval", config.DefaultFlushInterval,
		"Flush interval for CSV writer")
	watchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers,
		"Worker pool size for process enumeration")
	watchCmd.Flags().BoolVar(&normalizeCPU, "normalize-cpu", false,
		"Divide per-process CPU usage by the core count")

	// Filter flags
	watchCmd.Flags().StringVar(&includeDisks, "include-disks", "",
		"Comma-separated list of disk devices to monitor (empty = all)")
	watchCmd.Flags().StringVar(&excludeDisks, "exclude-disks", "",
		"Comma-separated list of disk devices to exclude")
	watchCmd.Flags().StringVar(&includeNetworks, "include-networks", "",
		"Comma-separated list of network interfaces to monitor (empty = all)")
	watchCmd.Flags().StringVar(&excludeNetworks, "exclude-networks", "",
		"Comma-separated list of network interfaces to exclude")
}

// buildConfig creates a Config from the environment overlay and parsed flags.
// Flags set on the command line win over environment variables.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()
	cfg.LoadEnv()

	cfg.LogLevel = logLevel
	cfg.LogFile = logFile
	cfg.Timezone = timezone

	if cmd.Flags().Changed("interval") {
		cfg.SamplingInterval = samplingInterval
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputPath = outputPath
	}
	if cmd.Flags().Changed("buffer-size") {
		cfg.BufferSize = bufferSize
	}
	if cmd.Flags().Changed("flush-interval") {
		cfg.FlushInterval = flushInterval
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("normalize-cpu") {
		cfg.NormalizeCPU = normalizeCPU
	}
	if cmd.Flags().Changed("include-disks") {
		cfg.IncludeDisks = config.ParseCommaSeparated(includeDisks)
	}
	if cmd.Flags().Changed("exclude-disks") {
		cfg.ExcludeDisks = config.ParseCommaSeparated(excludeDisks)
	}
	if cmd.Flags().Changed("include-networks") {
		cfg.IncludeNetworks = config.ParseCommaSeparated(includeNetworks)
	}
	if cmd.Flags().Changed("exclude-networks") {
		cfg.ExcludeNetworks = config.ParseCommaSeparated(excludeNetworks)
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = config.GetDefaultOutputPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runWatch is the main monitoring entry point.
func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := InitLogger(cfg.LogLevel, cfg.LogFile)

	logger.Info("Starting UnoSys",
		"version", version.Info(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
	)

	opts := []probe.Option{probe.WithLogger(logger), probe.WithWorkers(cfg.Workers)}
	if cfg.NormalizeCPU {
		opts = append(opts, probe.WithNormalizedCPU())
	}
	sys := probe.NewSystem(opts...)
	if !sys.Supported() {
		logger.Warn("Platform not supported, recorded metrics will be empty")
	}

	// Buffered so a slow disk never blocks the sampling loop.
	metricsChan := make(chan *metrics.Snapshot, 10)

	csvExporter, err := exporter.NewCSVExporter(cfg, metricsChan, logger)
	if err != nil {
		logger.Error("Failed to create CSV exporter", "error", err)
		return err
	}
	defer func() {
		if err := csvExporter.Close(); err != nil {
			logger.Error("Failed to close exporter", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating shutdown", "signal", sig)
		cancel()
	}()

	logger.Info("UnoSys is running", "output", cfg.OutputPath, "interval", cfg.SamplingInterval)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := csvExporter.Start(ctx); err != nil {
			logger.Error("Exporter stopped with error", "error", err)
		}
	}()

	// Prime the counters so the first recorded snapshot carries real rates.
	sys.RefreshAll()

	ticker := time.NewTicker(cfg.SamplingInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			sys.RefreshAll()
			snap := sys.Snapshot(cfg.IncludeDisks, cfg.ExcludeDisks, cfg.IncludeNetworks, cfg.ExcludeNetworks)
			select {
			case metricsChan <- snap:
			default:
				logger.Warn("Exporter backlogged, dropping snapshot")
			}
		}
	}

	logger.Info("Shutting down...")
	close(metricsChan)
	wg.Wait()
	logger.Info("Shutdown complete")

	return nil
}
