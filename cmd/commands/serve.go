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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unosys/internal/config"
	"github.com/phuonguno98/unosys/internal/server"
	"github.com/phuonguno98/unosys/pkg/probe"
)

var (
	// Serve command specific flags
	serveHost     string
	servePort     int
	serveInterval time.Duration
	serveWorkers  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose system metrics over HTTP and Prometheus",
	Long: `Refresh all system metrics on a fixed interval and serve the committed state
over a JSON API and a Prometheus /metrics endpoint.

Examples:
  # Start server on default port 8080
  unosys serve

  # Start on localhost only, sampling every 5 seconds
  unosys serve --host 127.0.0.1 --port 3000 --interval 5s`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", config.DefaultServerHost, "HTTP server listen address")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultServerPort, "HTTP server port")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", config.DefaultSamplingInterval,
		"Sampling interval (e.g., 1s, 30s, 1m)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", config.DefaultWorkers,
		"Worker pool size for process enumeration")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := InitLogger(logLevel, logFile)

	logger.Info("Starting UnoSys server",
		"host", serveHost,
		"port", servePort,
		"interval", serveInterval,
	)

	sys := probe.NewSystem(probe.WithLogger(logger), probe.WithWorkers(serveWorkers))
	if !sys.Supported() {
		logger.Warn("Platform not supported, served metrics will be empty")
	}

	srv := server.NewServer(sys, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", serveHost, servePort),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating shutdown", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	// Refresh loop keeps the served state current between scrapes.
	go func() {
		sys.RefreshAll()

		ticker := time.NewTicker(serveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sys.RefreshAll()
			}
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", servePort)
	if serveHost != "0.0.0.0" {
		serverURL = fmt.Sprintf("http://%s:%d", serveHost, servePort)
	}

	fmt.Printf("\nUnoSys is serving metrics!\n")
	fmt.Printf("API:        %s/api/system\n", serverURL)
	fmt.Printf("Prometheus: %s/metrics\n\n", serverURL)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-ctx.Done()
	logger.Info("Server stopped")
	return nil
}
