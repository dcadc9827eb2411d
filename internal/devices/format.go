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

// Package devices renders the committed device records as plain-text tables
// for the list command.
package devices

import (
	"fmt"
	"strings"
	"time"

	"github.com/phuonguno98/unosys/pkg/probe"
)

const naString = "N/A"

// FormatDisksTable formats disk records as a table.
func FormatDisksTable(disks []probe.DiskInfo) string {
	var sb strings.Builder

	sb.WriteString("\nDisk Devices:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-20s %-20s %-12s %-12s %s\n", "DEVICE", "MOUNTPOINT", "FILESYSTEM", "SIZE", "FREE"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, d := range disks {
		sb.WriteString(fmt.Sprintf("%-20s %-20s %-12s %-12s %s\n",
			truncate(d.Device, 20),
			truncate(d.Sample.Mountpoint, 20),
			d.Sample.Filesystem,
			formatBytes(d.Sample.TotalSpace),
			formatBytes(d.Sample.FreeSpace),
		))
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

// FormatNetworksTable formats network interface records as a table.
func FormatNetworksTable(networks []probe.NetInfo) string {
	var sb strings.Builder

	sb.WriteString("\nNetwork Interfaces:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-30s %-20s %-14s %s\n", "INTERFACE", "MAC ADDRESS", "RECV (B/s)", "SENT (B/s)"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, n := range networks {
		mac := n.Sample.MacAddress
		if mac == "" {
			mac = naString
		}

		sb.WriteString(fmt.Sprintf("%-30s %-20s %-14.0f %.0f\n",
			truncate(n.Name, 30),
			mac,
			n.Metrics.RecvBytesPerSec,
			n.Metrics.SentBytesPerSec,
		))
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

// FormatSensorsTable formats temperature sensor records as a table.
func FormatSensorsTable(sensors []probe.SensorInfo) string {
	var sb strings.Builder

	sb.WriteString("\nTemperature Sensors:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-40s %-12s %-12s %s\n", "SENSOR", "TEMP (°C)", "HIGH (°C)", "CRITICAL (°C)"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, s := range sensors {
		sb.WriteString(fmt.Sprintf("%-40s %-12.1f %-12s %s\n",
			truncate(s.Label, 40),
			s.Sample.TemperatureC,
			formatThreshold(s.Sample.HighC),
			formatThreshold(s.Sample.CriticalC),
		))
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

// FormatUsersTable formats logged-in user records as a table.
func FormatUsersTable(users []probe.UserInfo) string {
	var sb strings.Builder

	sb.WriteString("\nLogged-in Users:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-20s %-15s %-25s %s\n", "USER", "TERMINAL", "HOST", "SINCE"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, u := range users {
		host := u.Sample.Host
		if host == "" {
			host = naString
		}

		since := naString
		if u.Sample.Started > 0 {
			since = time.Unix(u.Sample.Started, 0).Format("2006-01-02 15:04:05")
		}

		sb.WriteString(fmt.Sprintf("%-20s %-15s %-25s %s\n",
			truncate(u.Name, 20),
			u.Sample.Terminal,
			truncate(host, 25),
			since,
		))
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

// formatThreshold renders a sensor threshold, 0 meaning "not reported".
func formatThreshold(v float64) string {
	if v <= 0 {
		return naString
	}
	return fmt.Sprintf("%.1f", v)
}

// formatBytes converts bytes to human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
