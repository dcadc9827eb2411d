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
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/unosys/internal/devices"
	"github.com/phuonguno98/unosys/pkg/probe"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List disks, network interfaces, sensors and logged-in users",
	Long: `Take one sample of the system's devices and print them as tables.
This helps to configure include/exclude filters accurately.

Examples:
  # List all devices
  unosys list

  # Use the output to configure filters
  unosys watch --include-disks="sda" --exclude-networks="lo"`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	// Quiet logger: tables are the output here.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sys := probe.NewSystem(probe.WithLogger(logger))
	if !sys.Supported() {
		fmt.Println("Platform not supported, no devices to list.")
		return nil
	}

	sys.Refresh(probe.Nothing().WithDisks().WithNetworks().WithSensors().WithUsers())

	fmt.Println("\n========================================")
	fmt.Println("   UnoSys - Available Devices")
	fmt.Println("========================================")

	if disks := sys.Disks(); len(disks) == 0 {
		fmt.Println("\nNo disk devices found.")
	} else {
		fmt.Print(devices.FormatDisksTable(disks))
		fmt.Println("\nExample usage:")
		fmt.Printf("  unosys watch --include-disks=\"%s\"\n", disks[0].Device)
	}

	if networks := sys.Networks(); len(networks) == 0 {
		fmt.Println("\nNo network interfaces found.")
	} else {
		fmt.Print(devices.FormatNetworksTable(networks))
		fmt.Println("\nExample usage:")
		fmt.Printf("  unosys watch --include-networks=\"%s\"\n", networks[0].Name)
	}

	if sensors := sys.Sensors(); len(sensors) == 0 {
		fmt.Println("\nNo temperature sensors found.")
	} else {
		fmt.Print(devices.FormatSensorsTable(sensors))
	}

	if users := sys.Users(); len(users) == 0 {
		fmt.Println("\nNo logged-in users found.")
	} else {
		fmt.Print(devices.FormatUsersTable(users))
	}

	fmt.Println("\nNotes:")
	fmt.Println("  - Use comma to separate multiple devices: --exclude-disks=\"dev1,dev2\"")
	fmt.Println("  - Exclude filters take priority over include filters")
	fmt.Println("  - Empty include list means monitor all devices (except excluded)")
	fmt.Println()

	return nil
}
