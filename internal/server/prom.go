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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phuonguno98/unosys/pkg/probe"
)

// systemCollector exposes the committed state of a probe.System as Prometheus
// metrics. It reads whatever the refresh loop last committed; it never
// triggers a refresh itself, so scrapes are cheap and lock-bounded.
type systemCollector struct {
	sys *probe.System

	cpuUsage     *prometheus.Desc
	cpuFrequency *prometheus.Desc
	memUsed      *prometheus.Desc
	memTotal     *prometheus.Desc
	memPercent   *prometheus.Desc
	swapPercent  *prometheus.Desc
	processCount *prometheus.Desc
	diskRead     *prometheus.Desc
	diskWrite    *prometheus.Desc
	diskFree     *prometheus.Desc
	netRecv      *prometheus.Desc
	netSent      *prometheus.Desc
	sensorTemp   *prometheus.Desc
}

func newSystemCollector(sys *probe.System) *systemCollector {
	return &systemCollector{
		sys: sys,
		cpuUsage: prometheus.NewDesc(
			"unosys_cpu_usage_percent",
			"CPU usage percentage per logical core, plus the machine-wide aggregate under core=\"total\".",
			[]string{"core"}, nil,
		),
		cpuFrequency: prometheus.NewDesc(
			"unosys_cpu_frequency_mhz",
			"CPU frequency in MHz per logical core.",
			[]string{"core"}, nil,
		),
		memUsed: prometheus.NewDesc(
			"unosys_memory_used_bytes",
			"Memory in use, in bytes.",
			nil, nil,
		),
		memTotal: prometheus.NewDesc(
			"unosys_memory_total_bytes",
			"Total physical memory, in bytes.",
			nil, nil,
		),
		memPercent: prometheus.NewDesc(
			"unosys_memory_used_percent",
			"Memory usage percentage.",
			nil, nil,
		),
		swapPercent: prometheus.NewDesc(
			"unosys_swap_used_percent",
			"Swap usage percentage.",
			nil, nil,
		),
		processCount: prometheus.NewDesc(
			"unosys_process_count",
			"Number of tracked processes, gone ones included.",
			nil, nil,
		),
		diskRead: prometheus.NewDesc(
			"unosys_disk_read_bytes_per_second",
			"Disk read throughput in bytes per second.",
			[]string{"device"}, nil,
		),
		diskWrite: prometheus.NewDesc(
			"unosys_disk_write_bytes_per_second",
			"Disk write throughput in bytes per second.",
			[]string{"device"}, nil,
		),
		diskFree: prometheus.NewDesc(
			"unosys_disk_free_bytes",
			"Free space on the disk's mount point, in bytes.",
			[]string{"device"}, nil,
		),
		netRecv: prometheus.NewDesc(
			"unosys_network_receive_bytes_per_second",
			"Network receive throughput in bytes per second.",
			[]string{"interface"}, nil,
		),
		netSent: prometheus.NewDesc(
			"unosys_network_transmit_bytes_per_second",
			"Network transmit throughput in bytes per second.",
			[]string{"interface"}, nil,
		),
		sensorTemp: prometheus.NewDesc(
			"unosys_sensor_temperature_celsius",
			"Temperature sensor reading in degrees Celsius.",
			[]string{"sensor"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *systemCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cpuUsage
	ch <- c.cpuFrequency
	ch <- c.memUsed
	ch <- c.memTotal
	ch <- c.memPercent
	ch <- c.swapPercent
	ch <- c.processCount
	ch <- c.diskRead
	ch <- c.diskWrite
	ch <- c.diskFree
	ch <- c.netRecv
	ch <- c.netSent
	ch <- c.sensorTemp
}

// Collect implements prometheus.Collector.
func (c *systemCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.cpuUsage, prometheus.GaugeValue,
		c.sys.GlobalCPUUsage(), "total")
	for _, cpu := range c.sys.CPUs() {
		ch <- prometheus.MustNewConstMetric(c.cpuUsage, prometheus.GaugeValue,
			cpu.Metrics.UsagePercent, cpu.Name)
		if cpu.Sample.FrequencyMHz > 0 {
			ch <- prometheus.MustNewConstMetric(c.cpuFrequency, prometheus.GaugeValue,
				cpu.Sample.FrequencyMHz, cpu.Name)
		}
	}

	memSample, memMetrics := c.sys.Memory()
	ch <- prometheus.MustNewConstMetric(c.memUsed, prometheus.GaugeValue, float64(memSample.Used))
	ch <- prometheus.MustNewConstMetric(c.memTotal, prometheus.GaugeValue, float64(memSample.Total))
	ch <- prometheus.MustNewConstMetric(c.memPercent, prometheus.GaugeValue, memMetrics.UsedPercent)
	ch <- prometheus.MustNewConstMetric(c.swapPercent, prometheus.GaugeValue, memMetrics.SwapUsedPercent)

	ch <- prometheus.MustNewConstMetric(c.processCount, prometheus.GaugeValue,
		float64(c.sys.ProcessCount()))

	for _, d := range c.sys.Disks() {
		ch <- prometheus.MustNewConstMetric(c.diskRead, prometheus.GaugeValue,
			d.Metrics.ReadBytesPerSec, d.Device)
		ch <- prometheus.MustNewConstMetric(c.diskWrite, prometheus.GaugeValue,
			d.Metrics.WriteBytesPerSec, d.Device)
		ch <- prometheus.MustNewConstMetric(c.diskFree, prometheus.GaugeValue,
			float64(d.Sample.FreeSpace), d.Device)
	}

	for _, n := range c.sys.Networks() {
		ch <- prometheus.MustNewConstMetric(c.netRecv, prometheus.GaugeValue,
			n.Metrics.RecvBytesPerSec, n.Name)
		ch <- prometheus.MustNewConstMetric(c.netSent, prometheus.GaugeValue,
			n.Metrics.SentBytesPerSec, n.Name)
	}

	for _, sn := range c.sys.Sensors() {
		ch <- prometheus.MustNewConstMetric(c.sensorTemp, prometheus.GaugeValue,
			sn.Sample.TemperatureC, sn.Label)
	}
}
