package agent

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/fleet"
	"liyu1981.xyz/vigilant/pkg/models"
)

const (
	Version = "1.0.0"

	ProcessRunning    = "running"
	ProcessNotRunning = "not running"

	bytesPerGB = 1 << 30

	reportKeyAgentVersion = "agent_version"
	reportKeyOS           = "os"
)

// reportKeys are written by the collector itself; a process name equal to
// one of them is not reported.
var reportKeys = map[string]bool{
	models.ReportKeyRigID:         true,
	models.ReportKeyTimestamp:     true,
	models.ReportKeyHostname:      true,
	models.ReportKeyIPAddress:     true,
	models.ReportKeyCPUPercent:    true,
	models.ReportKeyMemoryPercent: true,
	models.ReportKeyDiskPercent:   true,
	"memory_used_gb":              true,
	"memory_total_gb":             true,
	"disk_free_gb":                true,
	"uptime_hours":                true,
	reportKeyAgentVersion:         true,
	reportKeyOS:                   true,
}

// Collector builds one heartbeat report from a probe.
type Collector struct {
	Config *Config
	Probe  Probe
	Now    func() time.Time
}

func (c *Collector) Collect(ctx context.Context) (models.Report, error) {
	logger := common.GetLoggerWith(common.LoggerNameAgent)

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	report := models.Report{
		models.ReportKeyRigID:     c.Config.RigID,
		models.ReportKeyTimestamp: fleet.FormatTimestamp(now()),
	}

	if err := c.checkProcesses(ctx, report); err != nil {
		return nil, fmt.Errorf("checking processes: %w", err)
	}

	logger.Info("Collecting network information")
	hostname, err := c.Probe.Hostname()
	if err != nil {
		return nil, fmt.Errorf("resolving hostname: %w", err)
	}
	report[models.ReportKeyHostname] = hostname
	if ip, err := c.Probe.IPAddress(hostname); err != nil {
		logger.Warn("Could not resolve ip address", zap.String("hostname", hostname), zap.Error(err))
	} else {
		report[models.ReportKeyIPAddress] = ip
	}

	if err := c.collectSystemStatus(ctx, report); err != nil {
		return nil, err
	}

	for key, value := range c.Config.Metadata {
		if key == models.ReportKeyRigID || key == models.ReportKeyTimestamp {
			logger.Warn("Ignoring reserved metadata key", zap.String("key", key))
			continue
		}
		report[key] = value
	}

	report[reportKeyAgentVersion] = Version
	report[reportKeyOS] = c.Probe.OS(ctx)

	return report, nil
}

// checkProcesses marks each configured process name as running or not.
// Names compare case-insensitively.
func (c *Collector) checkProcesses(ctx context.Context, report models.Report) error {
	logger := common.GetLoggerWith(common.LoggerNameAgent)

	if len(c.Config.ProcessNames) == 0 {
		logger.Warn("Nothing configured to check")
		return nil
	}

	logger.Info("Checking running processes")
	names, err := c.Probe.ProcessNames(ctx)
	if err != nil {
		return err
	}

	running := make(map[string]bool, len(names))
	for _, name := range names {
		running[strings.ToLower(name)] = true
	}

	for _, name := range c.Config.ProcessNames {
		if reportKeys[name] {
			logger.Warn("Ignoring process name that collides with a report key", zap.String("process", name))
			continue
		}
		if running[strings.ToLower(name)] {
			logger.Info("Process is running", zap.String("process", name))
			report[name] = ProcessRunning
		} else {
			report[name] = ProcessNotRunning
		}
	}
	return nil
}

func (c *Collector) collectSystemStatus(ctx context.Context, report models.Report) error {
	common.GetLoggerWith(common.LoggerNameAgent).Info("Collecting system status")

	cpuPercent, err := c.Probe.CPUPercent(ctx)
	if err != nil {
		return fmt.Errorf("sampling cpu: %w", err)
	}

	memory, err := c.Probe.Memory(ctx)
	if err != nil {
		return fmt.Errorf("sampling memory: %w", err)
	}

	disk, err := c.Probe.Disk(ctx, c.Config.DiskPath)
	if err != nil {
		return fmt.Errorf("sampling disk %s: %w", c.Config.DiskPath, err)
	}

	uptime, err := c.Probe.Uptime(ctx)
	if err != nil {
		return fmt.Errorf("reading uptime: %w", err)
	}

	report[models.ReportKeyCPUPercent] = cpuPercent
	report[models.ReportKeyMemoryPercent] = memory.Percent
	report["memory_used_gb"] = round(float64(memory.Used)/bytesPerGB, 2)
	report["memory_total_gb"] = round(float64(memory.Total)/bytesPerGB, 2)
	report[models.ReportKeyDiskPercent] = disk.Percent
	report["disk_free_gb"] = round(float64(disk.Free)/bytesPerGB, 2)
	report["uptime_hours"] = round(uptime.Hours(), 1)
	return nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
