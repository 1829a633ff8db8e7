package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type MemoryStat struct {
	Percent float64
	Used    uint64
	Total   uint64
}

type DiskStat struct {
	Percent float64
	Free    uint64
}

// Probe samples the local machine.
type Probe interface {
	CPUPercent(ctx context.Context) (float64, error)
	Memory(ctx context.Context) (*MemoryStat, error)
	Disk(ctx context.Context, path string) (*DiskStat, error)
	Uptime(ctx context.Context) (time.Duration, error)
	ProcessNames(ctx context.Context) ([]string, error)
	Hostname() (string, error)
	IPAddress(hostname string) (string, error)
	OS(ctx context.Context) string
}

// SystemProbe reads the host through gopsutil.
type SystemProbe struct {
	CPUInterval time.Duration
}

func NewSystemProbe() *SystemProbe {
	return &SystemProbe{CPUInterval: time.Second}
}

func (p *SystemProbe) CPUPercent(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, p.CPUInterval, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, errors.New("no cpu sample")
	}
	return percents[0], nil
}

func (p *SystemProbe) Memory(ctx context.Context) (*MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return &MemoryStat{Percent: vm.UsedPercent, Used: vm.Used, Total: vm.Total}, nil
}

func (p *SystemProbe) Disk(ctx context.Context, path string) (*DiskStat, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return nil, err
	}
	return &DiskStat{Percent: usage.UsedPercent, Free: usage.Free}, nil
}

func (p *SystemProbe) Uptime(ctx context.Context) (time.Duration, error) {
	secs, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// ProcessNames lists the names of running processes. Processes that vanish or
// deny access while being listed are skipped.
func (p *SystemProbe) ProcessNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (p *SystemProbe) Hostname() (string, error) {
	return os.Hostname()
}

// IPAddress resolves hostname and prefers an IPv4 address.
func (p *SystemProbe) IPAddress(hostname string) (string, error) {
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	if len(ips) > 0 {
		return ips[0].String(), nil
	}
	return "", fmt.Errorf("no address for %s", hostname)
}

func (p *SystemProbe) OS(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return runtime.GOOS + "-" + runtime.GOARCH
	}
	parts := []string{info.Platform, info.PlatformVersion, info.KernelArch}
	var nonEmpty []string
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	if len(nonEmpty) == 0 {
		return runtime.GOOS + "-" + runtime.GOARCH
	}
	return strings.Join(nonEmpty, "-")
}
