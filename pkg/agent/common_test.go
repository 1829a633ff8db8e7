package agent

import (
	"context"
	"time"
)

type fakeProbe struct {
	cpu       float64
	memory    MemoryStat
	disk      DiskStat
	uptime    time.Duration
	processes []string
	hostname  string
	ip        string

	cpuErr  error
	procErr error
	ipErr   error

	diskPath string
}

func newFakeProbe() *fakeProbe {
	return &fakeProbe{
		cpu:       12.5,
		memory:    MemoryStat{Percent: 50, Used: 8 * bytesPerGB, Total: 16 * bytesPerGB},
		disk:      DiskStat{Percent: 75.5, Free: 100*bytesPerGB + bytesPerGB/3},
		uptime:    90 * time.Minute,
		processes: []string{"System", "Miner.exe", "explorer.exe"},
		hostname:  "rig-host",
		ip:        "10.0.0.7",
	}
}

func (p *fakeProbe) CPUPercent(ctx context.Context) (float64, error) {
	return p.cpu, p.cpuErr
}

func (p *fakeProbe) Memory(ctx context.Context) (*MemoryStat, error) {
	m := p.memory
	return &m, nil
}

func (p *fakeProbe) Disk(ctx context.Context, path string) (*DiskStat, error) {
	p.diskPath = path
	d := p.disk
	return &d, nil
}

func (p *fakeProbe) Uptime(ctx context.Context) (time.Duration, error) {
	return p.uptime, nil
}

func (p *fakeProbe) ProcessNames(ctx context.Context) ([]string, error) {
	return p.processes, p.procErr
}

func (p *fakeProbe) Hostname() (string, error) {
	return p.hostname, nil
}

func (p *fakeProbe) IPAddress(hostname string) (string, error) {
	return p.ip, p.ipErr
}

func (p *fakeProbe) OS(ctx context.Context) string {
	return "testos-1.0-amd64"
}

func testConfig(serverURL string) *Config {
	cfg := &Config{
		RigID:        "R1",
		ServerURL:    serverURL,
		APIKey:       "test-key",
		ProcessNames: []string{"miner.exe", "watchdog.exe"},
		Metadata:     map[string]any{"location": "shelf-3", "rig_id": "spoofed"},
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
