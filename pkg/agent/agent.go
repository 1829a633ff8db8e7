package agent

import (
	"context"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/fleet"
)

type Agent struct {
	Config *Config
	Probe  Probe
	Sender Sender
	Now    func() time.Time
}

// New wires the system probe and the transport selected by the config.
func New(cfg *Config) (*Agent, error) {
	sender, err := NewSender(cfg)
	if err != nil {
		return nil, err
	}
	return &Agent{Config: cfg, Probe: NewSystemProbe(), Sender: sender}, nil
}

// Run collects and sends one report. Only collection errors are returned;
// delivery is attempted once and a failure is logged.
func (a *Agent) Run(ctx context.Context) error {
	logger := common.GetLoggerWith(common.LoggerNameAgent, zap.String("rig_id", a.Config.RigID))

	collector := &Collector{Config: a.Config, Probe: a.Probe, Now: a.Now}
	logger.Info("Agent run", zap.String("at", fleet.FormatTimestamp(time.Now())))

	report, err := collector.Collect(ctx)
	if err != nil {
		return err
	}

	logger.Info("Sending rig status to server", zap.String("server_url", a.Config.ServerURL))

	sendCtx, cancel := context.WithTimeout(ctx, a.Config.Timeout())
	defer cancel()

	if err := a.Sender.Send(sendCtx, report); err != nil {
		logger.Error("Failed to deliver heartbeat", zap.Error(err))
		return nil
	}

	logger.Info("Heartbeat delivered")
	return nil
}
