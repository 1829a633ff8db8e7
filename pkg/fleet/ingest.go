package fleet

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/models"
)

func (f *Fleet) ingest(ctx context.Context, report models.Report) (*models.Ack, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameFleetCore,
		zap.String(common.LoggerFieldFleetCategory, common.LoggerCategoryFleetIngest),
	)

	rigID, ok := report.RigID()
	if !ok {
		return nil, ErrMissingRigID
	}

	timestamp, err := resolveTimestamp(report, f.now())
	if err != nil {
		logger.Info("Rejected heartbeat", zap.String("rig_id", rigID), zap.Error(err))
		return nil, err
	}

	blob, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	heartbeat := models.Heartbeat{
		RigID:     rigID,
		Timestamp: timestamp,
		Data:      blob,
	}
	if err := heartbeat.ApplyGauges(); err != nil {
		return nil, fmt.Errorf("project gauges: %w", err)
	}

	logger.Info("Received heartbeat for rig",
		zap.String("rig_id", rigID),
		zap.String("timestamp", timestamp),
	)

	if f.Registry == nil {
		return nil, fmt.Errorf("registry service not available")
	}

	err = f.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := f.Registry.UpsertRig(tx, rigID, &models.Rig{
			Hostname:  report.String(models.ReportKeyHostname),
			IPAddress: report.String(models.ReportKeyIPAddress),
			LastSeen:  timestamp,
		}); err != nil {
			return err
		}
		return tx.Create(&heartbeat).Error
	})
	if err != nil {
		logger.Error("Failed to store heartbeat", zap.String("rig_id", rigID), zap.Error(err))
		return nil, storageError("store heartbeat", err)
	}

	logger.Info("Stored heartbeat for rig",
		zap.String("rig_id", rigID),
		zap.Uint("heartbeat_id", heartbeat.ID),
	)

	return &models.Ack{RigID: rigID, Timestamp: timestamp}, nil
}

type IIngestorImpl struct {
	fleet *Fleet
}

func (ii *IIngestorImpl) Ingest(ctx context.Context, report models.Report) (*models.Ack, error) {
	return ii.fleet.ingest(ctx, report)
}

func (f *Fleet) GetIIngestor() IIngestor {
	return &IIngestorImpl{fleet: f}
}
