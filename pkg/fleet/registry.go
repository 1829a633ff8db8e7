package fleet

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/models"
)

// columns overwritten when the rig already exists; first_seen is kept
var rigUpdateColumns = []string{"hostname", "ip_address", "last_seen", "status"}

func (f *Fleet) upsertRig(conn *gorm.DB, rigID string, input *models.Rig) error {
	logger := common.GetLoggerWith(
		common.LoggerNameFleetCore,
		zap.String(common.LoggerFieldFleetCategory, common.LoggerCategoryFleetRig),
	)

	if conn == nil {
		conn = f.Db.Conn
	}

	rig := models.Rig{
		RigID:     rigID,
		Hostname:  input.Hostname,
		IPAddress: input.IPAddress,
		FirstSeen: input.LastSeen,
		LastSeen:  input.LastSeen,
		Status:    models.RigStatusOnline,
	}

	// a single INSERT .. ON CONFLICT statement, so concurrent first contacts
	// for one rig_id coalesce on the primary key instead of racing
	err := conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rig_id"}},
		DoUpdates: clause.AssignmentColumns(rigUpdateColumns),
	}).Create(&rig).Error
	if err != nil {
		logger.Error("Failed to upsert rig", zap.String("rig_id", rigID), zap.Error(err))
		return storageError("upsert rig", err)
	}

	logger.Debug("Upserted rig",
		zap.String("rig_id", rigID),
		zap.String("hostname", common.Deref(rig.Hostname)),
		zap.String("ip_address", common.Deref(rig.IPAddress)),
		zap.String("last_seen", rig.LastSeen),
	)
	return nil
}

type IRegistryImpl struct {
	fleet *Fleet
}

func (ir *IRegistryImpl) UpsertRig(conn *gorm.DB, rigID string, input *models.Rig) error {
	return ir.fleet.upsertRig(conn, rigID, input)
}

func (f *Fleet) GetIRegistry() IRegistry {
	return &IRegistryImpl{fleet: f}
}
