package fleet

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/models"
)

const (
	DefaultHeartbeatPageSize = 100
	MaxHeartbeatPageSize     = 1000
)

func (f *Fleet) listRigs(ctx context.Context) ([]models.Rig, error) {
	rigs := []models.Rig{}
	// rowid is the insertion order of the rigs table
	if err := f.Db.Conn.WithContext(ctx).Order("rowid").Find(&rigs).Error; err != nil {
		return nil, storageError("list rigs", err)
	}

	for i := range rigs {
		f.projectStatus(&rigs[i])
	}
	return rigs, nil
}

func (f *Fleet) getRig(ctx context.Context, rigID string) (*models.RigDetail, error) {
	conn := f.Db.Conn.WithContext(ctx)

	var rig models.Rig
	if err := conn.First(&rig, "rig_id = ?", rigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRigNotFound
		}
		return nil, storageError("get rig", err)
	}
	f.projectStatus(&rig)

	var latest []models.Heartbeat
	err := conn.
		Where("rig_id = ?", rigID).
		Order("timestamp desc").
		Order("id desc").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return nil, storageError("get latest heartbeat", err)
	}

	detail := &models.RigDetail{Rig: rig}
	if len(latest) > 0 {
		detail.LatestHeartbeat = &latest[0]
	} else {
		common.GetLoggerWith(
			common.LoggerNameFleetCore,
			zap.String(common.LoggerFieldFleetCategory, common.LoggerCategoryFleetQuery),
		).Warn("Rig has no heartbeats", zap.String("rig_id", rigID))
	}
	return detail, nil
}

func (f *Fleet) listHeartbeats(ctx context.Context, rigID string, limit int, cursor string) (*models.HeartbeatPage, error) {
	if limit <= 0 {
		limit = DefaultHeartbeatPageSize
	}
	if limit > MaxHeartbeatPageSize {
		limit = MaxHeartbeatPageSize
	}

	before, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	conn := f.Db.Conn.WithContext(ctx)

	var count int64
	if err := conn.Model(&models.Rig{}).Where("rig_id = ?", rigID).Count(&count).Error; err != nil {
		return nil, storageError("count rig", err)
	}
	if count == 0 {
		return nil, ErrRigNotFound
	}

	q := conn.Where("rig_id = ?", rigID)
	if before > 0 {
		q = q.Where("id < ?", before)
	}

	rows := []models.Heartbeat{}
	if err := q.Order("id desc").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, storageError("list heartbeats", err)
	}

	page := &models.HeartbeatPage{Heartbeats: rows}
	if len(rows) > limit {
		page.Heartbeats = rows[:limit]
		page.NextCursor = EncodeCursor(rows[limit-1].ID)
	}
	return page, nil
}

// projectStatus fills the derived status from last_seen. It leaves the stored
// status alone and does nothing unless a staleness threshold is configured.
func (f *Fleet) projectStatus(rig *models.Rig) {
	if f.StaleAfter <= 0 {
		return
	}

	rig.DerivedStatus = models.RigStatusOffline
	lastSeen, err := ParseTimestamp(rig.LastSeen)
	if err != nil {
		return
	}
	if f.now().Sub(lastSeen) < f.StaleAfter {
		rig.DerivedStatus = models.RigStatusOnline
	}
}

type IQueryImpl struct {
	fleet *Fleet
}

func (iq *IQueryImpl) ListRigs(ctx context.Context) ([]models.Rig, error) {
	return iq.fleet.listRigs(ctx)
}

func (iq *IQueryImpl) GetRig(ctx context.Context, rigID string) (*models.RigDetail, error) {
	return iq.fleet.getRig(ctx, rigID)
}

func (iq *IQueryImpl) ListHeartbeats(ctx context.Context, rigID string, limit int, cursor string) (*models.HeartbeatPage, error) {
	return iq.fleet.listHeartbeats(ctx, rigID, limit, cursor)
}

func (f *Fleet) GetIQuery() IQuery {
	return &IQueryImpl{fleet: f}
}
