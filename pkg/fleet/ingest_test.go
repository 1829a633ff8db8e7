package fleet

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/models"
	_ "liyu1981.xyz/vigilant/pkg/testing"
)

func TestIngest(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fleetObj.Now = func() time.Time { return now }

	ack := mustIngest(t, fleetObj, models.Report{
		"rig_id":      "R1",
		"hostname":    "H1",
		"cpu_percent": 12.5,
	})
	assert.Equal(t, "R1", ack.RigID)
	assert.Equal(t, "2025-03-01T12:00:00.000000Z", ack.Timestamp)

	var rig models.Rig
	require.NoError(t, fleetObj.Db.Conn.First(&rig, "rig_id = ?", "R1").Error)
	assert.Equal(t, models.RigStatusOnline, rig.Status)
	assert.Equal(t, ack.Timestamp, rig.FirstSeen)
	assert.Equal(t, ack.Timestamp, rig.LastSeen)
	assert.Equal(t, "H1", *rig.Hostname)
	assert.Nil(t, rig.IPAddress)

	var saved models.Heartbeat
	require.NoError(t, fleetObj.Db.Conn.Where("rig_id = ?", "R1").First(&saved).Error)
	assert.Equal(t, ack.Timestamp, saved.Timestamp)
	assert.Equal(t, 12.5, *saved.CPUPercent)
	assert.Nil(t, saved.MemoryPercent)
	assert.Nil(t, saved.DiskPercent)
	assert.JSONEq(t, `{"rig_id":"R1","hostname":"H1","cpu_percent":12.5}`, string(saved.Data))
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestIngest_NHeartbeatsOneRig(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	rigID := uuid.NewString()
	const n = 7
	for i := range n {
		mustIngest(t, fleetObj, models.Report{
			"rig_id":         rigID,
			"memory_percent": float64(i),
		})
	}

	assert.Equal(t, int64(n), countRows(t, fleetObj, &models.Heartbeat{}, rigID))
	assert.Equal(t, int64(1), countRows(t, fleetObj, &models.Rig{}, rigID))
}

func TestIngest_ConcurrentSameRig(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	rigID := uuid.NewString()
	const n = 25

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fleetObj.Ingestor.Ingest(t.Context(), models.Report{
				"rig_id":   rigID,
				"hostname": fmt.Sprintf("host-%d", i),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), countRows(t, fleetObj, &models.Heartbeat{}, rigID))
	assert.Equal(t, int64(1), countRows(t, fleetObj, &models.Rig{}, rigID))
}

func TestIngest_MissingRigID(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	for _, report := range []models.Report{
		{},
		{"rig_id": ""},
		{"rig_id": nil},
		{"rig_id": 17.0},
		{"hostname": "H1", "cpu_percent": 1.0},
	} {
		ack, err := fleetObj.Ingestor.Ingest(t.Context(), report)
		assert.Nil(t, ack)
		assert.ErrorIs(t, err, ErrMissingRigID)
	}

	var rigs, heartbeats int64
	require.NoError(t, fleetObj.Db.Conn.Model(&models.Rig{}).Count(&rigs).Error)
	require.NoError(t, fleetObj.Db.Conn.Model(&models.Heartbeat{}).Count(&heartbeats).Error)
	assert.Zero(t, rigs)
	assert.Zero(t, heartbeats)
}

func TestIngest_Timestamps(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	rigID := uuid.NewString()

	{
		// offsets are normalized to UTC, the blob keeps the original value
		ack := mustIngest(t, fleetObj, models.Report{"rig_id": rigID, "timestamp": "2024-03-01T10:00:00+02:00"})
		assert.Equal(t, "2024-03-01T08:00:00.000000Z", ack.Timestamp)

		var saved models.Heartbeat
		require.NoError(t, fleetObj.Db.Conn.Where("rig_id = ?", rigID).Last(&saved).Error)
		assert.Contains(t, string(saved.Data), "2024-03-01T10:00:00+02:00")
	}

	{
		// naive timestamps are read as UTC
		ack := mustIngest(t, fleetObj, models.Report{"rig_id": rigID, "timestamp": "2024-03-01T10:00:00.5"})
		assert.Equal(t, "2024-03-01T10:00:00.500000Z", ack.Timestamp)
	}

	{
		// null means absent
		fleetObj.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC) }
		ack := mustIngest(t, fleetObj, models.Report{"rig_id": rigID, "timestamp": nil})
		assert.Equal(t, "2025-01-02T03:04:05.000006Z", ack.Timestamp)
	}

	before := countRows(t, fleetObj, &models.Heartbeat{}, rigID)

	for _, bad := range []any{"yesterday", "", 1700000000.0, true} {
		_, err := fleetObj.Ingestor.Ingest(t.Context(), models.Report{"rig_id": rigID, "timestamp": bad})
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "%v", bad)
	}

	assert.Equal(t, before, countRows(t, fleetObj, &models.Heartbeat{}, rigID), "rejected reports are not stored")
}

func TestIngest_RegistryFailureStoresNothing(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, mockIRegistry, _, _ := GetMockFleetWithMemorySqliteDialector(t, true, false, false)
	defer ctrl.Finish()

	rigID := uuid.NewString()

	mockIRegistry.EXPECT().
		UpsertRig(gomock.Any(), gomock.Eq(rigID), gomock.Any()).
		Return(errors.New("disk I/O error")).
		Times(1)

	ack, err := fleetObj.Ingestor.Ingest(t.Context(), models.Report{"rig_id": rigID})
	assert.Nil(t, ack)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Zero(t, countRows(t, fleetObj, &models.Heartbeat{}, rigID))
}

func TestIngest_SampleFailureRollsBackRig(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	err := fleetObj.Db.Conn.Callback().Create().Before("gorm:create").Register("test:fail_heartbeats", func(tx *gorm.DB) {
		if tx.Statement.Table == "heartbeats" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	rigID := uuid.NewString()
	_, err = fleetObj.Ingestor.Ingest(t.Context(), models.Report{"rig_id": rigID, "hostname": "H1"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	assert.Zero(t, countRows(t, fleetObj, &models.Rig{}, rigID), "rig upsert must roll back with the sample")
	assert.Zero(t, countRows(t, fleetObj, &models.Heartbeat{}, rigID))
}

func TestIngest_RegistryReceivesIdentity(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, mockIRegistry, _, _ := GetMockFleetWithMemorySqliteDialector(t, true, false, false)
	defer ctrl.Finish()

	rigID := uuid.NewString()

	mockIRegistry.EXPECT().
		UpsertRig(gomock.Not(gomock.Nil()), gomock.Eq(rigID), gomock.Any()).
		DoAndReturn(func(conn *gorm.DB, id string, input *models.Rig) error {
			assert.Equal(t, "H1", *input.Hostname)
			assert.Equal(t, "10.1.1.1", *input.IPAddress)
			assert.Equal(t, "2024-01-01T00:00:00.000000Z", input.LastSeen)
			return fleetObj.GetIRegistry().UpsertRig(conn, id, input)
		}).
		Times(1)

	mustIngest(t, fleetObj, models.Report{
		"rig_id":     rigID,
		"hostname":   "H1",
		"ip_address": "10.1.1.1",
		"timestamp":  "2024-01-01T00:00:00Z",
	})
	assert.Equal(t, int64(1), countRows(t, fleetObj, &models.Heartbeat{}, rigID))
}

func TestIngest_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	rigID := uuid.NewString()
	mustIngest(t, fleetObj, models.Report{"rig_id": rigID})

	logs := ParseLogs(buf)

	for _, msg := range []string{"Received heartbeat for rig", "Stored heartbeat for rig"} {
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "ingest" &&
				lobj["logger"] == "fleet_core" &&
				lobj["msg"] == msg &&
				lobj["rig_id"] == rigID {
				found = true
			}
		}
		assert.True(t, found, "log %q not found", msg)
	}
}

func TestIngest_ConcurrentWithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, fleetObj, _, _, _ := GetMockFleetWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	rigIDs := []string{uuid.NewString(), uuid.NewString()}
	const perRig = 8

	var wg sync.WaitGroup
	for i := range perRig * len(rigIDs) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fleetObj.Ingestor.Ingest(t.Context(), models.Report{"rig_id": rigIDs[i%len(rigIDs)]})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := 0
	for _, log := range ParseLogs(buf) {
		if log.(map[string]any)["msg"] == "Stored heartbeat for rig" {
			stored++
		}
	}
	assert.Equal(t, perRig*len(rigIDs), stored)
	for _, rigID := range rigIDs {
		assert.Equal(t, int64(perRig), countRows(t, fleetObj, &models.Heartbeat{}, rigID))
	}
}
