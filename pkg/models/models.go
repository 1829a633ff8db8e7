package models

import (
	"time"

	"gorm.io/datatypes"
)

type RigStatus string

const (
	RigStatusOffline RigStatus = "offline"
	RigStatusOnline  RigStatus = "online"
)

type Rig struct {
	RigID     string    `gorm:"primaryKey" json:"rig_id"`
	Hostname  *string   `gorm:"column:hostname" json:"hostname"`
	IPAddress *string   `gorm:"column:ip_address" json:"ip_address"`
	FirstSeen string    `json:"first_seen"`
	LastSeen  string    `json:"last_seen"`
	Status    RigStatus `gorm:"type:varchar(10);default:'offline';check:status IN ('offline','online')" json:"status"`

	// DerivedStatus is computed at read time from LastSeen and is never stored.
	DerivedStatus RigStatus `gorm:"-" json:"derived_status,omitempty"`

	Heartbeats []Heartbeat `gorm:"foreignKey:RigID;references:RigID" json:"-"`
}

type Heartbeat struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	RigID         string         `gorm:"not null;index:idx_rig_ts,priority:1" json:"rig_id"`
	Timestamp     string         `gorm:"not null;index:idx_rig_ts,priority:2" json:"timestamp"`
	CPUPercent    *float64       `gorm:"column:cpu_percent" json:"cpu_percent"`
	MemoryPercent *float64       `gorm:"column:memory_percent" json:"memory_percent"`
	DiskPercent   *float64       `gorm:"column:disk_percent" json:"disk_percent"`
	Data          datatypes.JSON `json:"data"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ApplyGauges refreshes the gauge columns from Data, which stays the source of truth.
func (h *Heartbeat) ApplyGauges() error {
	report, err := DecodeReport(h.Data)
	if err != nil {
		return err
	}
	h.CPUPercent = report.Float(ReportKeyCPUPercent)
	h.MemoryPercent = report.Float(ReportKeyMemoryPercent)
	h.DiskPercent = report.Float(ReportKeyDiskPercent)
	return nil
}

type Ack struct {
	RigID     string `json:"rig_id"`
	Timestamp string `json:"timestamp"`
}

type RigDetail struct {
	Rig             Rig        `json:"rig"`
	LatestHeartbeat *Heartbeat `json:"latest_heartbeat"`
}

type HeartbeatPage struct {
	Heartbeats []Heartbeat `json:"heartbeats"`
	NextCursor string      `json:"next_cursor,omitempty"`
}
