package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportAccessors(t *testing.T) {
	report, err := DecodeReport([]byte(`{
		"rig_id": "R1",
		"hostname": "H1",
		"ip_address": 10,
		"cpu_percent": 12.5,
		"memory_percent": "41.0",
		"disk_percent": "n/a"
	}`))
	require.NoError(t, err)

	rigID, ok := report.RigID()
	assert.True(t, ok)
	assert.Equal(t, "R1", rigID)

	assert.Equal(t, "H1", *report.String(ReportKeyHostname))
	assert.Nil(t, report.String(ReportKeyIPAddress), "non-string identity is ignored")

	assert.Equal(t, 12.5, *report.Float(ReportKeyCPUPercent))
	assert.Equal(t, 41.0, *report.Float(ReportKeyMemoryPercent))
	assert.Nil(t, report.Float(ReportKeyDiskPercent))
	assert.Nil(t, report.Float("missing"))
}

func TestReportRigIDRejectsEmptyAndNonString(t *testing.T) {
	for _, body := range []string{`{}`, `{"rig_id": ""}`, `{"rig_id": null}`, `{"rig_id": 42}`} {
		report, err := DecodeReport([]byte(body))
		require.NoError(t, err)
		_, ok := report.RigID()
		assert.False(t, ok, body)
	}
}

func TestDecodeReportRejectsNonObject(t *testing.T) {
	_, err := DecodeReport([]byte(`[1,2,3]`))
	assert.Error(t, err)

	_, err = DecodeReport([]byte(`null`))
	assert.Error(t, err)

	_, err = DecodeReport([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeReportRejectsTrailingData(t *testing.T) {
	for _, body := range []string{
		`{"rig_id":"R1"} junk`,
		`{"rig_id":"R1"}{"rig_id":"R2"}`,
		`{"rig_id":"R1"}}`,
		`{"rig_id":"R1"} 1`,
	} {
		_, err := DecodeReport([]byte(body))
		assert.Error(t, err, body)
	}

	report, err := DecodeReport([]byte("{\"rig_id\":\"R1\"}\n  "))
	require.NoError(t, err)
	assert.Equal(t, "R1", report["rig_id"])
}

func TestHeartbeatApplyGauges(t *testing.T) {
	hb := Heartbeat{Data: []byte(`{"rig_id":"R1","cpu_percent":99.9,"disk_percent":3}`)}
	require.NoError(t, hb.ApplyGauges())

	assert.Equal(t, 99.9, *hb.CPUPercent)
	assert.Nil(t, hb.MemoryPercent)
	assert.Equal(t, 3.0, *hb.DiskPercent)

	hb.Data = []byte(`{"rig_id":"R1","memory_percent":50}`)
	require.NoError(t, hb.ApplyGauges())
	assert.Nil(t, hb.CPUPercent)
	assert.Equal(t, 50.0, *hb.MemoryPercent)
}

func TestRigDetailJSONShape(t *testing.T) {
	detail := RigDetail{Rig: Rig{RigID: "R1", Status: RigStatusOnline}}
	out, err := json.Marshal(detail)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"rig": {
			"rig_id": "R1",
			"hostname": null,
			"ip_address": null,
			"first_seen": "",
			"last_seen": "",
			"status": "online"
		},
		"latest_heartbeat": null
	}`, string(out))
}
