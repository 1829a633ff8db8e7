package fleet

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/vigilant/pkg/db"
	"liyu1981.xyz/vigilant/pkg/fleet/mocks"
	"liyu1981.xyz/vigilant/pkg/models"
)

func GetMockFleetWithMemorySqliteDialector(t *testing.T, useMockIRegistry, useMockIIngestor, useMockIQuery bool) (
	*gomock.Controller,
	*Fleet,
	*mocks.MockIRegistry,
	*mocks.MockIIngestor,
	*mocks.MockIQuery,
) {
	ctrl := gomock.NewController(t)

	mockIRegistry := mocks.NewMockIRegistry(ctrl)
	mockIIngestor := mocks.NewMockIIngestor(ctrl)
	mockIQuery := mocks.NewMockIQuery(ctrl)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector(uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbInstance.Close() })

	fleetInstance := &Fleet{Db: *dbInstance}

	registryService := fleetInstance.GetIRegistry()
	if useMockIRegistry {
		registryService = mockIRegistry
	}

	ingestorService := fleetInstance.GetIIngestor()
	if useMockIIngestor {
		ingestorService = mockIIngestor
	}

	queryService := fleetInstance.GetIQuery()
	if useMockIQuery {
		queryService = mockIQuery
	}

	fleetInstance.WithServices(ServiceOpts{
		Registry: registryService,
		Ingestor: ingestorService,
		Query:    queryService,
	})

	return ctrl, fleetInstance, mockIRegistry, mockIIngestor, mockIQuery
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func countRows(t *testing.T, f *Fleet, model any, rigID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.Db.Conn.Model(model).Where("rig_id = ?", rigID).Count(&count).Error)
	return count
}

func mustIngest(t *testing.T, f *Fleet, report models.Report) *models.Ack {
	t.Helper()
	ack, err := f.Ingestor.Ingest(t.Context(), report)
	require.NoError(t, err)
	return ack
}
