package fleet

//go:generate mockgen -source=fleet.go -destination=mocks/mock_fleet.go -package=mocks

import (
	"context"
	"time"

	"gorm.io/gorm"
	"liyu1981.xyz/vigilant/pkg/db"
	"liyu1981.xyz/vigilant/pkg/models"
)

type IRegistry interface {
	// UpsertRig runs on conn, which is the enclosing transaction when called
	// from the ingestor.
	UpsertRig(conn *gorm.DB, rigID string, input *models.Rig) error
}

type IIngestor interface {
	Ingest(ctx context.Context, report models.Report) (*models.Ack, error)
}

type IQuery interface {
	ListRigs(ctx context.Context) ([]models.Rig, error)
	GetRig(ctx context.Context, rigID string) (*models.RigDetail, error)
	ListHeartbeats(ctx context.Context, rigID string, limit int, cursor string) (*models.HeartbeatPage, error)
}

type Fleet struct {
	Db       db.DB
	Registry IRegistry
	Ingestor IIngestor
	Query    IQuery

	// StaleAfter enables the read-time derived status when positive.
	StaleAfter time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type ServiceOpts struct {
	Registry IRegistry
	Ingestor IIngestor
	Query    IQuery
}

func (f *Fleet) WithServices(opts ServiceOpts) *Fleet {
	if opts.Registry != nil {
		f.Registry = opts.Registry
	}
	if opts.Ingestor != nil {
		f.Ingestor = opts.Ingestor
	}
	if opts.Query != nil {
		f.Query = opts.Query
	}
	return f
}

// WithDefaultServices wires the database backed implementations.
func (f *Fleet) WithDefaultServices() *Fleet {
	return f.WithServices(ServiceOpts{
		Registry: f.GetIRegistry(),
		Ingestor: f.GetIIngestor(),
		Query:    f.GetIQuery(),
	})
}

func (f *Fleet) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
