package http

import (
	"context"

	"ordercli/internal/engine"
	"ordercli/internal/services"
	"ordercli/internal/store"
	"ordercli/internal/transport/sftp"
)

// SupplierServiceInterface defines the supplier operations the handlers need
type SupplierServiceInterface interface {
	List(ctx context.Context) ([]*store.Supplier, error)
	Get(ctx context.Context, slug string) (*store.Supplier, error)
	Create(ctx context.Context, supplier *store.Supplier) error
	Delete(ctx context.Context, slug string) error
	GetProfile(ctx context.Context, slug string, mode engine.Mode) (engine.Profile, error)
	UpdateProfile(ctx context.Context, slug string, mode engine.Mode, profile engine.Profile) error
}

// OrderServiceInterface defines the file and pipeline operations the handlers need
type OrderServiceInterface interface {
	RefreshFiles(ctx context.Context) ([]sftp.FileInfo, error)
	ListFiles(supplier *store.Supplier) []sftp.FileInfo
	Process(ctx context.Context, req services.ProcessRequest) (*services.ProcessResult, error)
}

// StatsServiceInterface defines the aggregation operations the handlers need
type StatsServiceInterface interface {
	Summarize(ctx context.Context, supplierSlug string, fileNames []string) (*services.StatsSummary, error)
}

// HealthServiceInterface defines the health check the handlers need
type HealthServiceInterface interface {
	Health(ctx context.Context) *services.HealthStatus
}
