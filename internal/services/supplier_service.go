package services

import (
	"context"
	"fmt"
	"log/slog"

	"ordercli/internal/engine"
	"ordercli/internal/store"
)

// SupplierService provides supplier configuration access
type SupplierService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSupplierService creates a new supplier service
func NewSupplierService(st *store.Store, logger *slog.Logger) *SupplierService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SupplierService{
		store:  st,
		logger: logger.With(slog.String("service", "supplier")),
	}
}

// List returns all configured suppliers
func (s *SupplierService) List(ctx context.Context) ([]*store.Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

// Get loads one supplier by slug
func (s *SupplierService) Get(ctx context.Context, slug string) (*store.Supplier, error) {
	return s.store.GetSupplier(ctx, slug)
}

// Create inserts a new supplier
func (s *SupplierService) Create(ctx context.Context, supplier *store.Supplier) error {
	return s.store.CreateSupplier(ctx, supplier)
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, slug string) error {
	return s.store.DeleteSupplier(ctx, slug)
}

// GetProfile returns the supplier's transformation profile for a mode
func (s *SupplierService) GetProfile(ctx context.Context, slug string, mode engine.Mode) (engine.Profile, error) {
	supplier, err := s.store.GetSupplier(ctx, slug)
	if err != nil {
		return engine.Profile{}, err
	}
	return supplier.ProfileFor(mode)
}

// UpdateProfile validates and stores a new profile for one mode
func (s *SupplierService) UpdateProfile(ctx context.Context, slug string, mode engine.Mode, profile engine.Profile) error {
	profile.Mode = mode
	if err := profile.Validate(); err != nil {
		return err
	}

	supplier, err := s.store.GetSupplier(ctx, slug)
	if err != nil {
		return err
	}

	switch mode {
	case engine.ModeDisplay:
		supplier.DisplayProfile = profile
	case engine.ModePrint:
		supplier.PrintProfile = profile
	case engine.ModeExport:
		supplier.ExportProfile = profile
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	if err := s.store.UpdateSupplier(ctx, supplier); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("supplier", slug),
		slog.String("mode", string(mode)))
	return nil
}
