package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ordercli/internal/engine"
	apperrors "ordercli/internal/errors"
)

// Supplier is one configured supplier: identity, file selection
// patterns, the minimum order threshold and one transformation profile
// per consumer mode.
type Supplier struct {
	ID             int64          `json:"id"`
	Slug           string         `json:"slug"`
	Name           string         `json:"name"`
	FilePatterns   []string       `json:"file_patterns"`
	MinOrderAmount float64        `json:"min_order_amount"`
	Active         bool           `json:"active"`
	DisplayProfile engine.Profile `json:"display_config"`
	PrintProfile   engine.Profile `json:"print_config"`
	ExportProfile  engine.Profile `json:"import_config"`
	// WebConfig holds the supplier portal login selectors as an opaque
	// blob; the automation package owns its shape.
	WebConfig json.RawMessage `json:"web_config,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProfileFor returns the supplier's profile for a consumer mode
func (s *Supplier) ProfileFor(mode engine.Mode) (engine.Profile, error) {
	switch mode {
	case engine.ModeDisplay:
		return s.DisplayProfile, nil
	case engine.ModePrint:
		return s.PrintProfile, nil
	case engine.ModeExport:
		return s.ExportProfile, nil
	default:
		return engine.Profile{}, fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidProfile, mode)
	}
}

// CreateSupplier inserts a supplier. Missing profiles are filled with
// the stock defaults for their mode.
func (s *Store) CreateSupplier(ctx context.Context, supplier *Supplier) error {
	applyProfileDefaults(supplier)

	displayCfg, printCfg, exportCfg, patterns, err := marshalSupplier(supplier)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (slug, name, file_patterns, min_order_amount, active, display_config, print_config, import_config, web_config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		supplier.Slug, supplier.Name, patterns, supplier.MinOrderAmount,
		supplier.Active, displayCfg, printCfg, exportCfg, webConfigValue(supplier))
	if err != nil {
		return fmt.Errorf("insert supplier %s: %w", supplier.Slug, err)
	}

	supplier.ID, _ = result.LastInsertId()
	s.logger.InfoContext(ctx, "supplier created",
		slog.String("slug", supplier.Slug),
		slog.Int64("id", supplier.ID))
	return nil
}

// GetSupplier loads a supplier by slug
func (s *Store) GetSupplier(ctx context.Context, slug string) (*Supplier, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, file_patterns, min_order_amount, active,
		       display_config, print_config, import_config, web_config, created_at, updated_at
		FROM suppliers WHERE slug = ?`, slug)

	supplier, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSupplierUnknown, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("load supplier %s: %w", slug, err)
	}
	return supplier, nil
}

// ListSuppliers returns all suppliers, active ones first, sorted by name
func (s *Store) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, name, file_patterns, min_order_amount, active,
		       display_config, print_config, import_config, web_config, created_at, updated_at
		FROM suppliers ORDER BY active DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("list suppliers: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

// UpdateSupplier rewrites a supplier record identified by its slug
func (s *Store) UpdateSupplier(ctx context.Context, supplier *Supplier) error {
	applyProfileDefaults(supplier)

	displayCfg, printCfg, exportCfg, patterns, err := marshalSupplier(supplier)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = ?, file_patterns = ?, min_order_amount = ?, active = ?,
		    display_config = ?, print_config = ?, import_config = ?, web_config = ?,
		    updated_at = datetime('now')
		WHERE slug = ?`,
		supplier.Name, patterns, supplier.MinOrderAmount, supplier.Active,
		displayCfg, printCfg, exportCfg, webConfigValue(supplier), supplier.Slug)
	if err != nil {
		return fmt.Errorf("update supplier %s: %w", supplier.Slug, err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrSupplierUnknown, supplier.Slug)
	}

	s.logger.InfoContext(ctx, "supplier updated", slog.String("slug", supplier.Slug))
	return nil
}

// DeleteSupplier removes a supplier by slug
func (s *Store) DeleteSupplier(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("delete supplier %s: %w", slug, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrSupplierUnknown, slug)
	}
	s.logger.InfoContext(ctx, "supplier deleted", slog.String("slug", slug))
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplier(row rowScanner) (*Supplier, error) {
	var (
		supplier Supplier
		patterns string
		displayCfg, printCfg, exportCfg sql.NullString
		webCfg                          sql.NullString
		createdAt, updatedAt            string
	)

	err := row.Scan(&supplier.ID, &supplier.Slug, &supplier.Name, &patterns,
		&supplier.MinOrderAmount, &supplier.Active,
		&displayCfg, &printCfg, &exportCfg, &webCfg, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(patterns), &supplier.FilePatterns); err != nil {
		return nil, fmt.Errorf("decode file_patterns: %w", err)
	}

	if supplier.DisplayProfile, err = unmarshalProfile(displayCfg, engine.ModeDisplay); err != nil {
		return nil, err
	}
	if supplier.PrintProfile, err = unmarshalProfile(printCfg, engine.ModePrint); err != nil {
		return nil, err
	}
	if supplier.ExportProfile, err = unmarshalProfile(exportCfg, engine.ModeExport); err != nil {
		return nil, err
	}

	if webCfg.Valid && webCfg.String != "" {
		supplier.WebConfig = json.RawMessage(webCfg.String)
	}

	supplier.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
	supplier.UpdatedAt, _ = time.Parse("2006-01-02 15:04:05", updatedAt)

	return &supplier, nil
}

// unmarshalProfile decodes a stored profile blob, falling back to the
// stock profile for the mode when the column is NULL.
func unmarshalProfile(blob sql.NullString, mode engine.Mode) (engine.Profile, error) {
	if !blob.Valid || blob.String == "" {
		return engine.DefaultsForMode(mode)
	}

	var profile engine.Profile
	if err := json.Unmarshal([]byte(blob.String), &profile); err != nil {
		return engine.Profile{}, fmt.Errorf("decode %s profile: %w", mode, err)
	}
	profile.Mode = mode
	return profile, nil
}

func marshalSupplier(supplier *Supplier) (displayCfg, printCfg, exportCfg, patterns string, err error) {
	marshal := func(v interface{}, what string) (string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", what, err)
		}
		return string(data), nil
	}

	if supplier.FilePatterns == nil {
		supplier.FilePatterns = []string{}
	}
	if patterns, err = marshal(supplier.FilePatterns, "file_patterns"); err != nil {
		return
	}
	if displayCfg, err = marshal(supplier.DisplayProfile, "display profile"); err != nil {
		return
	}
	if printCfg, err = marshal(supplier.PrintProfile, "print profile"); err != nil {
		return
	}
	exportCfg, err = marshal(supplier.ExportProfile, "export profile")
	return
}

// webConfigValue maps an absent portal configuration to NULL
func webConfigValue(supplier *Supplier) interface{} {
	if len(supplier.WebConfig) == 0 {
		return nil
	}
	return string(supplier.WebConfig)
}

func applyProfileDefaults(supplier *Supplier) {
	if supplier.DisplayProfile.Mode == "" {
		supplier.DisplayProfile = engine.DisplayDefaults()
	}
	if supplier.PrintProfile.Mode == "" {
		supplier.PrintProfile = engine.PrintDefaults()
	}
	if supplier.ExportProfile.Mode == "" {
		supplier.ExportProfile = engine.ExportDefaults()
	}
}
