// This file defines the inventory view over the materials table: the full
// part record with type, status, serial, warranty, condition and image
// reference, plus the aggregate summary the dashboard renders. Timestamps
// are kept as text the way the database returns them; warranty_date is
// date-as-text by contract.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mouradf/it-asset-tracker/internal/database"
)

// Part statuses and conditions accepted by the service. Stored as TEXT so
// rows written by earlier iterations still read back.
const (
	PartStatusAvailable      = "Available"
	PartStatusDispatched     = "Dispatched"
	PartStatusNeedsAttention = "Needs Attention"
)

// Part is the full inventory row shape of the materials table.
type Part struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"part_name"`
	Quantity     int     `json:"quantity"`
	Unit         *string `json:"unit,omitempty"`
	TaskID       *uint64 `json:"task_id,omitempty"`
	PartType     *string `json:"part_type"`
	Status       string  `json:"status"`
	SerialNumber *string `json:"serial_number"`
	WarrantyDate *string `json:"warranty_date"`
	Condition    string  `json:"condition"`
	ImagePath    *string `json:"image_path"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

// TypeCount is one byType bucket of the inventory summary.
type TypeCount struct {
	PartType string `json:"part_type"`
	Count    int    `json:"count"`
}

// Summary aggregates current inventory contents. Field names follow the
// dashboard contract.
type Summary struct {
	Total          int         `json:"total"`
	Available      int         `json:"available"`
	Dispatched     int         `json:"dispatched"`
	NeedsAttention int         `json:"needsAttention"`
	ByType         []TypeCount `json:"byType"`
}

// InventoryRepo serves the full inventory columns of the materials table.
type InventoryRepo struct {
	db *database.DB
}

// NewInventoryRepo constructs an InventoryRepo with the provided DB handle.
func NewInventoryRepo(db *database.DB) *InventoryRepo { return &InventoryRepo{db: db} }

const partColumns = "id, name, quantity, unit, task_id, part_type, status, serial_number, warranty_date, condition, image_path, created_at, updated_at"

func scanPart(row interface{ Scan(...any) error }) (Part, error) {
	var p Part
	var unit, partType, status, serial, warranty, condition, image, created, updated sql.NullString
	var taskID sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &unit, &taskID, &partType,
		&status, &serial, &warranty, &condition, &image, &created, &updated)
	if err != nil {
		return Part{}, err
	}
	if unit.Valid {
		p.Unit = &unit.String
	}
	if taskID.Valid {
		v := uint64(taskID.Int64)
		p.TaskID = &v
	}
	if partType.Valid {
		p.PartType = &partType.String
	}
	p.Status = status.String
	if serial.Valid {
		p.SerialNumber = &serial.String
	}
	if warranty.Valid {
		p.WarrantyDate = &warranty.String
	}
	p.Condition = condition.String
	if image.Valid {
		p.ImagePath = &image.String
	}
	if created.Valid {
		p.CreatedAt = &created.String
	}
	if updated.Valid {
		p.UpdatedAt = &updated.String
	}
	return p, nil
}

// List returns every part ordered by id ascending.
func (r *InventoryRepo) List(ctx context.Context) ([]Part, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+partColumns+" FROM materials ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := []Part{}
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// GetByID fetches one part. Returns ErrNotFound when the id is absent.
func (r *InventoryRepo) GetByID(ctx context.Context, id uint64) (Part, error) {
	q := r.db.Rebind("SELECT " + partColumns + " FROM materials WHERE id = ?")
	p, err := scanPart(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Part{}, ErrNotFound
	}
	return p, err
}

// Create inserts a part with server-assigned timestamps, then re-reads the
// row so callers receive the fully populated record.
func (r *InventoryRepo) Create(ctx context.Context, p *Part) error {
	const q = `INSERT INTO materials
		(name, quantity, unit, task_id, part_type, status, serial_number, warranty_date, condition, image_path, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP) RETURNING id`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(q),
		p.Name, p.Quantity, p.Unit, p.TaskID, p.PartType, p.Status,
		p.SerialNumber, p.WarrantyDate, p.Condition, p.ImagePath).Scan(&p.ID)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = created
	return nil
}

// Update replaces every mutable column of the part (full-row semantics,
// last write wins) and refreshes updated_at. Returns ErrNotFound when the
// id is absent; on success the struct is re-read from the database.
func (r *InventoryRepo) Update(ctx context.Context, p *Part) error {
	const q = `UPDATE materials SET
		name = ?, quantity = ?, unit = ?, task_id = ?, part_type = ?, status = ?,
		serial_number = ?, warranty_date = ?, condition = ?, image_path = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		p.Name, p.Quantity, p.Unit, p.TaskID, p.PartType, p.Status,
		p.SerialNumber, p.WarrantyDate, p.Condition, p.ImagePath, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	updated, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = updated
	return nil
}

// Delete removes the part with the given id.
func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM materials WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Summarize computes the aggregate view directly from current table
// contents; nothing is cached server-side. Total counts rows that carry a
// part type, status counters match their literals exactly.
func (r *InventoryRepo) Summarize(ctx context.Context) (Summary, error) {
	var s Summary
	const totals = `SELECT
		COUNT(CASE WHEN part_type IS NOT NULL THEN 1 END),
		COUNT(CASE WHEN status = ? THEN 1 END),
		COUNT(CASE WHEN status = ? THEN 1 END),
		COUNT(CASE WHEN status = ? THEN 1 END)
		FROM materials`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(totals),
		PartStatusAvailable, PartStatusDispatched, PartStatusNeedsAttention).
		Scan(&s.Total, &s.Available, &s.Dispatched, &s.NeedsAttention)
	if err != nil {
		return Summary{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT part_type, COUNT(*) FROM materials WHERE part_type IS NOT NULL GROUP BY part_type ORDER BY part_type")
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	s.ByType = []TypeCount{}
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.PartType, &tc.Count); err != nil {
			return Summary{}, err
		}
		s.ByType = append(s.ByType, tc)
	}
	return s, rows.Err()
}
