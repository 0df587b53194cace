// This file exposes the legacy materials view over the shared materials
// table: just name, quantity, unit and the optional task link. The newer
// inventory columns on the same table are served by InventoryRepo; the two
// views coexist so old page scripts keep working against /materials.
package repository

import (
	"context"
	"database/sql"

	"github.com/mouradf/it-asset-tracker/internal/database"
)

// Material is the legacy row shape of the materials table.
type Material struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Unit     *string `json:"unit"`
	TaskID   *uint64 `json:"taskId"`
}

// MaterialRepo serves the legacy subset of materials columns.
type MaterialRepo struct {
	db *database.DB
}

// NewMaterialRepo constructs a MaterialRepo with the provided DB handle.
func NewMaterialRepo(db *database.DB) *MaterialRepo { return &MaterialRepo{db: db} }

// List returns all materials in the legacy shape, ordered by id.
func (r *MaterialRepo) List(ctx context.Context) ([]Material, error) {
	const q = "SELECT id, name, quantity, unit, task_id FROM materials ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Material{}
	for rows.Next() {
		var m Material
		var unit sql.NullString
		var taskID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Name, &m.Quantity, &unit, &taskID); err != nil {
			return nil, err
		}
		if unit.Valid {
			m.Unit = &unit.String
		}
		if taskID.Valid {
			v := uint64(taskID.Int64)
			m.TaskID = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create inserts a material with the legacy columns and populates its ID.
func (r *MaterialRepo) Create(ctx context.Context, m *Material) error {
	const q = "INSERT INTO materials (name, quantity, unit, task_id) VALUES (?,?,?,?) RETURNING id"
	return r.db.QueryRowContext(ctx, r.db.Rebind(q),
		m.Name, m.Quantity, m.Unit, m.TaskID).Scan(&m.ID)
}

// Update rewrites the legacy columns of the material with the given id.
// Returns ErrNotFound when no row matched.
func (r *MaterialRepo) Update(ctx context.Context, m *Material) error {
	const q = "UPDATE materials SET name = ?, quantity = ?, unit = ?, task_id = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		m.Name, m.Quantity, m.Unit, m.TaskID, m.ID)
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

// Delete removes the material with the given id.
func (r *MaterialRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM materials WHERE id = ?"
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), id)
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
