// This file defines the BranchPC model and repository. A BranchPC is one
// machine in a branch office; branch name and city are denormalized free
// text, not foreign keys. Rows arrive through the API or through the
// one-time CSV bootstrap.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mouradf/it-asset-tracker/internal/database"
)

// BranchPC mirrors the 'branch_pcs' table.
type BranchPC struct {
	ID                uint64  `json:"id"`
	BranchName        string  `json:"branch_name"`
	City              string  `json:"city"`
	BranchCode        string  `json:"branch_code"`
	DesktopName       string  `json:"desktop_name"`
	PCNumber          string  `json:"pc_number"`
	Motherboard       string  `json:"motherboard"`
	MotherboardSerial *string `json:"motherboard_serial"`
	Processor         string  `json:"processor"`
	Storage           string  `json:"storage"`
	RAM               string  `json:"ram"`
	PSU               string  `json:"psu"`
	Monitor           string  `json:"monitor"`
	ImagePath         *string `json:"pc_image_path"`
}

// PCRepo encapsulates all database queries related to branch PCs.
type PCRepo struct {
	db *database.DB
}

// NewPCRepo constructs a PCRepo with the provided DB handle.
func NewPCRepo(db *database.DB) *PCRepo { return &PCRepo{db: db} }

const pcColumns = "id, branch_name, city, branch_code, desktop_name, pc_number, motherboard, motherboard_serial, processor, storage, ram, psu, monitor, pc_image_path"

func scanPC(row interface{ Scan(...any) error }) (BranchPC, error) {
	var p BranchPC
	var branch, city, code, desktop, number, mobo, proc, store, ram, psu, monitor sql.NullString
	var moboSerial, image sql.NullString
	err := row.Scan(&p.ID, &branch, &city, &code, &desktop, &number, &mobo,
		&moboSerial, &proc, &store, &ram, &psu, &monitor, &image)
	if err != nil {
		return BranchPC{}, err
	}
	p.BranchName = branch.String
	p.City = city.String
	p.BranchCode = code.String
	p.DesktopName = desktop.String
	p.PCNumber = number.String
	p.Motherboard = mobo.String
	if moboSerial.Valid {
		p.MotherboardSerial = &moboSerial.String
	}
	p.Processor = proc.String
	p.Storage = store.String
	p.RAM = ram.String
	p.PSU = psu.String
	p.Monitor = monitor.String
	if image.Valid {
		p.ImagePath = &image.String
	}
	return p, nil
}

// Count reports how many PC rows exist; the CSV bootstrap only runs
// against an empty table.
func (r *PCRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM branch_pcs").Scan(&n)
	return n, err
}

// List returns every PC ordered by id ascending.
func (r *PCRepo) List(ctx context.Context) ([]BranchPC, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+pcColumns+" FROM branch_pcs ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pcs := []BranchPC{}
	for rows.Next() {
		p, err := scanPC(rows)
		if err != nil {
			return nil, err
		}
		pcs = append(pcs, p)
	}
	return pcs, rows.Err()
}

// GetByID fetches one PC. Returns ErrNotFound when the id is absent.
func (r *PCRepo) GetByID(ctx context.Context, id uint64) (BranchPC, error) {
	q := r.db.Rebind("SELECT " + pcColumns + " FROM branch_pcs WHERE id = ?")
	p, err := scanPC(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return BranchPC{}, ErrNotFound
	}
	return p, err
}

// Create inserts a PC and populates its ID.
func (r *PCRepo) Create(ctx context.Context, p *BranchPC) error {
	const q = `INSERT INTO branch_pcs
		(branch_name, city, branch_code, desktop_name, pc_number, motherboard, motherboard_serial, processor, storage, ram, psu, monitor, pc_image_path)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?) RETURNING id`
	return r.db.QueryRowContext(ctx, r.db.Rebind(q),
		p.BranchName, p.City, p.BranchCode, p.DesktopName, p.PCNumber,
		p.Motherboard, p.MotherboardSerial, p.Processor, p.Storage,
		p.RAM, p.PSU, p.Monitor, p.ImagePath).Scan(&p.ID)
}

// Update replaces every mutable column of the PC (full-row semantics).
// Returns ErrNotFound when the id is absent.
func (r *PCRepo) Update(ctx context.Context, p *BranchPC) error {
	const q = `UPDATE branch_pcs SET
		branch_name = ?, city = ?, branch_code = ?, desktop_name = ?, pc_number = ?,
		motherboard = ?, motherboard_serial = ?, processor = ?, storage = ?,
		ram = ?, psu = ?, monitor = ?, pc_image_path = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		p.BranchName, p.City, p.BranchCode, p.DesktopName, p.PCNumber,
		p.Motherboard, p.MotherboardSerial, p.Processor, p.Storage,
		p.RAM, p.PSU, p.Monitor, p.ImagePath, p.ID)
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

// Delete removes the PC with the given id.
func (r *PCRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM branch_pcs WHERE id = ?"), id)
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
