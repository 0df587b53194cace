package repository

import (
	"context"
	"errors"
	"testing"
)

func TestPCRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPCRepo(db)
	ctx := context.Background()

	if n, err := repo.Count(ctx); err != nil || n != 0 {
		t.Fatalf("count on empty table = %d, %v", n, err)
	}

	pc := BranchPC{
		BranchName:  "Downtown",
		City:        "Casablanca",
		BranchCode:  "DT-01",
		DesktopName: "DT-PC-04",
		PCNumber:    "4",
		Motherboard: "ASUS PRIME B450M",
		Processor:   "Ryzen 5 3400G",
		Storage:     "SSD 256GB",
		RAM:         "8GB",
		PSU:         "450W",
		Monitor:     "Dell 22\"",
	}
	if err := repo.Create(ctx, &pc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if pc.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("count after insert = %d, want 1", n)
	}

	pc.MotherboardSerial = strPtr("MB-991")
	pc.RAM = "16GB"
	if err := repo.Update(ctx, &pc); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByID(ctx, pc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RAM != "16GB" {
		t.Fatalf("ram update lost: %q", got.RAM)
	}
	if got.MotherboardSerial == nil || *got.MotherboardSerial != "MB-991" {
		t.Fatalf("motherboard serial lost: %+v", got.MotherboardSerial)
	}

	if err := repo.Delete(ctx, pc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, pc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of deleted row, got %v", err)
	}
}
