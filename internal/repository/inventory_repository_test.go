package repository

import (
	"context"
	"errors"
	"testing"
)

func TestInventoryCreateReadsBackFullRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db)
	ctx := context.Background()

	p := Part{
		Name:         "Kingston A400 480GB",
		Quantity:     3,
		PartType:     strPtr("SSD"),
		Status:       PartStatusAvailable,
		SerialNumber: strPtr("KS-480-001"),
		Condition:    "Good",
	}
	if err := repo.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if p.CreatedAt == nil || p.UpdatedAt == nil {
		t.Fatalf("expected server timestamps, got created=%v updated=%v", p.CreatedAt, p.UpdatedAt)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != p.Name || got.Status != PartStatusAvailable || *got.SerialNumber != "KS-480-001" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestInventoryUpdateReplacesRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db)
	ctx := context.Background()

	p := Part{Name: "HP 600W PSU", Quantity: 1, PartType: strPtr("PSU"), Status: PartStatusAvailable, Condition: "Good"}
	if err := repo.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}

	p.Status = PartStatusDispatched
	p.Quantity = 0
	p.SerialNumber = nil
	if err := repo.Update(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Status != PartStatusDispatched || p.Quantity != 0 {
		t.Fatalf("update not reflected in re-read: %+v", p)
	}
	if p.SerialNumber != nil {
		t.Fatalf("expected serial cleared by full-row update")
	}

	missing := Part{ID: 9999, Name: "ghost", Condition: "Good", Status: PartStatusAvailable}
	if err := repo.Update(ctx, &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInventoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db)
	ctx := context.Background()

	p := Part{Name: "DDR4 8GB", Quantity: 4, PartType: strPtr("RAM"), Status: PartStatusAvailable, Condition: "Good"}
	if err := repo.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestInventorySummarize(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db)
	ctx := context.Background()

	seed := []Part{
		{Name: "SSD A", Quantity: 1, PartType: strPtr("SSD"), Status: PartStatusAvailable, Condition: "Good"},
		{Name: "SSD B", Quantity: 1, PartType: strPtr("SSD"), Status: PartStatusDispatched, Condition: "Good"},
		{Name: "PSU A", Quantity: 1, PartType: strPtr("PSU"), Status: PartStatusNeedsAttention, Condition: "Poor"},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	// A legacy row without a part type stays out of the totals.
	legacy := NewMaterialRepo(db)
	if err := legacy.Create(ctx, &Material{Name: "cable ties", Quantity: 50}); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}

	s, err := repo.Summarize(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Total != 3 {
		t.Fatalf("total = %d, want 3", s.Total)
	}
	if s.Available != 1 || s.Dispatched != 1 || s.NeedsAttention != 1 {
		t.Fatalf("status counts = %d/%d/%d, want 1/1/1", s.Available, s.Dispatched, s.NeedsAttention)
	}
	if len(s.ByType) != 2 {
		t.Fatalf("byType groups = %d, want 2", len(s.ByType))
	}
	if s.ByType[0].PartType != "PSU" || s.ByType[0].Count != 1 {
		t.Fatalf("unexpected first group: %+v", s.ByType[0])
	}
	if s.ByType[1].PartType != "SSD" || s.ByType[1].Count != 2 {
		t.Fatalf("unexpected second group: %+v", s.ByType[1])
	}
}
