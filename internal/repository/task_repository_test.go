package repository

import (
	"context"
	"errors"
	"testing"
)

func TestTaskCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepo(db)
	ctx := context.Background()

	first := Task{TaskName: "Replace PSU", BranchName: "Downtown", Status: "Pending"}
	if err := repo.Create(ctx, &first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	second := Task{TaskName: "Install RAM", BranchName: "Airport", Description: strPtr("16GB upgrade"), Status: "In Progress"}
	if err := repo.Create(ctx, &second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID >= tasks[1].ID {
		t.Fatalf("expected ascending id order, got %d then %d", tasks[0].ID, tasks[1].ID)
	}
	if tasks[0].Description != nil {
		t.Fatalf("expected nil description on first task")
	}
	if tasks[1].Description == nil || *tasks[1].Description != "16GB upgrade" {
		t.Fatalf("description round trip failed: %+v", tasks[1].Description)
	}
}

func TestTaskDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepo(db)
	ctx := context.Background()

	task := Task{TaskName: "Check cabling", BranchName: "Harbor", Status: "Pending"}
	if err := repo.Create(ctx, &task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.Delete(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
