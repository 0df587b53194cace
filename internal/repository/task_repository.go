// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Task model and repository methods. A Task is a unit
// of work attributed to a branch by free-text name; tasks are created and
// deleted but never edited in place.
package repository

import (
	"context"
	"database/sql"

	"github.com/mouradf/it-asset-tracker/internal/database"
)

// Task mirrors the 'tasks' table. The JSON keys are camelCase because the
// page scripts were written against that shape.
type Task struct {
	ID          uint64  `json:"id"`
	TaskName    string  `json:"taskName"`
	BranchName  string  `json:"branchName"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// TaskRepo encapsulates all database queries related to tasks.
type TaskRepo struct {
	db *database.DB
}

// NewTaskRepo constructs a TaskRepo with the provided DB handle.
func NewTaskRepo(db *database.DB) *TaskRepo { return &TaskRepo{db: db} }

// List returns every task ordered by id ascending.
func (r *TaskRepo) List(ctx context.Context) ([]Task, error) {
	const q = "SELECT id, task_name, branch_name, description, status FROM tasks ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var desc, status sql.NullString
		if err := rows.Scan(&t.ID, &t.TaskName, &t.BranchName, &desc, &status); err != nil {
			return nil, err
		}
		if desc.Valid {
			t.Description = &desc.String
		}
		t.Status = status.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create inserts a new task. On success the ID field is populated with the
// generated value.
func (r *TaskRepo) Create(ctx context.Context, t *Task) error {
	const q = "INSERT INTO tasks (task_name, branch_name, description, status) VALUES (?,?,?,?) RETURNING id"
	return r.db.QueryRowContext(ctx, r.db.Rebind(q),
		t.TaskName, t.BranchName, t.Description, t.Status).Scan(&t.ID)
}

// Delete removes the task with the given id. Returns ErrNotFound when no
// row matched.
func (r *TaskRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM tasks WHERE id = ?"
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
