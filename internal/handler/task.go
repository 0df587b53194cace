package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mouradf/it-asset-tracker/internal/queue"
	"github.com/mouradf/it-asset-tracker/internal/repository"
)

// task statuses the UI offers; promoted to a server-side check.
var taskStatuses = map[string]bool{
	"Pending":     true,
	"In Progress": true,
	"Done":        true,
}

// ListTasks handles GET /tasks.
func (h *AssetHandler) ListTasks(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	tasks, err := h.Tasks.List(ctx)
	if err != nil {
		return dbError(c, "list tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// CreateTask handles POST /tasks and returns the created row.
func (h *AssetHandler) CreateTask(c echo.Context) error {
	var body struct {
		TaskName    string  `json:"taskName"`
		BranchName  string  `json:"branchName"`
		Description *string `json:"description"`
		Status      string  `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.TaskName = strings.TrimSpace(body.TaskName)
	body.BranchName = strings.TrimSpace(body.BranchName)
	if body.TaskName == "" || body.BranchName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "taskName and branchName are required"})
	}
	if body.Status == "" {
		body.Status = "Pending"
	}
	if !taskStatuses[body.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Pending, In Progress or Done"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	t := repository.Task{
		TaskName:    body.TaskName,
		BranchName:  body.BranchName,
		Description: body.Description,
		Status:      body.Status,
	}
	if err := h.Tasks.Create(ctx, &t); err != nil {
		return dbError(c, "create task", err)
	}
	h.publish(c, "task", queue.ActionCreated, t.ID)
	return c.JSON(http.StatusCreated, t)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *AssetHandler) DeleteTask(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Task not found"})
		}
		return dbError(c, "delete task", err)
	}
	h.publish(c, "task", queue.ActionDeleted, id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Task deleted successfully"})
}
