// Legacy /materials endpoints. Response shapes are kept exactly as the old
// page scripts expect ({id} on create, message strings on update/delete);
// the richer /inventory endpoints serve the same table with the full record.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mouradf/it-asset-tracker/internal/queue"
	"github.com/mouradf/it-asset-tracker/internal/repository"
)

type materialReq struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Unit     *string `json:"unit"`
	TaskID   *uint64 `json:"taskId"`
}

func (r *materialReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if r.Quantity < 0 {
		return "quantity must be non-negative"
	}
	return ""
}

// ListMaterials handles GET /materials.
func (h *AssetHandler) ListMaterials(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	materials, err := h.Materials.List(ctx)
	if err != nil {
		return dbError(c, "list materials", err)
	}
	return c.JSON(http.StatusOK, materials)
}

// CreateMaterial handles POST /materials.
func (h *AssetHandler) CreateMaterial(c echo.Context) error {
	var body materialReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	m := repository.Material{Name: body.Name, Quantity: body.Quantity, Unit: body.Unit, TaskID: body.TaskID}
	if err := h.Materials.Create(ctx, &m); err != nil {
		return dbError(c, "create material", err)
	}
	h.publish(c, "material", queue.ActionCreated, m.ID)
	return c.JSON(http.StatusOK, echo.Map{"id": m.ID})
}

// UpdateMaterial handles PUT /materials/:id (full-row replace).
func (h *AssetHandler) UpdateMaterial(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body materialReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	m := repository.Material{ID: id, Name: body.Name, Quantity: body.Quantity, Unit: body.Unit, TaskID: body.TaskID}
	if err := h.Materials.Update(ctx, &m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Material not found"})
		}
		return dbError(c, "update material", err)
	}
	h.publish(c, "material", queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Material updated"})
}

// DeleteMaterial handles DELETE /materials/:id.
func (h *AssetHandler) DeleteMaterial(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Materials.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Material not found"})
		}
		return dbError(c, "delete material", err)
	}
	h.publish(c, "material", queue.ActionDeleted, id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Material deleted successfully"})
}
