package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mouradf/it-asset-tracker/internal/queue"
	"github.com/mouradf/it-asset-tracker/internal/repository"
)

// part statuses and conditions the UI offers; promoted to server-side checks.
var partStatuses = map[string]bool{
	repository.PartStatusAvailable:      true,
	repository.PartStatusDispatched:     true,
	repository.PartStatusNeedsAttention: true,
}

var partConditions = map[string]bool{
	"Good": true,
	"Fair": true,
	"Poor": true,
}

type partReq struct {
	Name         string  `json:"part_name"`
	Quantity     int     `json:"quantity"`
	Unit         *string `json:"unit"`
	TaskID       *uint64 `json:"task_id"`
	PartType     *string `json:"part_type"`
	Status       string  `json:"status"`
	SerialNumber *string `json:"serial_number"`
	WarrantyDate *string `json:"warranty_date"`
	Condition    string  `json:"condition"`
}

// bindPart accepts either a JSON body or multipart form fields, since the
// create/update endpoints take multipart when an image is attached.
func bindPart(c echo.Context) (partReq, error) {
	var req partReq
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		req.Name = c.FormValue("part_name")
		if q := c.FormValue("quantity"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				return req, errors.New("quantity must be a number")
			}
			req.Quantity = n
		}
		req.Unit = optStr(c.FormValue("unit"))
		req.PartType = optStr(c.FormValue("part_type"))
		req.Status = c.FormValue("status")
		req.SerialNumber = optStr(c.FormValue("serial_number"))
		req.WarrantyDate = optStr(c.FormValue("warranty_date"))
		req.Condition = c.FormValue("condition")
		return req, nil
	}
	if err := c.Bind(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	return req, nil
}

func (r *partReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "part_name is required"
	}
	if r.Quantity < 0 {
		return "quantity must be non-negative"
	}
	if r.Status == "" {
		r.Status = repository.PartStatusAvailable
	}
	if !partStatuses[r.Status] {
		return "status must be Available, Dispatched or Needs Attention"
	}
	if r.Condition == "" {
		r.Condition = "Good"
	}
	if !partConditions[r.Condition] {
		return "condition must be Good, Fair or Poor"
	}
	return ""
}

// optStr converts an optional form value to a nullable column value.
func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ListInventory handles GET /inventory.
func (h *AssetHandler) ListInventory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	parts, err := h.Inventory.List(ctx)
	if err != nil {
		return dbError(c, "list inventory", err)
	}
	return c.JSON(http.StatusOK, parts)
}

// InventorySummary handles GET /inventory/summary, computed from current
// table contents on every call.
func (h *AssetHandler) InventorySummary(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Inventory.Summarize(ctx)
	if err != nil {
		return dbError(c, "summarize inventory", err)
	}
	return c.JSON(http.StatusOK, s)
}

// CreateInventory handles POST /inventory. An optional image is uploaded to
// object storage before the row is written; only the returned URL is stored.
func (h *AssetHandler) CreateInventory(c echo.Context) error {
	body, err := bindPart(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	var imagePath *string
	img, attached, err := formImage(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if attached {
		url, err := h.storeImage(c.Request().Context(), img)
		if err != nil {
			c.Logger().Errorf("upload image: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		}
		imagePath = &url
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	p := repository.Part{
		Name: body.Name, Quantity: body.Quantity, Unit: body.Unit, TaskID: body.TaskID,
		PartType: body.PartType, Status: body.Status, SerialNumber: body.SerialNumber,
		WarrantyDate: body.WarrantyDate, Condition: body.Condition, ImagePath: imagePath,
	}
	if err := h.Inventory.Create(ctx, &p); err != nil {
		return dbError(c, "create part", err)
	}
	h.publish(c, "inventory", queue.ActionCreated, p.ID)
	return c.JSON(http.StatusCreated, p)
}

// UpdateInventory handles PUT /inventory/:id. Full-row replace; when a new
// image arrives the old object is removed best-effort after the row commits.
func (h *AssetHandler) UpdateInventory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	body, err := bindPart(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	loadCtx, cancelLoad := reqCtx(c)
	current, err := h.Inventory.GetByID(loadCtx, id)
	cancelLoad()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Part not found"})
		}
		return dbError(c, "load part", err)
	}

	imagePath := current.ImagePath
	var replaced string
	img, attached, err := formImage(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if attached {
		url, err := h.storeImage(c.Request().Context(), img)
		if err != nil {
			c.Logger().Errorf("upload image: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		}
		if current.ImagePath != nil {
			replaced = *current.ImagePath
		}
		imagePath = &url
	}

	// The database deadline starts after the upload so a slow object store
	// cannot eat the UPDATE's time budget.
	ctx, cancel := reqCtx(c)
	defer cancel()
	p := repository.Part{
		ID: id, Name: body.Name, Quantity: body.Quantity, Unit: body.Unit, TaskID: body.TaskID,
		PartType: body.PartType, Status: body.Status, SerialNumber: body.SerialNumber,
		WarrantyDate: body.WarrantyDate, Condition: body.Condition, ImagePath: imagePath,
	}
	if err := h.Inventory.Update(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Part not found"})
		}
		return dbError(c, "update part", err)
	}
	if replaced != "" {
		h.removeImage(c, replaced)
	}
	h.publish(c, "inventory", queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, p)
}

// DeleteInventory handles DELETE /inventory/:id. The stored image, if any,
// is cleaned up best-effort after the row is gone.
func (h *AssetHandler) DeleteInventory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	current, err := h.Inventory.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Part not found"})
		}
		return dbError(c, "load part", err)
	}
	if err := h.Inventory.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Part not found"})
		}
		return dbError(c, "delete part", err)
	}
	if current.ImagePath != nil {
		h.removeImage(c, *current.ImagePath)
	}
	h.publish(c, "inventory", queue.ActionDeleted, id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Part deleted successfully"})
}
