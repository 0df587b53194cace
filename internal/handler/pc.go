package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mouradf/it-asset-tracker/internal/queue"
	"github.com/mouradf/it-asset-tracker/internal/repository"
)

type pcReq struct {
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
	ExistingImagePath string  `json:"existing_image_path"`
}

// bindPC accepts either JSON or the multipart form the PC page submits.
func bindPC(c echo.Context) (pcReq, error) {
	var req pcReq
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		req.BranchName = c.FormValue("branch_name")
		req.City = c.FormValue("city")
		req.BranchCode = c.FormValue("branch_code")
		req.DesktopName = c.FormValue("desktop_name")
		req.PCNumber = c.FormValue("pc_number")
		req.Motherboard = c.FormValue("motherboard")
		req.MotherboardSerial = optStr(c.FormValue("motherboard_serial"))
		req.Processor = c.FormValue("processor")
		req.Storage = c.FormValue("storage")
		req.RAM = c.FormValue("ram")
		req.PSU = c.FormValue("psu")
		req.Monitor = c.FormValue("monitor")
		req.ExistingImagePath = c.FormValue("existing_image_path")
		return req, nil
	}
	if err := c.Bind(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	return req, nil
}

func (r *pcReq) validate() string {
	r.BranchName = strings.TrimSpace(r.BranchName)
	if r.BranchName == "" {
		return "branch_name is required"
	}
	return ""
}

func (r *pcReq) toModel() repository.BranchPC {
	return repository.BranchPC{
		BranchName:        r.BranchName,
		City:              r.City,
		BranchCode:        r.BranchCode,
		DesktopName:       r.DesktopName,
		PCNumber:          r.PCNumber,
		Motherboard:       r.Motherboard,
		MotherboardSerial: r.MotherboardSerial,
		Processor:         r.Processor,
		Storage:           r.Storage,
		RAM:               r.RAM,
		PSU:               r.PSU,
		Monitor:           r.Monitor,
	}
}

// ListPCs handles GET /pcs.
func (h *AssetHandler) ListPCs(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	pcs, err := h.PCs.List(ctx)
	if err != nil {
		return dbError(c, "list pcs", err)
	}
	return c.JSON(http.StatusOK, pcs)
}

// CreatePC handles POST /pcs with an optional pc_image attachment.
func (h *AssetHandler) CreatePC(c echo.Context) error {
	body, err := bindPC(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	pc := body.toModel()
	img, attached, err := formImage(c, "pc_image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if attached {
		url, err := h.storeImage(c.Request().Context(), img)
		if err != nil {
			c.Logger().Errorf("upload pc image: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		}
		pc.ImagePath = &url
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.PCs.Create(ctx, &pc); err != nil {
		return dbError(c, "create pc", err)
	}
	h.publish(c, "pc", queue.ActionCreated, pc.ID)
	return c.JSON(http.StatusCreated, pc)
}

// UpdatePC handles PUT /pcs/:id. A fresh pc_image replaces the stored one
// (old object removed best-effort); otherwise the existing_image_path
// passthrough field decides whether the current image is kept or cleared.
func (h *AssetHandler) UpdatePC(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	body, err := bindPC(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	loadCtx, cancelLoad := reqCtx(c)
	current, err := h.PCs.GetByID(loadCtx, id)
	cancelLoad()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "PC spec not found"})
		}
		return dbError(c, "load pc", err)
	}

	pc := body.toModel()
	pc.ID = id
	pc.ImagePath = optStr(body.ExistingImagePath)
	var replaced string
	img, attached, err := formImage(c, "pc_image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if attached {
		url, err := h.storeImage(c.Request().Context(), img)
		if err != nil {
			c.Logger().Errorf("upload pc image: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		}
		if current.ImagePath != nil {
			replaced = *current.ImagePath
		}
		pc.ImagePath = &url
	}

	// The database deadline starts after the upload so a slow object store
	// cannot eat the UPDATE's time budget.
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.PCs.Update(ctx, &pc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "PC spec not found"})
		}
		return dbError(c, "update pc", err)
	}
	if replaced != "" {
		h.removeImage(c, replaced)
	}
	h.publish(c, "pc", queue.ActionUpdated, id)
	updated, err := h.PCs.GetByID(ctx, id)
	if err != nil {
		return dbError(c, "load pc", err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeletePC handles DELETE /pcs/:id.
func (h *AssetHandler) DeletePC(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	current, err := h.PCs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "PC spec not found"})
		}
		return dbError(c, "load pc", err)
	}
	if err := h.PCs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "PC spec not found"})
		}
		return dbError(c, "delete pc", err)
	}
	if current.ImagePath != nil {
		h.removeImage(c, *current.ImagePath)
	}
	h.publish(c, "pc", queue.ActionDeleted, id)
	return c.JSON(http.StatusOK, echo.Map{"message": "PC spec deleted successfully"})
}
