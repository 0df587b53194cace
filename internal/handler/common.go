// Package handler defines the HTTP handlers. Each handler translates one
// request into repository calls and shapes the result into JSON; validation
// happens here at the boundary, not in the database.
package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mouradf/it-asset-tracker/internal/middleware"
	"github.com/mouradf/it-asset-tracker/internal/queue"
	"github.com/mouradf/it-asset-tracker/internal/repository"
	"github.com/mouradf/it-asset-tracker/internal/service"
	"github.com/mouradf/it-asset-tracker/internal/storage"
)

// AssetHandler bundles the repositories and collaborators for the tracked
// resources (tasks, materials, inventory, branch PCs).
type AssetHandler struct {
	Tasks     *repository.TaskRepo
	Materials *repository.MaterialRepo
	Inventory *repository.InventoryRepo
	PCs       *repository.PCRepo
	Objects   storage.ObjectStore
	Events    *service.Publisher
}

func NewAssetHandler(tasks *repository.TaskRepo, materials *repository.MaterialRepo,
	inventory *repository.InventoryRepo, pcs *repository.PCRepo,
	objects storage.ObjectStore, events *service.Publisher) *AssetHandler {
	if tasks == nil || materials == nil || inventory == nil || pcs == nil {
		panic("nil repository passed to NewAssetHandler")
	}
	if objects == nil {
		objects = storage.Disabled{}
	}
	return &AssetHandler{
		Tasks:     tasks,
		Materials: materials,
		Inventory: inventory,
		PCs:       pcs,
		Objects:   objects,
		Events:    events,
	}
}

// parseID extracts the numeric :id route parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// publish emits a best-effort asset change event off the request path.
// Failures are logged by the publisher and never surface to the client.
func (h *AssetHandler) publish(c echo.Context, resource, action string, id uint64) {
	actor := ""
	if ident, ok := middleware.CurrentUser(c); ok {
		actor = ident.Username
	}
	ev := queue.AssetEvent{Resource: resource, Action: action, ID: id, Actor: actor}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Events.PublishAssetEvent(ctx, ev)
	}()
}

// uploadedImage is one validated multipart image attachment.
type uploadedImage struct {
	file        multipart.File
	size        int64
	contentType string
}

// formImage pulls the named file field out of a multipart request. The
// bool reports whether a file was attached at all; a present but invalid
// file (wrong type, over the size cap) is an error the handler maps to a
// 400 with the specific reason.
func formImage(c echo.Context, field string) (*uploadedImage, bool, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// Missing field or not a multipart request: no attachment. Any
		// other error means the body claimed to be multipart but could not
		// be parsed, which must not silently drop the image.
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("malformed upload: %w", err)
	}
	if fh.Size > storage.MaxImageBytes {
		return nil, true, fmt.Errorf("image exceeds the 5MB limit")
	}
	contentType := fh.Header.Get("Content-Type")
	if _, ok := storage.ImageExt(contentType); !ok {
		return nil, true, fmt.Errorf("only JPG, PNG and GIF images are allowed")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, true, fmt.Errorf("read upload: %w", err)
	}
	return &uploadedImage{file: f, size: fh.Size, contentType: contentType}, true, nil
}

// storeImage uploads a validated attachment and returns the durable URL.
func (h *AssetHandler) storeImage(ctx context.Context, img *uploadedImage) (string, error) {
	defer img.file.Close()
	return h.Objects.Put(ctx, img.file, img.size, img.contentType)
}

// removeImage is the best-effort cleanup of a replaced or deleted object.
func (h *AssetHandler) removeImage(c echo.Context, objectURL string) {
	if objectURL == "" {
		return
	}
	if err := h.Objects.Remove(c.Request().Context(), objectURL); err != nil {
		c.Logger().Warnf("remove old image %s: %v", objectURL, err)
	}
}

// reqCtx bounds a request's database work the way every handler does.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// dbError hides driver detail behind a generic message; the cause goes to
// the log only.
func dbError(c echo.Context, what string, err error) error {
	c.Logger().Errorf("%s: %v", what, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": what + " failed"})
}
