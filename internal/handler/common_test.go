package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mouradf/it-asset-tracker/internal/database"
	"github.com/mouradf/it-asset-tracker/internal/repository"
	"github.com/mouradf/it-asset-tracker/internal/service"
	"github.com/mouradf/it-asset-tracker/internal/storage"
)

func newTestHandler(t *testing.T, objects storage.ObjectStore) *AssetHandler {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewAssetHandler(
		repository.NewTaskRepo(db),
		repository.NewMaterialRepo(db),
		repository.NewInventoryRepo(db),
		repository.NewPCRepo(db),
		objects,
		service.NewPublisher(""),
	)
}

// multipartBody builds a form with the given fields and one image attachment
// under fileField (no attachment when fileField is empty).
func multipartBody(t *testing.T, fields map[string]string, fileField string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="photo.png"`)
		header.Set("Content-Type", "image/png")
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte("png-bytes")); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func newFormContext(method, path string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestFormImageNoAttachment(t *testing.T) {
	// A JSON request has no multipart body at all.
	c, _ := newFormContext(http.MethodPost, "/inventory",
		strings.NewReader(`{"part_name":"x"}`), echo.MIMEApplicationJSON)
	img, attached, err := formImage(c, "image")
	if img != nil || attached || err != nil {
		t.Fatalf("json body: img=%v attached=%v err=%v", img, attached, err)
	}

	// A well-formed multipart form without the file field.
	body, ct := multipartBody(t, map[string]string{"part_name": "x"}, "")
	c, _ = newFormContext(http.MethodPost, "/inventory", body, ct)
	img, attached, err = formImage(c, "image")
	if img != nil || attached || err != nil {
		t.Fatalf("missing field: img=%v attached=%v err=%v", img, attached, err)
	}
}

func TestFormImageRejectsMalformedBody(t *testing.T) {
	// Claims multipart, carries garbage. This must be an error, not a
	// silent "no attachment" that drops the caller's image.
	c, _ := newFormContext(http.MethodPost, "/inventory",
		strings.NewReader("this is not a multipart payload"),
		"multipart/form-data; boundary=deadbeef")
	_, attached, err := formImage(c, "image")
	if err == nil {
		t.Fatalf("expected error for malformed multipart body")
	}
	if !attached {
		t.Fatalf("malformed body must not be treated as no attachment")
	}
}

func TestFormImageRejectsWrongType(t *testing.T) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="doc.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("%PDF")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	c, _ := newFormContext(http.MethodPost, "/inventory", body, w.FormDataContentType())
	_, attached, err := formImage(c, "image")
	if err == nil || !attached {
		t.Fatalf("expected rejection of pdf attachment, got attached=%v err=%v", attached, err)
	}
}
