package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/config"
	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/inventory"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/storage"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/transform"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

type stubService struct {
	report   *models.AssetReport
	err      error
	lastName string
	lastInd  string
	lastData []byte
	lastReq  models.ClassifyRequest
}

func (s *stubService) ClassifyFile(context.Context, string, string) (*models.AssetReport, error) {
	return s.report, s.err
}

func (s *stubService) ClassifyURL(_ context.Context, req models.ClassifyRequest) (*models.AssetReport, error) {
	s.lastReq = req
	return s.report, s.err
}

func (s *stubService) ClassifyUpload(_ context.Context, name, industry string, data []byte) (*models.AssetReport, error) {
	s.lastName, s.lastInd, s.lastData = name, industry, data
	return s.report, s.err
}

func (s *stubService) Inspect(string, string, storage.DecodedImage, error) models.AssetReport {
	return *s.report
}

func (s *stubService) Specs() transform.Specs {
	return transform.DefaultSpecs()
}

type stubMetrics map[string]interface{}

func (m stubMetrics) GetMetrics() map[string]interface{} { return m }

func setup(t *testing.T, svc *stubService) (http.Handler, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.DefaultConfig()
	cfg.ReportDir = t.TempDir()
	return NewHandler(svc, stubMetrics{"processed": 3}, cfg), cfg
}

func heroReport() *models.AssetReport {
	return &models.AssetReport{
		Path: "https://cdn.example.com/fitness-hero.jpg",
		Classification: models.ClassificationResult{
			Category:    models.CategoryHero,
			ContentType: models.ContentTypePhoto,
		},
	}
}

func TestHealth(t *testing.T) {
	h, _ := setup(t, &stubService{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "available", resp.Status)
	assert.Equal(t, Version, resp.Version)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{"ok", `{"url":"https://cdn.example.com/fitness-hero.jpg","industry":"fitness"}`, nil, http.StatusOK},
		{"missing url", `{}`, nil, http.StatusBadRequest},
		{"not a url", `{"url":"nope"}`, nil, http.StatusBadRequest},
		{"malformed json", `{`, nil, http.StatusBadRequest},
		{"upstream failure", `{"url":"https://cdn.example.com/a.jpg"}`, apperrors.NewNetworkError("fetch failed", nil), http.StatusBadGateway},
		{"deadline", `{"url":"https://cdn.example.com/a.jpg"}`, context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{report: heroReport(), err: tt.svcErr}
			h, _ := setup(t, svc)

			req := httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				var report models.AssetReport
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
				assert.Equal(t, models.CategoryHero, report.Classification.Category)
				assert.Equal(t, "fitness", svc.lastReq.Industry)
			} else {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, http.StatusText(tt.wantStatus), resp.Error)
			}
		})
	}
}

func TestClassifyUpload(t *testing.T) {
	svc := &stubService{report: heroReport()}
	h, _ := setup(t, svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "legal-team-partner.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("pixels"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("industry", "legal"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/classify/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "legal-team-partner.png", svc.lastName)
	assert.Equal(t, "legal", svc.lastInd)
	assert.Equal(t, []byte("pixels"), svc.lastData)
}

func TestClassifyUpload_MissingFile(t *testing.T) {
	h, _ := setup(t, &stubService{report: heroReport()})
	req := httptest.NewRequest(http.MethodPost, "/classify/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventory(t *testing.T) {
	h, cfg := setup(t, &stubService{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	inv := &inventory.Inventory{RunID: "abc", Total: 4, Missing: 1}
	require.NoError(t, inventory.WriteJSON(inv, filepath.Join(cfg.ReportDir, inventory.JSONFile)))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var got inventory.Inventory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.RunID)
	assert.Equal(t, 1, got.Missing)
}

func TestInventory_Corrupt(t *testing.T) {
	h, cfg := setup(t, &stubService{})
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ReportDir, inventory.JSONFile), []byte("{"), 0o644))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMetrics(t *testing.T) {
	h, _ := setup(t, &stubService{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"processed":3}`, w.Body.String())
}

func TestDetermineStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, determineStatusCode(apperrors.NewNotFoundError("x", nil)))
	assert.Equal(t, http.StatusGatewayTimeout, determineStatusCode(context.DeadlineExceeded))
	assert.Equal(t, http.StatusTooManyRequests, determineStatusCode(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, determineStatusCode(assert.AnError))
}
