package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/TFHGit/skumaster_api/internal/models"
	"github.com/TFHGit/skumaster_api/internal/repository"
	"github.com/TFHGit/skumaster_api/internal/service"
)

type stubSkuReader struct {
	masters    []models.SKUMaster
	total      int
	lastFilter *repository.ListFilter

	detailMaster *models.SKUMaster
	detailImages []models.SKUMasterImage
	detailSize   *models.SKUSizeDetail

	updateFound  bool
	updatedName  *string
	updatedPrice *int
}

func (s *stubSkuReader) ListPage(ctx context.Context, f *repository.ListFilter) ([]models.SKUMaster, int, error) {
	s.lastFilter = f
	return s.masters, s.total, nil
}

func (s *stubSkuReader) ImagesByMasterKeys(ctx context.Context, keys []int) (map[int][]models.SKUMasterImage, error) {
	return map[int][]models.SKUMasterImage{}, nil
}

func (s *stubSkuReader) GetDetail(ctx context.Context, key int) (*models.SKUMaster, []models.SKUMasterImage, *models.SKUSizeDetail, error) {
	if s.detailMaster == nil || s.detailMaster.SkuKey != key {
		return nil, nil, nil, sql.ErrNoRows
	}
	return s.detailMaster, s.detailImages, s.detailSize, nil
}

func (s *stubSkuReader) SearchByName(ctx context.Context, words []string) ([]models.SKUMaster, error) {
	return s.masters, nil
}

func (s *stubSkuReader) UpdateBasicInfo(ctx context.Context, key int, name *string, price *int) (bool, error) {
	s.updatedName = name
	s.updatedPrice = price
	return s.updateFound, nil
}

func newTestRouter(store service.SkuReader) *gin.Engine {
	gin.SetMode(gin.TestMode)

	skuSvc := service.NewSKUMasterService(store, service.NewImageURLService("https://default.example.com"))
	h := NewSKUMasterHandler(skuSvc, nil)

	router := gin.New()
	router.GET("/api/skumaster/list", h.GetPagedList)
	router.GET("/api/skumaster/:key/detail", h.GetDetail)
	router.PUT("/api/skumaster/:key/update-basic", h.UpdateBasic)
	return router
}

func TestGetPagedList_QueryParsing(t *testing.T) {
	store := &stubSkuReader{total: 42}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/skumaster/list?page=2&pageSize=10&searchTerm=box&filterNoImages=true", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var page service.SKUMasterPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if page.CurrentPage != 2 || page.PageSize != 10 || page.TotalCount != 42 {
		t.Errorf("page = %+v", page)
	}
	if !store.lastFilter.FilterNoImages {
		t.Error("filterNoImages not passed through")
	}
	if len(store.lastFilter.Words) != 1 || store.lastFilter.Words[0] != "box" {
		t.Errorf("filter words = %v", store.lastFilter.Words)
	}
}

func TestGetPagedList_DefaultsOnBadQuery(t *testing.T) {
	store := &stubSkuReader{}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/skumaster/list?page=abc&pageSize=xyz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var page service.SKUMasterPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if page.CurrentPage != 1 || page.PageSize != 20 {
		t.Errorf("page = %+v, want defaults 1/20", page)
	}
}

func TestGetDetail_SetsNoCacheHeaders(t *testing.T) {
	store := &stubSkuReader{
		detailMaster: &models.SKUMaster{SkuKey: 7, SkuName: "Crate"},
	}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/skumaster/7/detail", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	if w.Header().Get("Pragma") != "no-cache" {
		t.Errorf("Pragma = %q", w.Header().Get("Pragma"))
	}

	var detail service.SKUMasterDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if detail.SkuKey != 7 || detail.SkuName != "Crate" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestGetDetail_NotFound(t *testing.T) {
	router := newTestRouter(&stubSkuReader{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/skumaster/999/detail", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body["message"] != "SkuMaster not found" {
		t.Errorf("body = %v", body)
	}
}

func TestGetDetail_InvalidKey(t *testing.T) {
	router := newTestRouter(&stubSkuReader{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/skumaster/abc/detail", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateBasic(t *testing.T) {
	store := &stubSkuReader{updateFound: true}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/skumaster/1/update-basic",
		strings.NewReader(`{"skuName": "New Name", "skuPrice": 250}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if store.updatedName == nil || *store.updatedName != "New Name" {
		t.Errorf("updated name = %v", store.updatedName)
	}
	if store.updatedPrice == nil || *store.updatedPrice != 250 {
		t.Errorf("updated price = %v", store.updatedPrice)
	}
}

func TestUpdateBasic_NotFound(t *testing.T) {
	router := newTestRouter(&stubSkuReader{updateFound: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/skumaster/999/update-basic",
		strings.NewReader(`{"skuPrice": 1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateBasic_BadBody(t *testing.T) {
	router := newTestRouter(&stubSkuReader{updateFound: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/skumaster/1/update-basic",
		strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
