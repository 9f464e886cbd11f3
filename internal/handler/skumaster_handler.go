package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TFHGit/skumaster_api/internal/repository"
	"github.com/TFHGit/skumaster_api/internal/service"
	"github.com/TFHGit/skumaster_api/internal/utils"
)

// SKUMasterHandler handles SKU master read and basic-update HTTP endpoints.
type SKUMasterHandler struct {
	skuService *service.SKUMasterService
	repo       *repository.SKUMasterRepository
}

// NewSKUMasterHandler constructs a SKUMasterHandler. The repository is used
// directly by the debug endpoints only.
func NewSKUMasterHandler(skuService *service.SKUMasterService, repo *repository.SKUMasterRepository) *SKUMasterHandler {
	return &SKUMasterHandler{skuService: skuService, repo: repo}
}

// GetPagedList handles GET /api/skumaster/list
func (h *SKUMasterHandler) GetPagedList(c *gin.Context) {
	req := &service.PaginationRequest{
		Page:       1,
		PageSize:   20,
		SearchTerm: c.Query("searchTerm"),
	}
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			req.Page = p
		}
	}
	if v := c.Query("pageSize"); v != "" {
		if s, err := strconv.Atoi(v); err == nil {
			req.PageSize = s
		}
	}
	req.FilterNoImages = c.Query("filterNoImages") == "true"

	page, err := h.skuService.GetPagedList(c.Request.Context(), req, utils.RequestBaseURL(c))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve sku masters", err.Error())
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetDetail handles GET /api/skumaster/:key/detail
func (h *SKUMasterHandler) GetDetail(c *gin.Context) {
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid sku key", err.Error())
		return
	}

	detail, err := h.skuService.GetDetail(c.Request.Context(), key, utils.RequestBaseURL(c))
	if err != nil {
		if err == utils.ErrSkuMasterNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "SkuMaster not found", "key": key})
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	// Dimension edits must be visible immediately after an update; keep every
	// intermediary from serving a stale copy.
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	c.JSON(http.StatusOK, detail)
}

// UpdateBasic handles PUT /api/skumaster/:key/update-basic
func (h *SKUMasterHandler) UpdateBasic(c *gin.Context) {
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid sku key", err.Error())
		return
	}

	var req service.UpdateBasicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.skuService.UpdateBasicInfo(c.Request.Context(), key, &req); err != nil {
		if err == utils.ErrSkuMasterNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "SkuMaster not found", "key": key})
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to update sku master", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

// DebugSearch handles GET /api/skumaster/debug/search
func (h *SKUMasterHandler) DebugSearch(c *gin.Context) {
	name := c.Query("name")

	results, err := h.skuService.SearchByName(c.Request.Context(), name)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"searchTerm": name,
		"count":      len(results),
		"results":    results,
	})
}

// DebugSize handles GET /api/skumaster/debug/size/:key
func (h *SKUMasterHandler) DebugSize(c *gin.Context) {
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid sku key", err.Error())
		return
	}

	detail, err := h.skuService.GetDetail(c.Request.Context(), key, utils.RequestBaseURL(c))
	if err != nil {
		if err == utils.ErrSkuMasterNotFound {
			c.JSON(http.StatusOK, gin.H{"skuKey": key, "found": false})
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"skuKey":  key,
		"found":   true,
		"hasSize": detail.Width != nil || detail.Length != nil || detail.Height != nil || detail.Weight != nil,
		"width":   detail.Width,
		"length":  detail.Length,
		"height":  detail.Height,
		"weight":  detail.Weight,
	})
}

// DebugTables handles GET /api/skumaster/debug/tables
func (h *SKUMasterHandler) DebugTables(c *gin.Context) {
	tables, err := h.repo.ListTables(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to list tables", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

// DebugSample handles GET /api/skumaster/debug/sample
func (h *SKUMasterHandler) DebugSample(c *gin.Context) {
	sample, err := h.repo.SampleRows(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch sample rows", err.Error())
		return
	}
	c.JSON(http.StatusOK, sample)
}
