package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TFHGit/skumaster_api/internal/service"
	"github.com/TFHGit/skumaster_api/internal/utils"
)

// SKUMasterImageHandler handles the combined multipart update endpoint.
type SKUMasterImageHandler struct {
	updateService *service.SKUUpdateService
}

// NewSKUMasterImageHandler constructs a SKUMasterImageHandler.
func NewSKUMasterImageHandler(updateService *service.SKUUpdateService) *SKUMasterImageHandler {
	return &SKUMasterImageHandler{updateService: updateService}
}

// Update handles POST /api/skumasterimage/update
//
// Multipart fields: skuKey (required), skuName, newImages (files),
// deleteImageIds, deleteImageFileNames, width, length, height, weight.
func (h *SKUMasterImageHandler) Update(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	skuKey, err := strconv.Atoi(c.PostForm("skuKey"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "skuKey is required and must be an integer", c.PostForm("skuKey"))
		return
	}

	req := &service.UpdateSkuMasterRequest{
		SkuKey:               skuKey,
		SkuName:              c.PostForm("skuName"),
		NewImages:            form.File["newImages"],
		DeleteImageFileNames: form.Value["deleteImageFileNames"],
	}

	for _, raw := range form.Value["deleteImageIds"] {
		id, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "deleteImageIds must be integers", raw)
			return
		}
		req.DeleteImageIds = append(req.DeleteImageIds, id)
	}

	for _, field := range []struct {
		name string
		dst  **float64
	}{
		{"width", &req.Width},
		{"length", &req.Length},
		{"height", &req.Height},
		{"weight", &req.Weight},
	} {
		v, err := optionalFloat(c, field.name)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, field.name+" must be a number", c.PostForm(field.name))
			return
		}
		*field.dst = v
	}

	res, err := h.updateService.Update(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, utils.ErrSkuMasterNotFound), errors.Is(err, utils.ErrImageLimitExceeded):
		c.JSON(http.StatusBadRequest, res)
	default:
		c.JSON(http.StatusInternalServerError, res)
	}
}

// optionalFloat parses an optional decimal form field; absent fields are nil.
func optionalFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.PostForm(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
