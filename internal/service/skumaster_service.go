package service

import (
	"context"
	"database/sql"

	"github.com/TFHGit/skumaster_api/internal/models"
	"github.com/TFHGit/skumaster_api/internal/repository"
	"github.com/TFHGit/skumaster_api/internal/utils"
)

// Paging defaults and caps for the SKU master listing.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SkuReader is the slice of the SKU store used by read paths and the basic
// update. Satisfied by repository.SKUMasterRepository.
type SkuReader interface {
	ListPage(ctx context.Context, f *repository.ListFilter) ([]models.SKUMaster, int, error)
	ImagesByMasterKeys(ctx context.Context, keys []int) (map[int][]models.SKUMasterImage, error)
	GetDetail(ctx context.Context, key int) (*models.SKUMaster, []models.SKUMasterImage, *models.SKUSizeDetail, error)
	SearchByName(ctx context.Context, words []string) ([]models.SKUMaster, error)
	UpdateBasicInfo(ctx context.Context, key int, name *string, price *int) (bool, error)
}

// PaginationRequest carries paging and filter parameters for the listing.
type PaginationRequest struct {
	Page           int
	PageSize       int
	SearchTerm     string
	FilterNoImages bool
}

// SKUMasterListItem is one row of the paged listing.
type SKUMasterListItem struct {
	SkuKey    int      `json:"skuKey"`
	SkuCode   string   `json:"skuCode"`
	SkuName   string   `json:"skuName"`
	ImageUrls []string `json:"imageUrls"`
	SkuPrice  *int     `json:"skuPrice"`
}

// SKUMasterPage is the paged listing response.
type SKUMasterPage struct {
	Data            []SKUMasterListItem `json:"data"`
	CurrentPage     int                 `json:"currentPage"`
	PageSize        int                 `json:"pageSize"`
	TotalCount      int                 `json:"totalCount"`
	TotalPages      int                 `json:"totalPages"`
	HasPreviousPage bool                `json:"hasPreviousPage"`
	HasNextPage     bool                `json:"hasNextPage"`
}

// SKUMasterDetail is the detail response for one master.
type SKUMasterDetail struct {
	SkuKey    int      `json:"skuKey"`
	SkuName   string   `json:"skuName"`
	ImageUrls []string `json:"imageUrls"`
	Width     *float64 `json:"width"`
	Length    *float64 `json:"length"`
	Height    *float64 `json:"height"`
	Weight    *float64 `json:"weight"`
}

// SKUMasterSearchItem is one row of the name search (debug endpoint).
type SKUMasterSearchItem struct {
	SkuKey  int    `json:"skuKey"`
	SkuName string `json:"skuName"`
	SkuCode string `json:"skuCode"`
}

// UpdateBasicRequest updates name and/or price of a master.
type UpdateBasicRequest struct {
	SkuName  *string `json:"skuName"`
	SkuPrice *int    `json:"skuPrice"`
}

// SKUMasterService answers paginated list and detail queries over SKU masters.
type SKUMasterService struct {
	store SkuReader
	urls  *ImageURLService
}

// NewSKUMasterService constructs a SKUMasterService.
func NewSKUMasterService(store SkuReader, urls *ImageURLService) *SKUMasterService {
	return &SKUMasterService{store: store, urls: urls}
}

// normalizeName applies the single storage normalization policy for SKU names:
// the mixed-script name is filtered to the allowed character set, falling back
// to the raw input when the filter strips everything (a badly-encoded edit is
// better kept than silently discarded).
func normalizeName(raw string) string {
	cleaned := utils.CleanText(raw)
	if cleaned == "" {
		return raw
	}
	return cleaned
}

// GetPagedList returns one page of masters matching the request. baseURL is
// the origin of the inbound request used to resolve image URLs.
func (s *SKUMasterService) GetPagedList(ctx context.Context, req *PaginationRequest, baseURL string) (*SKUMasterPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	// The search term only applies when it survives normalization; a term of
	// pure punctuation matches everything rather than nothing.
	var words []string
	if utils.CleanSearchTerm(req.SearchTerm) != "" {
		words = utils.SearchWords(req.SearchTerm)
	}

	filter := &repository.ListFilter{
		Words:          words,
		FilterNoImages: req.FilterNoImages,
		Offset:         (page - 1) * size,
		Limit:          size,
	}

	masters, total, err := s.store.ListPage(ctx, filter)
	if err != nil {
		return nil, err
	}

	keys := make([]int, len(masters))
	for i, m := range masters {
		keys[i] = m.SkuKey
	}
	imagesByKey, err := s.store.ImagesByMasterKeys(ctx, keys)
	if err != nil {
		return nil, err
	}

	items := make([]SKUMasterListItem, len(masters))
	for i, m := range masters {
		names := make([]string, 0, len(imagesByKey[m.SkuKey]))
		for _, img := range imagesByKey[m.SkuKey] {
			names = append(names, img.ImageName)
		}
		items[i] = SKUMasterListItem{
			SkuKey:    m.SkuKey,
			SkuCode:   m.SkuCode,
			SkuName:   m.SkuName,
			ImageUrls: s.urls.ResolveAll(baseURL, names),
			SkuPrice:  m.SkuPrice,
		}
	}

	totalPages := (total + size - 1) / size

	return &SKUMasterPage{
		Data:            items,
		CurrentPage:     page,
		PageSize:        size,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
	}, nil
}

// GetDetail returns the detail view of one master or ErrSkuMasterNotFound.
// Always a fresh read; dimension edits must be visible immediately after an
// update, so no cache sits on this path.
func (s *SKUMasterService) GetDetail(ctx context.Context, key int, baseURL string) (*SKUMasterDetail, error) {
	master, images, size, err := s.store.GetDetail(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrSkuMasterNotFound
		}
		return nil, err
	}

	names := make([]string, 0, len(images))
	for _, img := range images {
		names = append(names, img.ImageName)
	}

	detail := &SKUMasterDetail{
		SkuKey:    master.SkuKey,
		SkuName:   master.SkuName,
		ImageUrls: s.urls.ResolveAll(baseURL, names),
	}
	if size != nil {
		detail.Width = size.Width
		detail.Length = size.Length
		detail.Height = size.Height
		detail.Weight = size.Weight
	}
	return detail, nil
}

// UpdateBasicInfo updates name and/or price of a master. The name passes the
// same normalization as the full update path.
func (s *SKUMasterService) UpdateBasicInfo(ctx context.Context, key int, req *UpdateBasicRequest) error {
	name := req.SkuName
	if name != nil && *name != "" {
		normalized := normalizeName(*name)
		name = &normalized
	} else {
		name = nil
	}

	found, err := s.store.UpdateBasicInfo(ctx, key, name, req.SkuPrice)
	if err != nil {
		return err
	}
	if !found {
		return utils.ErrSkuMasterNotFound
	}
	return nil
}

// SearchByName runs the normalized AND-of-words search used to locate items
// that seem missing from the listing.
func (s *SKUMasterService) SearchByName(ctx context.Context, term string) ([]SKUMasterSearchItem, error) {
	masters, err := s.store.SearchByName(ctx, utils.SearchWords(term))
	if err != nil {
		return nil, err
	}

	items := make([]SKUMasterSearchItem, len(masters))
	for i, m := range masters {
		items[i] = SKUMasterSearchItem{SkuKey: m.SkuKey, SkuName: m.SkuName, SkuCode: m.SkuCode}
	}
	return items, nil
}
