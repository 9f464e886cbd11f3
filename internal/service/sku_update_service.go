package service

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TFHGit/skumaster_api/internal/models"
	"github.com/TFHGit/skumaster_api/internal/repository"
	"github.com/TFHGit/skumaster_api/internal/utils"
)

// MaxImagesPerSku is the image budget: a master never holds more than this
// many images after any update.
const MaxImagesPerSku = 7

// publicImagePrefix is the root-relative URL path under which stored image
// files are served.
const publicImagePrefix = "/images/skumasters"

// SkuUpdateStore opens the transactional unit of work for the full update.
// Satisfied by repository.SKUMasterRepository.
type SkuUpdateStore interface {
	BeginUpdate(ctx context.Context) (repository.UpdateTx, error)
}

// UpdateSkuMasterRequest is the combined name/image/size update.
type UpdateSkuMasterRequest struct {
	SkuKey               int
	SkuName              string
	NewImages            []*multipart.FileHeader
	DeleteImageIds       []int
	DeleteImageFileNames []string
	Width                *float64
	Length               *float64
	Height               *float64
	Weight               *float64
}

// UploadedImage describes one successfully stored image.
type UploadedImage struct {
	ID          int       `json:"id"`
	MasterID    int       `json:"masterId"`
	ImageName   string    `json:"imageName"`
	ImagePath   string    `json:"imagePath"`
	CreatedDate time.Time `json:"createdDate"`
}

// UpdateSkuMasterResult reports exactly what succeeded, what was skipped, and
// what failed. Partial successes never collapse into a bare generic error.
type UpdateSkuMasterResult struct {
	Success               bool                  `json:"success"`
	Message               string                `json:"message"`
	UpdatedSkuName        *string               `json:"updatedSkuName,omitempty"`
	UploadedImages        []UploadedImage       `json:"uploadedImages"`
	DeletedImageIds       []int                 `json:"deletedImageIds"`
	DeletedImageFileNames []string              `json:"deletedImageFileNames"`
	UpdatedSizeDetail     *models.SKUSizeDetail `json:"updatedSizeDetail,omitempty"`
	Errors                []string              `json:"errors"`
	Warnings              []string              `json:"warnings"`
}

func newUpdateResult() *UpdateSkuMasterResult {
	return &UpdateSkuMasterResult{
		UploadedImages:        []UploadedImage{},
		DeletedImageIds:       []int{},
		DeletedImageFileNames: []string{},
		Errors:                []string{},
		Warnings:              []string{},
	}
}

// SKUUpdateService performs the combined name/image/size-detail update inside
// one database transaction. File writes are the known exception to atomicity:
// a saved file without a committed row is acceptable and reclaimed later.
type SKUUpdateService struct {
	store     SkuUpdateStore
	files     *FileService
	imagesDir string
}

// NewSKUUpdateService constructs a SKUUpdateService. imagesDir is the on-disk
// directory backing publicImagePrefix.
func NewSKUUpdateService(store SkuUpdateStore, files *FileService, imagesDir string) *SKUUpdateService {
	return &SKUUpdateService{store: store, files: files, imagesDir: imagesDir}
}

// Update applies the combined update and returns a structured result. The
// returned error classifies hard failures (utils.ErrSkuMasterNotFound,
// utils.ErrImageLimitExceeded, or an internal error); the result body is
// always populated for the caller regardless.
func (s *SKUUpdateService) Update(ctx context.Context, req *UpdateSkuMasterRequest) (*UpdateSkuMasterResult, error) {
	res := newUpdateResult()

	tx, err := s.store.BeginUpdate(ctx)
	if err != nil {
		return s.fail(res, err)
	}
	// Rollback is a no-op once Commit succeeds.
	defer tx.Rollback()

	master, err := tx.MasterByKey(req.SkuKey)
	if err != nil {
		if err == sql.ErrNoRows {
			res.Message = "SkuMaster not found"
			res.Errors = append(res.Errors, fmt.Sprintf("SkuMaster with key %d not found", req.SkuKey))
			return res, utils.ErrSkuMasterNotFound
		}
		return s.fail(res, err)
	}

	if req.SkuName != "" && req.SkuName != master.SkuName {
		name := normalizeName(req.SkuName)
		if err := tx.SetMasterName(req.SkuKey, name); err != nil {
			return s.fail(res, err)
		}
		log.Info().Int("skuKey", req.SkuKey).Str("from", master.SkuName).Str("to", name).Msg("updating sku name")
		master.SkuName = name
	}

	// Deletion by file name is the preferred mechanism.
	for _, fileName := range req.DeleteImageFileNames {
		img, err := tx.FindImageByName(req.SkuKey, fileName)
		if err != nil {
			if err == sql.ErrNoRows {
				res.Warnings = append(res.Warnings, fmt.Sprintf("image with fileName '%s' not found or doesn't belong to this SkuMaster", fileName))
				continue
			}
			return s.fail(res, err)
		}
		s.deleteBackingFile(img.ImageName)
		if err := tx.DeleteImage(img.ID); err != nil {
			return s.fail(res, err)
		}
		res.DeletedImageFileNames = append(res.DeletedImageFileNames, fileName)
	}

	// Deletion by id remains for older clients.
	for _, imageID := range req.DeleteImageIds {
		img, err := tx.ImageByID(imageID)
		if err != nil && err != sql.ErrNoRows {
			return s.fail(res, err)
		}
		if err == sql.ErrNoRows || img.MasterID != req.SkuKey {
			res.Warnings = append(res.Warnings, fmt.Sprintf("image with ID %d not found or doesn't belong to this SkuMaster", imageID))
			continue
		}
		s.deleteBackingFile(img.ImageName)
		if err := tx.DeleteImage(img.ID); err != nil {
			return s.fail(res, err)
		}
		res.DeletedImageIds = append(res.DeletedImageIds, imageID)
	}

	if len(req.NewImages) > 0 {
		// Deletions above already ran inside this transaction, so the count is
		// the real remaining number of images.
		remaining, err := tx.ImageCount(req.SkuKey)
		if err != nil {
			return s.fail(res, err)
		}
		if remaining+len(req.NewImages) > MaxImagesPerSku {
			res.Message = fmt.Sprintf("Total images would exceed limit. Current: %d, Adding: %d, Limit: %d",
				remaining, len(req.NewImages), MaxImagesPerSku)
			return res, utils.ErrImageLimitExceeded
		}

		for _, file := range req.NewImages {
			storedName, err := s.files.Save(file, s.imagesDir)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Error uploading %s: %v", file.Filename, err))
				continue
			}
			img := &models.SKUMasterImage{
				MasterID:  req.SkuKey,
				ImageName: path.Join(publicImagePrefix, storedName),
			}
			if err := tx.InsertImage(img); err != nil {
				return s.fail(res, err)
			}
			res.UploadedImages = append(res.UploadedImages, UploadedImage{
				ID:          img.ID,
				MasterID:    img.MasterID,
				ImageName:   img.ImageName,
				ImagePath:   img.ImageName,
				CreatedDate: img.CreatedAt,
			})
		}
	}

	if req.Width != nil || req.Length != nil || req.Height != nil || req.Weight != nil {
		detail, err := s.upsertSizeDetail(tx, req)
		if err != nil {
			return s.fail(res, err)
		}
		res.UpdatedSizeDetail = detail
	}

	if err := tx.Commit(); err != nil {
		return s.fail(res, err)
	}

	res.Success = true
	res.Message = "SkuMaster updated successfully"
	res.UpdatedSkuName = &master.SkuName
	return res, nil
}

// upsertSizeDetail updates only the supplied dimension fields of the singleton
// size-detail row, inserting a new row when none exists. Every write stamps
// the update time.
func (s *SKUUpdateService) upsertSizeDetail(tx repository.UpdateTx, req *UpdateSkuMasterRequest) (*models.SKUSizeDetail, error) {
	now := time.Now()

	detail, err := tx.SizeDetailByMaster(req.SkuKey)
	switch err {
	case nil:
		if req.Width != nil {
			detail.Width = req.Width
		}
		if req.Length != nil {
			detail.Length = req.Length
		}
		if req.Height != nil {
			detail.Height = req.Height
		}
		if req.Weight != nil {
			detail.Weight = req.Weight
		}
		detail.DateTimeUpdate = now
		if err := tx.UpdateSizeDetail(detail); err != nil {
			return nil, err
		}
		return detail, nil
	case sql.ErrNoRows:
		detail = &models.SKUSizeDetail{
			MasterID:       req.SkuKey,
			Width:          req.Width,
			Length:         req.Length,
			Height:         req.Height,
			Weight:         req.Weight,
			DateTimeUpdate: now,
		}
		if err := tx.InsertSizeDetail(detail); err != nil {
			return nil, err
		}
		return detail, nil
	default:
		return nil, err
	}
}

// deleteBackingFile removes the on-disk file behind a stored image path.
// Best-effort: a miss or I/O failure is logged by FileService and never fails
// the transaction.
func (s *SKUUpdateService) deleteBackingFile(imageName string) {
	fileName := filepath.Base(imageName)
	if fileName == "." || fileName == "/" {
		return
	}
	s.files.Delete(filepath.Join(s.imagesDir, fileName))
}

// fail converts an unexpected error into a generic failure result so the
// caller always receives a structured body, never an unhandled fault.
func (s *SKUUpdateService) fail(res *UpdateSkuMasterResult, err error) (*UpdateSkuMasterResult, error) {
	log.Error().Err(err).Msg("sku master update failed")
	res.Success = false
	res.Message = "An error occurred during update"
	res.Errors = append(res.Errors, err.Error())
	return res, err
}
