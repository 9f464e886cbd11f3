package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/TFHGit/skumaster_api/internal/models"
)

// UpdateTx is the unit of work behind the full SKU master update. Every write
// made through it is committed or rolled back together, so a crash mid-update
// leaves either all or none of the database mutations.
type UpdateTx interface {
	MasterByKey(key int) (*models.SKUMaster, error)
	SetMasterName(key int, name string) error
	ImageCount(key int) (int, error)
	FindImageByName(key int, fileName string) (*models.SKUMasterImage, error)
	ImageByID(id int) (*models.SKUMasterImage, error)
	DeleteImage(id int) error
	InsertImage(img *models.SKUMasterImage) error
	SizeDetailByMaster(key int) (*models.SKUSizeDetail, error)
	InsertSizeDetail(d *models.SKUSizeDetail) error
	UpdateSizeDetail(d *models.SKUSizeDetail) error
	Commit() error
	Rollback() error
}

// BeginUpdate opens the unit of work used by the full update endpoint.
func (r *SKUMasterRepository) BeginUpdate(ctx context.Context) (UpdateTx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &updateTx{tx: tx}, nil
}

type updateTx struct {
	tx *sqlx.Tx
}

func (u *updateTx) MasterByKey(key int) (*models.SKUMaster, error) {
	var master models.SKUMaster
	if err := u.tx.Get(&master, `SELECT * FROM sku_masters WHERE sku_key = $1`, key); err != nil {
		return nil, err
	}
	return &master, nil
}

func (u *updateTx) SetMasterName(key int, name string) error {
	_, err := u.tx.Exec(`UPDATE sku_masters SET sku_name = $2 WHERE sku_key = $1`, key, name)
	return err
}

func (u *updateTx) ImageCount(key int) (int, error) {
	var count int
	if err := u.tx.Get(&count, `SELECT COUNT(1) FROM sku_master_images WHERE master_id = $1`, key); err != nil {
		return 0, err
	}
	return count, nil
}

// FindImageByName matches an image of the given master by substring on its
// stored name, mirroring filename-based deletion requests that carry only the
// generated file name, not the full stored path.
func (u *updateTx) FindImageByName(key int, fileName string) (*models.SKUMasterImage, error) {
	const q = `
        SELECT * FROM sku_master_images
        WHERE master_id = $1 AND image_name LIKE '%' || $2 || '%'
        ORDER BY id LIMIT 1`

	var img models.SKUMasterImage
	if err := u.tx.Get(&img, q, key, fileName); err != nil {
		return nil, err
	}
	return &img, nil
}

func (u *updateTx) ImageByID(id int) (*models.SKUMasterImage, error) {
	var img models.SKUMasterImage
	if err := u.tx.Get(&img, `SELECT * FROM sku_master_images WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &img, nil
}

func (u *updateTx) DeleteImage(id int) error {
	_, err := u.tx.Exec(`DELETE FROM sku_master_images WHERE id = $1`, id)
	return err
}

func (u *updateTx) InsertImage(img *models.SKUMasterImage) error {
	const q = `
        INSERT INTO sku_master_images (master_id, image_name)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return u.tx.QueryRowx(q, img.MasterID, img.ImageName).Scan(&img.ID, &img.CreatedAt)
}

func (u *updateTx) SizeDetailByMaster(key int) (*models.SKUSizeDetail, error) {
	var detail models.SKUSizeDetail
	if err := u.tx.Get(&detail, `SELECT * FROM sku_size_details WHERE master_id = $1 ORDER BY id LIMIT 1`, key); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (u *updateTx) InsertSizeDetail(d *models.SKUSizeDetail) error {
	const q = `
        INSERT INTO sku_size_details (master_id, width, length, height, weight, date_time_update)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	return u.tx.QueryRowx(q, d.MasterID, d.Width, d.Length, d.Height, d.Weight, d.DateTimeUpdate).Scan(&d.ID)
}

func (u *updateTx) UpdateSizeDetail(d *models.SKUSizeDetail) error {
	const q = `
        UPDATE sku_size_details
        SET width = $2, length = $3, height = $4, weight = $5, date_time_update = $6
        WHERE id = $1`

	_, err := u.tx.Exec(q, d.ID, d.Width, d.Length, d.Height, d.Weight, d.DateTimeUpdate)
	return err
}

func (u *updateTx) Commit() error {
	return u.tx.Commit()
}

func (u *updateTx) Rollback() error {
	return u.tx.Rollback()
}
