package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/TFHGit/skumaster_api/internal/models"
)

// SKUMasterRepository handles data access for SKU masters, their images, and
// size details.
type SKUMasterRepository struct {
	db *sqlx.DB
}

// NewSKUMasterRepository creates a new SKUMasterRepository.
func NewSKUMasterRepository(db *sqlx.DB) *SKUMasterRepository {
	return &SKUMasterRepository{db: db}
}

// ListFilter holds filters for the paged SKU master listing. Words are the
// normalized search words; each one becomes a space-stripped-name-contains-word
// predicate and all predicates are ANDed.
type ListFilter struct {
	Words          []string
	FilterNoImages bool
	Offset         int
	Limit          int
}

// listWhere builds the shared WHERE clause for list and search queries.
func listWhere(f *ListFilter) (string, []interface{}) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	for _, w := range f.Words {
		where += fmt.Sprintf(" AND REPLACE(s.sku_name, ' ', '') ILIKE $%d", argIdx)
		args = append(args, "%"+w+"%")
		argIdx++
	}
	if f.FilterNoImages {
		where += ` AND NOT EXISTS (SELECT 1 FROM sku_master_images i WHERE i.master_id = s.sku_key)`
	}
	return where, args
}

// ListPage returns one page of SKU masters matching the filter plus the total
// count of matching rows. Ordering is by name with the key as tiebreaker so
// pagination stays stable when names collide.
func (r *SKUMasterRepository) ListPage(ctx context.Context, f *ListFilter) ([]models.SKUMaster, int, error) {
	where, args := listWhere(f)

	countQuery := `SELECT COUNT(1) FROM sku_masters s ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		`SELECT s.* FROM sku_masters s %s ORDER BY s.sku_name, s.sku_key LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, f.Limit, f.Offset)

	var masters []models.SKUMaster
	if err := r.db.SelectContext(ctx, &masters, listQuery, args...); err != nil {
		return nil, 0, err
	}
	return masters, total, nil
}

// ImagesByMasterKeys returns the images of the given masters grouped by master
// key. Masters without images are absent from the map.
func (r *SKUMasterRepository) ImagesByMasterKeys(ctx context.Context, keys []int) (map[int][]models.SKUMasterImage, error) {
	grouped := make(map[int][]models.SKUMasterImage)
	if len(keys) == 0 {
		return grouped, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM sku_master_images WHERE master_id IN (?) ORDER BY id`, keys)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var images []models.SKUMasterImage
	if err := r.db.SelectContext(ctx, &images, query, args...); err != nil {
		return nil, err
	}

	for _, img := range images {
		grouped[img.MasterID] = append(grouped[img.MasterID], img)
	}
	return grouped, nil
}

// GetDetail fetches a master with its images and its size detail row in one
// consistent read. The detail row is the first by id; the size-detail table
// carries a unique constraint on master_id, the ordering keeps reads
// deterministic for pre-constraint data. Returns sql.ErrNoRows when the master
// does not exist; a missing size detail is reported as a nil detail, not an
// error.
func (r *SKUMasterRepository) GetDetail(ctx context.Context, key int) (*models.SKUMaster, []models.SKUMasterImage, *models.SKUSizeDetail, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, nil, err
	}
	defer tx.Rollback()

	var master models.SKUMaster
	if err := tx.GetContext(ctx, &master, `SELECT * FROM sku_masters WHERE sku_key = $1`, key); err != nil {
		return nil, nil, nil, err
	}

	var images []models.SKUMasterImage
	if err := tx.SelectContext(ctx, &images, `SELECT * FROM sku_master_images WHERE master_id = $1 ORDER BY id`, key); err != nil {
		return nil, nil, nil, err
	}

	var detail *models.SKUSizeDetail
	var size models.SKUSizeDetail
	err = tx.GetContext(ctx, &size, `SELECT * FROM sku_size_details WHERE master_id = $1 ORDER BY id LIMIT 1`, key)
	switch err {
	case nil:
		detail = &size
	case sql.ErrNoRows:
		// no size detail recorded yet
	default:
		return nil, nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, nil, err
	}
	return &master, images, detail, nil
}

// SearchByName returns up to 50 masters whose space-stripped name contains all
// of the given normalized words.
func (r *SKUMasterRepository) SearchByName(ctx context.Context, words []string) ([]models.SKUMaster, error) {
	where, args := listWhere(&ListFilter{Words: words})
	query := `SELECT s.* FROM sku_masters s ` + where + ` ORDER BY s.sku_name, s.sku_key LIMIT 50`

	var masters []models.SKUMaster
	if err := r.db.SelectContext(ctx, &masters, query, args...); err != nil {
		return nil, err
	}
	return masters, nil
}

// UpdateBasicInfo updates the name and/or price of a master. Nil fields are
// left untouched. Returns false when no master has the given key.
func (r *SKUMasterRepository) UpdateBasicInfo(ctx context.Context, key int, name *string, price *int) (bool, error) {
	const q = `
        UPDATE sku_masters
        SET sku_name = COALESCE($2, sku_name),
            sku_price = COALESCE($3, sku_price)
        WHERE sku_key = $1`

	res, err := r.db.ExecContext(ctx, q, key, name, price)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ReferencedImageNames returns every stored image path currently referenced by
// an image row. Used by the orphan file sweep.
func (r *SKUMasterRepository) ReferencedImageNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.SelectContext(ctx, &names, `SELECT image_name FROM sku_master_images`); err != nil {
		return nil, err
	}
	return names, nil
}

// ListTables returns the table names of the public schema (debug endpoint).
func (r *SKUMasterRepository) ListTables(ctx context.Context) ([]string, error) {
	const q = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`
	var tables []string
	if err := r.db.SelectContext(ctx, &tables, q); err != nil {
		return nil, err
	}
	return tables, nil
}

// SampleRows returns the first few masters by key (debug endpoint).
func (r *SKUMasterRepository) SampleRows(ctx context.Context) ([]models.SKUMaster, error) {
	var masters []models.SKUMaster
	if err := r.db.SelectContext(ctx, &masters, `SELECT * FROM sku_masters ORDER BY sku_key LIMIT 5`); err != nil {
		return nil, err
	}
	return masters, nil
}
