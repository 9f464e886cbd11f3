package models

import "time"

// SKUMaster represents one row of the product master table.
// The key is assigned externally; this service never creates or deletes masters.
type SKUMaster struct {
	SkuKey     int     `db:"sku_key" json:"skuKey"`
	SkuCode    string  `db:"sku_code" json:"skuCode"`
	SkuName    string  `db:"sku_name" json:"skuName"`
	SkuEName   *string `db:"sku_e_name" json:"skuEName,omitempty"`
	SkuBarcode *string `db:"sku_barcode" json:"skuBarcode,omitempty"`
	SkuPrice   *int    `db:"sku_price" json:"skuPrice"`
	SkuEnable  string  `db:"sku_enable" json:"skuEnable"`
	SkuPEnable string  `db:"sku_p_enable" json:"skuPEnable"`
	SkuSpec    *string `db:"sku_spec" json:"skuSpec,omitempty"`
	SkuUsage   *string `db:"sku_usage" json:"skuUsage,omitempty"`
	SkuRemark  *string `db:"sku_remark" json:"skuRemark,omitempty"`
}

// SKUMasterImage is one stored image reference belonging to a master.
// ImageName holds the root-relative URL path, e.g. /images/skumasters/<uuid>.jpg.
type SKUMasterImage struct {
	ID        int       `db:"id" json:"id"`
	MasterID  int       `db:"master_id" json:"masterId"`
	ImageName string    `db:"image_name" json:"imageName"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// SKUSizeDetail holds the optional physical dimensions of a master.
// At most one row exists per master (unique constraint on master_id).
type SKUSizeDetail struct {
	ID             int       `db:"id" json:"id"`
	MasterID       int       `db:"master_id" json:"masterId"`
	Width          *float64  `db:"width" json:"width"`
	Length         *float64  `db:"length" json:"length"`
	Height         *float64  `db:"height" json:"height"`
	Weight         *float64  `db:"weight" json:"weight"`
	DateTimeUpdate time.Time `db:"date_time_update" json:"dateTimeUpdate"`
}
