package model

import "time"

// カートの明細。(product_id, format_id) の組で1行。
// unit_price_snapshot は追加時点の規格価格で、
// price は quantity × unit_price_snapshot のキャッシュ。
type CartItem struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID            int64     `gorm:"not null;index;uniqueIndex:uq_cart_product_format" json:"cart_id"`
	ProductID         int64     `gorm:"not null;uniqueIndex:uq_cart_product_format" json:"product_id"`
	FormatID          int64     `gorm:"not null;uniqueIndex:uq_cart_product_format" json:"format_id"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	Price             int64     `gorm:"not null" json:"price"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Matches は (productID, formatID) の組が一致するか。
// 同じ商品でも規格が違えば別明細。
func (i CartItem) Matches(productID int64, formatID int64) bool {
	return i.ProductID == productID && i.FormatID == formatID
}
