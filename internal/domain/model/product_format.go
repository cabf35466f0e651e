package model

import "time"

// 商品の購入可能な規格（バリエーション）
type ProductFormat struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Price     int64     `gorm:"not null" json:"price"`
	Stock     int64     `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
