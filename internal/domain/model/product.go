package model

import (
	"time"

	"gorm.io/gorm"
)

// 割引タグのコード
const (
	TagFreeShipping int64 = 0
	TagDiscount     int64 = 1
)

// 支払い方法コード（1=クレジットカード）
const (
	PayMethodCreditCard int64 = 1
	PayMethodATM        int64 = 2
	PayMethodCVS        int64 = 3
)

type Product struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID     int64           `gorm:"not null;index" json:"seller_id"`
	Seller       Seller          `gorm:"foreignKey:SellerID" json:"-"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Images       []string        `gorm:"serializer:json" json:"images"`
	Introduction string          `gorm:"type:text" json:"introduction"`
	Ingredient   string          `gorm:"type:varchar(255)" json:"ingredient"`
	Production   string          `gorm:"type:varchar(255)" json:"production"`
	Origin       string          `gorm:"type:varchar(255)" json:"origin"`
	Category     string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Fare         int64           `gorm:"not null;default:0" json:"fare"`
	Pay          []int64         `gorm:"serializer:json" json:"pay"`
	Tags         []int64         `gorm:"serializer:json" json:"tags"`
	Sold         int64           `gorm:"not null;default:0" json:"sold"`
	IsOnshelf    bool            `gorm:"not null;default:false" json:"is_onshelf"`
	Formats      []ProductFormat `gorm:"foreignKey:ProductID" json:"formats"`
	Reviews      []Review        `gorm:"foreignKey:ProductID" json:"reviews"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// FindFormat はIDで規格を探す。無ければnil。
func (p *Product) FindFormat(formatID int64) *ProductFormat {
	for i := range p.Formats {
		if p.Formats[i].ID == formatID {
			return &p.Formats[i]
		}
	}
	return nil
}
