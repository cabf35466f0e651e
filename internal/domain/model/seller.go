package model

import "time"

type Seller struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Brand        string    `gorm:"type:varchar(255);not null" json:"brand"`
	BossName     string    `gorm:"type:varchar(255)" json:"boss_name"`
	Avatar       string    `gorm:"type:varchar(500)" json:"avatar"`
	Introduction string    `gorm:"type:text" json:"introduction"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 賣家のキャンペーン。賣家詳細で一覧表示する。
type Activity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID  int64     `gorm:"not null;index" json:"seller_id"`
	Image     string    `gorm:"type:varchar(500)" json:"image"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
