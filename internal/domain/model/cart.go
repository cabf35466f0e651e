package model

import "time"

// 1ユーザーにつきカートは1つ。初回追加時に作られ、
// クリアで空になるがレコード自体は消さない。
type Cart struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	TotalPrice int64     `gorm:"not null;default:0" json:"total_price"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
