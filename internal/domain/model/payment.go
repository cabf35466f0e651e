package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// ゲートウェイ決済の1回分。merchant_order_no で突き合わせる。
type Payment struct {
	ID              int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64         `gorm:"not null;index" json:"user_id"`
	MerchantOrderNo string        `gorm:"type:varchar(30);not null;uniqueIndex" json:"merchant_order_no"`
	Amount          int64         `gorm:"not null" json:"amount"`
	ItemDesc        string        `gorm:"type:varchar(255)" json:"item_desc"`
	Email           string        `gorm:"type:varchar(255)" json:"email"`
	Status          PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	TradeNo         string        `gorm:"type:varchar(30)" json:"trade_no"`
	PaymentType     string        `gorm:"type:varchar(20)" json:"payment_type"`
	PaidAt          *time.Time    `json:"paid_at"`
	CreatedAt       time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
