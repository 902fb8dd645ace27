package models

import (
	"time"

	"github.com/google/uuid"
)

type CartStatus string

const (
	CartCreated CartStatus = "created"
	CartPending CartStatus = "pending"
	CartPaid    CartStatus = "paid"
)

// Cart collects priced items for one user until checkout.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Status CartStatus `gorm:"size:16;not null;index" json:"status"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE;" json:"items,omitempty"`
}

// Total sums the snapshotted item prices.
func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Price
	}
	return total
}

// CartItem snapshots a catalog entity's final price at add time.
type CartItem struct {
	BaseModel
	CartID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_ref" json:"cart_id"`
	ContentType ContentKind `gorm:"size:32;not null;uniqueIndex:idx_cart_item_ref" json:"content_type"`
	MediaID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_ref" json:"media_id"`
	Price       int64       `gorm:"not null" json:"price"`
}

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// Order freezes a cart total at checkout and tracks its payment.
type Order struct {
	BaseModel
	UserID     uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	User       *User       `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	CartID     uuid.UUID   `gorm:"type:uuid;index;not null" json:"cart_id"`
	Cart       *Cart       `gorm:"constraint:OnDelete:CASCADE;" json:"cart,omitempty"`
	TotalPrice int64       `gorm:"not null" json:"total_price"`
	Status     OrderStatus `gorm:"size:16;not null;index" json:"status"`
	PaymentID  string      `gorm:"size:64" json:"payment_id"`
	PaidAt     *time.Time  `json:"paid_at,omitempty"`
}

type WalletEntryKind string

const (
	WalletDebit  WalletEntryKind = "debit"
	WalletCredit WalletEntryKind = "credit"
)

// WalletTransaction is an append-only ledger row for balance changes.
type WalletTransaction struct {
	BaseModel
	UserID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	OrderID *uuid.UUID      `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Kind    WalletEntryKind `gorm:"size:16;not null" json:"kind"`
	Amount  int64           `gorm:"not null" json:"amount"`
	Note    string          `json:"note"`
}
