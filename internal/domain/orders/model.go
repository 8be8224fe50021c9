package orders

import (
	"time"

	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/paging"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"

	DeliveryPending    = "pending"
	DeliveryProcessing = "processing"
	DeliveryDelivered  = "delivered"
	DeliveryFailed     = "failed"
)

// DownloadTTL is how long a generated download link stays valid.
const DownloadTTL = 30 * 24 * time.Hour

type Order struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	CustomerName    string `gorm:"not null" json:"customer_name"`
	CustomerEmail   string `gorm:"not null;index" json:"customer_email"`
	CustomerPhone   string `gorm:"not null" json:"customer_phone"`
	CustomerAddress string `gorm:"type:text;not null" json:"customer_address"`

	ProductID string           `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *catalog.Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`

	Quantity    int   `gorm:"not null" json:"quantity"`
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	PaymentStatus  string `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	DeliveryStatus string `gorm:"type:varchar(20);not null;index" json:"delivery_status"`

	PaymentProof    *string    `json:"payment_proof,omitempty"`
	DownloadLink    *string    `json:"download_link"`
	DownloadExpires *time.Time `json:"download_expires"`
	Notes           *string    `gorm:"type:text" json:"notes,omitempty"`

	// Set the first time the order's quantity is added to the product's downloads.
	DownloadsCounted bool `gorm:"not null" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) Stage() (Stage, error) {
	return StageOf(o.PaymentStatus, o.DeliveryStatus)
}

// IsDeliveredAndPaid reports the only condition under which a download may exist.
func (o *Order) IsDeliveredAndPaid() bool {
	return o.PaymentStatus == PaymentPaid && o.DeliveryStatus == DeliveryDelivered
}

// IssueDownload sets the link and restarts the expiry window.
func (o *Order) IssueDownload(link string, now time.Time) {
	expires := now.Add(DownloadTTL)
	o.DownloadLink = &link
	o.DownloadExpires = &expires
}

// ClaimDownloadCount returns true exactly once per order.
func (o *Order) ClaimDownloadCount() bool {
	if o.DownloadsCounted {
		return false
	}
	o.DownloadsCounted = true
	return true
}

type ListFilter struct {
	Email          string
	PaymentStatus  string
	DeliveryStatus string
	Page           paging.Page
}

type Stats struct {
	TotalOrders   int64            `json:"total_orders"`
	TotalRevenue  int64            `json:"total_revenue"`
	RecentRevenue int64            `json:"recent_revenue"`
	ByStage       map[string]int64 `json:"by_stage"`
}
