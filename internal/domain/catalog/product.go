package catalog

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	CategoryIllustration = "illustration"
	CategoryWallpaper    = "wallpaper"
	CategoryBrush        = "brush"
	CategoryTemplate     = "template"
	CategoryFont         = "font"
	CategoryOther        = "other"
)

var Categories = []string{
	CategoryIllustration,
	CategoryWallpaper,
	CategoryBrush,
	CategoryTemplate,
	CategoryFont,
	CategoryOther,
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Prices are whole currency units.
	Price         int64  `gorm:"not null;index" json:"price"`
	OriginalPrice *int64 `json:"original_price,omitempty"`
	Discount      int    `gorm:"not null;default:0" json:"discount"`

	Category      string         `gorm:"type:varchar(32);not null;index" json:"category"`
	FileURL       string         `gorm:"not null" json:"file_url"`
	WatermarkURL  string         `json:"watermark_url,omitempty"`
	PreviewImages pq.StringArray `gorm:"type:text[]" json:"preview_images"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`

	Downloads int64 `gorm:"not null;default:0" json:"downloads"`
	Active    bool  `gorm:"not null;index" json:"active"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FinalPrice applies a percentage discount with integer arithmetic.
func FinalPrice(price int64, discount int) int64 {
	return price - price*int64(discount)/100
}

func (p *Product) FinalPrice() int64 {
	return FinalPrice(p.Price, p.Discount)
}

// ProductSorts maps accepted sort keys to columns.
var ProductSorts = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"title":      "title",
	"downloads":  "downloads",
}

// NormalizeTags trims, drops empties and de-duplicates while keeping order.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
