package catalog

import (
	"time"

	"github.com/lib/pq"
)

type Artwork struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	Images pq.StringArray `gorm:"type:text[];not null" json:"images"`
	Tags   pq.StringArray `gorm:"type:text[]" json:"tags"`

	// Legacy free-text steps, kept alongside the structured images.
	ProcessSteps pq.StringArray `gorm:"type:text[]" json:"process_steps"`

	CreativeProcessImages []CreativeProcessImage `gorm:"foreignKey:ArtworkID;references:ID;constraint:OnDelete:CASCADE;" json:"creative_process_images"`

	Featured bool `gorm:"not null;index" json:"featured"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreativeProcessImage struct {
	ID        string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ArtworkID string `gorm:"type:uuid;not null;index:idx_process_images_artwork_sort,priority:1" json:"-"`
	SortIndex int    `gorm:"not null;default:0;index:idx_process_images_artwork_sort,priority:2" json:"-"`

	Title       string `json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"not null" json:"image_url"`
}

func (CreativeProcessImage) TableName() string {
	return "artwork_process_images"
}

var ArtworkSorts = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"featured":   "featured",
}
