package site

import "time"

const (
	SettingLogoURL         = "logo_url"
	SettingProfileImageURL = "profile_image_url"
)

// Background is a site-wide backdrop image. At most one row is active;
// a partial unique index on is_active enforces it.
type Background struct {
	ID       string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	ImageURL string `gorm:"not null" json:"image_url"`
	IsActive bool   `gorm:"not null" json:"is_active"`
	FileSize int64  `gorm:"not null" json:"file_size"`
	FileType string `gorm:"not null" json:"file_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Setting struct {
	Key   string `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "site_settings"
}

type Settings struct {
	LogoURL         string      `json:"logo_url"`
	ProfileImageURL string      `json:"profile_image_url"`
	Background      *Background `json:"background"`
}
