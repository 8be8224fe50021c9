package shop

import (
	"bytes"
	"encoding/json"

	"seratus-studio/internal/services/storefront"
)

// nullableInt64 tells an absent field apart from an explicit null.
type nullableInt64 struct {
	Set   bool
	Value *int64
}

func (n *nullableInt64) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

type productRequest struct {
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	Price         *int64        `json:"price"`
	OriginalPrice nullableInt64 `json:"original_price"`
	Discount      *int          `json:"discount"`
	Category      *string       `json:"category"`
	FileURL       *string       `json:"file_url"`
	WatermarkURL  *string       `json:"watermark_url"`
	PreviewImages *[]string     `json:"preview_images"`
	Tags          *[]string     `json:"tags"`
	Active        *bool         `json:"active"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (r productRequest) input() storefront.ProductInput {
	return storefront.ProductInput{
		Title:         deref(r.Title),
		Description:   deref(r.Description),
		Price:         deref(r.Price),
		OriginalPrice: r.OriginalPrice.Value,
		Discount:      deref(r.Discount),
		Category:      deref(r.Category),
		FileURL:       deref(r.FileURL),
		WatermarkURL:  deref(r.WatermarkURL),
		PreviewImages: deref(r.PreviewImages),
		Tags:          deref(r.Tags),
		Active:        r.Active,
	}
}

func (r productRequest) patch() storefront.ProductPatch {
	return storefront.ProductPatch{
		Title:              r.Title,
		Description:        r.Description,
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice.Value,
		ClearOriginalPrice: r.OriginalPrice.Set && r.OriginalPrice.Value == nil,
		Discount:           r.Discount,
		Category:           r.Category,
		FileURL:            r.FileURL,
		WatermarkURL:       r.WatermarkURL,
		PreviewImages:      r.PreviewImages,
		Tags:               r.Tags,
		Active:             r.Active,
	}
}

type processImageRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type artworkRequest struct {
	Title                 *string                `json:"title"`
	Description           *string                `json:"description"`
	Images                *[]string              `json:"images"`
	Tags                  *[]string              `json:"tags"`
	ProcessSteps          *[]string              `json:"process_steps"`
	CreativeProcessImages *[]processImageRequest `json:"creative_process_images"`
	Featured              *bool                  `json:"featured"`
}

func (r artworkRequest) processImages() *[]storefront.ProcessImageInput {
	if r.CreativeProcessImages == nil {
		return nil
	}
	out := make([]storefront.ProcessImageInput, 0, len(*r.CreativeProcessImages))
	for _, img := range *r.CreativeProcessImages {
		out = append(out, storefront.ProcessImageInput{Title: img.Title, Description: img.Description, ImageURL: img.ImageURL})
	}
	return &out
}

func (r artworkRequest) input() storefront.ArtworkInput {
	return storefront.ArtworkInput{
		Title:                 deref(r.Title),
		Description:           deref(r.Description),
		Images:                deref(r.Images),
		Tags:                  deref(r.Tags),
		ProcessSteps:          deref(r.ProcessSteps),
		CreativeProcessImages: deref(r.processImages()),
		Featured:              deref(r.Featured),
	}
}

func (r artworkRequest) patch() storefront.ArtworkPatch {
	return storefront.ArtworkPatch{
		Title:                 r.Title,
		Description:           r.Description,
		Images:                r.Images,
		Tags:                  r.Tags,
		ProcessSteps:          r.ProcessSteps,
		CreativeProcessImages: r.processImages(),
		Featured:              r.Featured,
	}
}
