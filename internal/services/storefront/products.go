package storefront

import (
	"context"
	"strings"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/users"

	"github.com/rs/zerolog/log"
)

type ProductInput struct {
	Title         string
	Description   string
	Price         int64
	OriginalPrice *int64
	Discount      int
	Category      string
	FileURL       string
	WatermarkURL  string
	PreviewImages []string
	Tags          []string
	Active        *bool
}

// ProductPatch changes only the non-nil fields.
type ProductPatch struct {
	Title         *string
	Description   *string
	Price         *int64
	OriginalPrice *int64
	// ClearOriginalPrice removes the strike-through price.
	ClearOriginalPrice bool
	Discount           *int
	Category           *string
	FileURL            *string
	WatermarkURL       *string
	PreviewImages      *[]string
	Tags               *[]string
	Active             *bool
}

func validateProduct(p *catalog.Product) error {
	switch {
	case p.Title == "":
		return apperr.Validation("Title is required")
	case p.Description == "":
		return apperr.Validation("Description is required")
	case p.Price < 0:
		return apperr.Validation("Price cannot be negative")
	case !catalog.ValidCategory(p.Category):
		return apperr.Validation("Invalid category %q", p.Category)
	case p.FileURL == "":
		return apperr.Validation("File URL is required")
	case p.Discount < 0 || p.Discount > 100:
		return apperr.Validation("Discount must be between 0 and 100")
	case p.OriginalPrice != nil && *p.OriginalPrice < p.Price:
		return apperr.Validation("Original price cannot be lower than price")
	}
	return nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *Service) CreateProduct(ctx context.Context, caller *users.Principal, in ProductInput) (*catalog.Product, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}

	p := &catalog.Product{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Discount:      in.Discount,
		Category:      strings.TrimSpace(in.Category),
		FileURL:       strings.TrimSpace(in.FileURL),
		WatermarkURL:  strings.TrimSpace(in.WatermarkURL),
		PreviewImages: cleanList(in.PreviewImages),
		Tags:          catalog.NormalizeTags(in.Tags),
		Active:        true,
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", p.ID).Str("title", p.Title).Msg("product created")
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, caller *users.Principal, id string, patch ProductPatch) (*catalog.Product, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}

	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ClearOriginalPrice {
		p.OriginalPrice = nil
	} else if patch.OriginalPrice != nil {
		p.OriginalPrice = patch.OriginalPrice
	}
	if patch.Discount != nil {
		p.Discount = *patch.Discount
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.FileURL != nil {
		p.FileURL = strings.TrimSpace(*patch.FileURL)
	}
	if patch.WatermarkURL != nil {
		p.WatermarkURL = strings.TrimSpace(*patch.WatermarkURL)
	}
	if patch.PreviewImages != nil {
		p.PreviewImages = cleanList(*patch.PreviewImages)
	}
	if patch.Tags != nil {
		p.Tags = catalog.NormalizeTags(*patch.Tags)
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct hides the product; orders keep referencing it.
func (s *Service) DeleteProduct(ctx context.Context, caller *users.Principal, id string) error {
	if err := users.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.DeactivateProduct(ctx, id); err != nil {
		return err
	}
	log.Info().Str("product_id", id).Msg("product deactivated")
	return nil
}
