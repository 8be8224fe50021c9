package storefront

import (
	"context"
	"strings"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/users"

	"github.com/rs/zerolog/log"
)

type ProcessImageInput struct {
	Title       string
	Description string
	ImageURL    string
}

type ArtworkInput struct {
	Title                 string
	Description           string
	Images                []string
	Tags                  []string
	ProcessSteps          []string
	CreativeProcessImages []ProcessImageInput
	Featured              bool
}

type ArtworkPatch struct {
	Title                 *string
	Description           *string
	Images                *[]string
	Tags                  *[]string
	ProcessSteps          *[]string
	CreativeProcessImages *[]ProcessImageInput
	Featured              *bool
}

func processImages(in []ProcessImageInput) ([]catalog.CreativeProcessImage, error) {
	out := make([]catalog.CreativeProcessImage, 0, len(in))
	for i, img := range in {
		url := strings.TrimSpace(img.ImageURL)
		if url == "" {
			return nil, apperr.Validation("Creative process image %d needs an image URL", i+1)
		}
		out = append(out, catalog.CreativeProcessImage{
			Title:       strings.TrimSpace(img.Title),
			Description: strings.TrimSpace(img.Description),
			ImageURL:    url,
		})
	}
	return out, nil
}

func validateArtwork(a *catalog.Artwork) error {
	switch {
	case a.Title == "":
		return apperr.Validation("Title is required")
	case a.Description == "":
		return apperr.Validation("Description is required")
	case len(a.Images) == 0:
		return apperr.Validation("At least one image is required")
	}
	return nil
}

func (s *Service) CreateArtwork(ctx context.Context, caller *users.Principal, in ArtworkInput) (*catalog.Artwork, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}

	imgs, err := processImages(in.CreativeProcessImages)
	if err != nil {
		return nil, err
	}
	a := &catalog.Artwork{
		Title:                 strings.TrimSpace(in.Title),
		Description:           strings.TrimSpace(in.Description),
		Images:                cleanList(in.Images),
		Tags:                  catalog.NormalizeTags(in.Tags),
		ProcessSteps:          cleanList(in.ProcessSteps),
		CreativeProcessImages: imgs,
		Featured:              in.Featured,
	}
	if err := validateArtwork(a); err != nil {
		return nil, err
	}

	if err := s.repo.CreateArtwork(ctx, a); err != nil {
		return nil, err
	}
	log.Info().Str("artwork_id", a.ID).Int("images", len(a.Images)).Msg("artwork created")
	return a, nil
}

// UpdateArtwork applies the patch. Supplying creative process images
// replaces the whole list.
func (s *Service) UpdateArtwork(ctx context.Context, caller *users.Principal, id string, patch ArtworkPatch) (*catalog.Artwork, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}

	a, err := s.repo.FindArtwork(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		a.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		a.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Images != nil {
		a.Images = cleanList(*patch.Images)
	}
	if patch.Tags != nil {
		a.Tags = catalog.NormalizeTags(*patch.Tags)
	}
	if patch.ProcessSteps != nil {
		a.ProcessSteps = cleanList(*patch.ProcessSteps)
	}
	if patch.Featured != nil {
		a.Featured = *patch.Featured
	}
	replace := patch.CreativeProcessImages != nil
	if replace {
		imgs, err := processImages(*patch.CreativeProcessImages)
		if err != nil {
			return nil, err
		}
		a.CreativeProcessImages = imgs
	}

	if err := validateArtwork(a); err != nil {
		return nil, err
	}
	if err := s.repo.SaveArtwork(ctx, a, replace); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteArtwork(ctx context.Context, caller *users.Principal, id string) error {
	if err := users.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.DeleteArtwork(ctx, id); err != nil {
		return err
	}
	log.Info().Str("artwork_id", id).Msg("artwork deleted")
	return nil
}
