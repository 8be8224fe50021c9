package storefront

import (
	"bytes"
	"context"
	"io"
	"time"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/paging"
	"seratus-studio/internal/domain/users"

	"github.com/rs/zerolog/log"
)

type Repository interface {
	ListProducts(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, int64, error)
	ProductFacets(ctx context.Context, includeInactive bool) (catalog.ProductFacets, error)
	FindProduct(ctx context.Context, id string) (*catalog.Product, error)
	CreateProduct(ctx context.Context, p *catalog.Product) error
	SaveProduct(ctx context.Context, p *catalog.Product) error
	DeactivateProduct(ctx context.Context, id string) error

	ListArtworks(ctx context.Context, q catalog.ArtworkQuery) ([]catalog.Artwork, int64, error)
	ArtworkFacets(ctx context.Context) (catalog.ArtworkFacets, error)
	FindArtwork(ctx context.Context, id string) (*catalog.Artwork, error)
	CreateArtwork(ctx context.Context, a *catalog.Artwork) error
	SaveArtwork(ctx context.Context, a *catalog.Artwork, replaceProcessImages bool) error
	DeleteArtwork(ctx context.Context, id string) error
}

type FileSaver interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type Service struct {
	repo  Repository
	files FileSaver
	now   func() time.Time
}

func NewService(repo Repository, files FileSaver) *Service {
	return &Service{repo: repo, files: files, now: time.Now}
}

// Image folders admins may upload catalog pictures into.
var imageFolders = map[string]string{
	"products": "uploads/products",
	"artworks": "uploads/artworks",
}

// UploadImage stores a catalog picture and returns its URL for use in
// preview_images, images or creative process entries.
func (s *Service) UploadImage(ctx context.Context, caller *users.Principal, folder string, up media.Upload) (string, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return "", err
	}
	dir, ok := imageFolders[folder]
	if !ok {
		return "", apperr.Validation("Unknown upload folder %q", folder)
	}
	contentType, err := media.Validate(up)
	if err != nil {
		return "", err
	}

	key := media.ObjectKey(dir, s.now().UnixMilli(), up.Filename, contentType)
	url, err := s.files.Save(ctx, key, bytes.NewReader(up.Data), contentType)
	if err != nil {
		return "", apperr.Internal("store image", err)
	}
	log.Info().Str("url", url).Int64("size", up.Size()).Msg("catalog image uploaded")
	return url, nil
}

type ProductList struct {
	Items      []catalog.Product     `json:"products"`
	Pagination paging.Meta           `json:"pagination"`
	Facets     catalog.ProductFacets `json:"facets"`
}

// ListProducts returns one page of the catalog plus facets over the whole
// visible set. Only admins may see inactive products.
func (s *Service) ListProducts(ctx context.Context, caller *users.Principal, q catalog.ProductQuery) (*ProductList, error) {
	if !users.IsAdmin(caller) {
		q.IncludeInactive = false
	}
	if q.Sort != "" {
		if _, ok := catalog.ProductSorts[q.Sort]; !ok {
			return nil, apperr.Validation("Invalid sort %q", q.Sort)
		}
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperr.Validation("min_price cannot exceed max_price")
	}
	q.Tags = catalog.NormalizeTags(q.Tags)
	q.Page = q.Page.Normalize()

	items, total, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	facets, err := s.repo.ProductFacets(ctx, q.IncludeInactive)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []catalog.Product{}
	}
	return &ProductList{Items: items, Pagination: paging.NewMeta(q.Page, total), Facets: facets}, nil
}

func (s *Service) GetProduct(ctx context.Context, caller *users.Principal, id string) (*catalog.Product, error) {
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active && !users.IsAdmin(caller) {
		return nil, apperr.NotFound("Product")
	}
	return p, nil
}

type ArtworkList struct {
	Items      []catalog.Artwork     `json:"artworks"`
	Pagination paging.Meta           `json:"pagination"`
	Facets     catalog.ArtworkFacets `json:"facets"`
}

// ListArtworks defaults to featured first, newest first.
func (s *Service) ListArtworks(ctx context.Context, q catalog.ArtworkQuery) (*ArtworkList, error) {
	if q.Sort != "" {
		if _, ok := catalog.ArtworkSorts[q.Sort]; !ok {
			return nil, apperr.Validation("Invalid sort %q", q.Sort)
		}
	}
	q.Tags = catalog.NormalizeTags(q.Tags)
	q.Page = q.Page.Normalize()

	items, total, err := s.repo.ListArtworks(ctx, q)
	if err != nil {
		return nil, err
	}
	facets, err := s.repo.ArtworkFacets(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []catalog.Artwork{}
	}
	return &ArtworkList{Items: items, Pagination: paging.NewMeta(q.Page, total), Facets: facets}, nil
}

func (s *Service) GetArtwork(ctx context.Context, id string) (*catalog.Artwork, error) {
	return s.repo.FindArtwork(ctx, id)
}
