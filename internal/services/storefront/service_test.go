package storefront

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/paging"
	"seratus-studio/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products map[string]*catalog.Product
	artworks map[string]*catalog.Artwork

	lastProductQuery catalog.ProductQuery
	lastArtworkQuery catalog.ArtworkQuery
	replaced         bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[string]*catalog.Product{},
		artworks: map[string]*catalog.Artwork{},
	}
}

func (r *fakeRepo) ListProducts(_ context.Context, q catalog.ProductQuery) ([]catalog.Product, int64, error) {
	r.lastProductQuery = q
	var out []catalog.Product
	for _, p := range r.products {
		if !p.Active && !q.IncludeInactive {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) ProductFacets(_ context.Context, includeInactive bool) (catalog.ProductFacets, error) {
	return catalog.ProductFacets{Categories: []string{catalog.CategoryBrush}}, nil
}

func (r *fakeRepo) FindProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) CreateProduct(_ context.Context, p *catalog.Product) error {
	p.ID = uuid.NewString()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) SaveProduct(_ context.Context, p *catalog.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperr.NotFound("Product")
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) DeactivateProduct(_ context.Context, id string) error {
	p, ok := r.products[id]
	if !ok {
		return apperr.NotFound("Product")
	}
	p.Active = false
	return nil
}

func (r *fakeRepo) ListArtworks(_ context.Context, q catalog.ArtworkQuery) ([]catalog.Artwork, int64, error) {
	r.lastArtworkQuery = q
	var out []catalog.Artwork
	for _, a := range r.artworks {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) ArtworkFacets(_ context.Context) (catalog.ArtworkFacets, error) {
	return catalog.ArtworkFacets{Tags: []string{"ink"}}, nil
}

func (r *fakeRepo) FindArtwork(_ context.Context, id string) (*catalog.Artwork, error) {
	a, ok := r.artworks[id]
	if !ok {
		return nil, apperr.NotFound("Artwork")
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) CreateArtwork(_ context.Context, a *catalog.Artwork) error {
	a.ID = uuid.NewString()
	cp := *a
	r.artworks[a.ID] = &cp
	return nil
}

func (r *fakeRepo) SaveArtwork(_ context.Context, a *catalog.Artwork, replace bool) error {
	old, ok := r.artworks[a.ID]
	if !ok {
		return apperr.NotFound("Artwork")
	}
	r.replaced = replace
	cp := *a
	if !replace {
		cp.CreativeProcessImages = old.CreativeProcessImages
	}
	r.artworks[a.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteArtwork(_ context.Context, id string) error {
	if _, ok := r.artworks[id]; !ok {
		return apperr.NotFound("Artwork")
	}
	delete(r.artworks, id)
	return nil
}

type mockFiles struct {
	mock.Mock
}

func (m *mockFiles) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

var (
	admin  = &users.Principal{UserID: "a1", Email: "admin@seratus.studio", Role: users.RoleAdmin}
	member = &users.Principal{UserID: "u1", Email: "member@mail.com", Role: users.RoleUser}
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func validProduct() ProductInput {
	return ProductInput{
		Title:         " Neon Brush Pack ",
		Description:   "Twenty glowing brushes",
		Price:         150000,
		OriginalPrice: int64Ptr(200000),
		Discount:      10,
		Category:      catalog.CategoryBrush,
		FileURL:       "/files/neon.abr",
		PreviewImages: []string{"/uploads/products/a.png", " "},
		Tags:          []string{"neon", "neon", " glow "},
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})

	p, err := svc.CreateProduct(context.Background(), admin, validProduct())
	require.NoError(t, err)

	assert.Equal(t, "Neon Brush Pack", p.Title)
	assert.True(t, p.Active)
	assert.Equal(t, []string{"/uploads/products/a.png"}, []string(p.PreviewImages))
	assert.Equal(t, []string{"neon", "glow"}, []string(p.Tags))
	assert.Contains(t, repo.products, p.ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), &mockFiles{})

	tests := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{name: "missing title", mutate: func(in *ProductInput) { in.Title = "" }},
		{name: "missing description", mutate: func(in *ProductInput) { in.Description = " " }},
		{name: "negative price", mutate: func(in *ProductInput) { in.Price = -1 }},
		{name: "unknown category", mutate: func(in *ProductInput) { in.Category = "stickers" }},
		{name: "missing file", mutate: func(in *ProductInput) { in.FileURL = "" }},
		{name: "discount too high", mutate: func(in *ProductInput) { in.Discount = 101 }},
		{name: "original below price", mutate: func(in *ProductInput) { in.OriginalPrice = int64Ptr(1000) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProduct()
			tt.mutate(&in)
			_, err := svc.CreateProduct(context.Background(), admin, in)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, nil, validProduct())
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = svc.CreateProduct(ctx, member, validProduct())
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	err = svc.DeleteArtwork(ctx, member, "x")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.UploadImage(ctx, member, "products", media.Upload{})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	assert.Empty(t, repo.products)
}

func TestUpdateProductPatch(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, admin, validProduct())
	require.NoError(t, err)

	got, err := svc.UpdateProduct(ctx, admin, p.ID, ProductPatch{Discount: intPtr(25), Tags: &[]string{"Sale"}})
	require.NoError(t, err)
	assert.Equal(t, 25, got.Discount)
	assert.Equal(t, []string{"Sale"}, []string(got.Tags))
	assert.Equal(t, "Neon Brush Pack", got.Title)
	assert.EqualValues(t, 200000, *got.OriginalPrice)

	got, err = svc.UpdateProduct(ctx, admin, p.ID, ProductPatch{ClearOriginalPrice: true, Price: int64Ptr(250000)})
	require.NoError(t, err)
	assert.Nil(t, got.OriginalPrice)
	assert.EqualValues(t, 250000, repo.products[p.ID].Price)

	_, err = svc.UpdateProduct(ctx, admin, p.ID, ProductPatch{OriginalPrice: int64Ptr(100)})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.EqualValues(t, 250000, repo.products[p.ID].Price)

	_, err = svc.UpdateProduct(ctx, admin, uuid.NewString(), ProductPatch{Title: strPtr("x")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteProductHidesFromPublic(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, admin, validProduct())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, admin, p.ID))

	_, err = svc.GetProduct(ctx, nil, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := svc.GetProduct(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestListProducts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, admin, validProduct())
	require.NoError(t, err)
	hidden := validProduct()
	hidden.Active = boolPtr(false)
	_, err = svc.CreateProduct(ctx, admin, hidden)
	require.NoError(t, err)

	res, err := svc.ListProducts(ctx, nil, catalog.ProductQuery{IncludeInactive: true, Tags: []string{" neon "}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.False(t, repo.lastProductQuery.IncludeInactive)
	assert.Equal(t, []string{"neon"}, repo.lastProductQuery.Tags)
	assert.Equal(t, paging.Meta{Page: 1, Limit: paging.DefaultLimit, Total: 1, Pages: 1}, res.Pagination)
	assert.Equal(t, []string{catalog.CategoryBrush}, res.Facets.Categories)

	res, err = svc.ListProducts(ctx, admin, catalog.ProductQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	_, err = svc.ListProducts(ctx, nil, catalog.ProductQuery{Sort: "password"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.ListProducts(ctx, nil, catalog.ProductQuery{MinPrice: int64Ptr(10), MaxPrice: int64Ptr(5)})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestListProductsEmptyIsNotNil(t *testing.T) {
	svc := NewService(newFakeRepo(), &mockFiles{})

	res, err := svc.ListProducts(context.Background(), nil, catalog.ProductQuery{Page: paging.Page{Page: 3, Limit: 500}})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Equal(t, paging.MaxLimit, res.Pagination.Limit)
	assert.EqualValues(t, 0, res.Pagination.Total)
}

func validArtwork() ArtworkInput {
	return ArtworkInput{
		Title:        "Harbor at Dusk",
		Description:  "Digital painting",
		Images:       []string{"/uploads/artworks/harbor.jpg"},
		Tags:         []string{"Landscape"},
		ProcessSteps: []string{"Sketch", "Color"},
		CreativeProcessImages: []ProcessImageInput{
			{Title: "Sketch", ImageURL: "/uploads/artworks/sketch.jpg"},
			{Title: "Flats", ImageURL: "/uploads/artworks/flats.jpg"},
		},
		Featured: true,
	}
}

func TestCreateArtwork(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})

	a, err := svc.CreateArtwork(context.Background(), admin, validArtwork())
	require.NoError(t, err)
	assert.Equal(t, []string{"Landscape"}, []string(a.Tags))
	require.Len(t, a.CreativeProcessImages, 2)
	assert.Equal(t, "Flats", a.CreativeProcessImages[1].Title)

	in := validArtwork()
	in.Images = []string{" "}
	_, err = svc.CreateArtwork(context.Background(), admin, in)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	in = validArtwork()
	in.CreativeProcessImages = []ProcessImageInput{{Title: "no url"}}
	_, err = svc.CreateArtwork(context.Background(), admin, in)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestUpdateArtworkReplacesProcessImagesOnlyWhenGiven(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})
	ctx := context.Background()

	a, err := svc.CreateArtwork(ctx, admin, validArtwork())
	require.NoError(t, err)

	got, err := svc.UpdateArtwork(ctx, admin, a.ID, ArtworkPatch{Featured: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, repo.replaced)
	assert.False(t, got.Featured)
	assert.Len(t, repo.artworks[a.ID].CreativeProcessImages, 2)

	got, err = svc.UpdateArtwork(ctx, admin, a.ID, ArtworkPatch{
		CreativeProcessImages: &[]ProcessImageInput{{Title: "Final", ImageURL: "/uploads/artworks/final.jpg"}},
	})
	require.NoError(t, err)
	assert.True(t, repo.replaced)
	require.Len(t, got.CreativeProcessImages, 1)
	assert.Equal(t, "Final", repo.artworks[a.ID].CreativeProcessImages[0].Title)

	_, err = svc.UpdateArtwork(ctx, admin, a.ID, ArtworkPatch{Images: &[]string{}})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDeleteArtwork(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})
	ctx := context.Background()

	a, err := svc.CreateArtwork(ctx, admin, validArtwork())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteArtwork(ctx, admin, a.ID))

	_, err = svc.GetArtwork(ctx, a.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListArtworksRejectsUnknownSort(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &mockFiles{})

	_, err := svc.ListArtworks(context.Background(), catalog.ArtworkQuery{Sort: "price"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	res, err := svc.ListArtworks(context.Background(), catalog.ArtworkQuery{Tags: []string{"ink", " ink"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ink"}, repo.lastArtworkQuery.Tags)
	assert.Equal(t, []string{"ink"}, res.Facets.Tags)
}

func TestUploadImage(t *testing.T) {
	files := &mockFiles{}
	svc := NewService(newFakeRepo(), files)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	files.On("Save", mock.Anything, "uploads/artworks/1700000000000-my-sketch.png", mock.Anything, media.TypePNG).
		Return("/uploads/artworks/1700000000000-my-sketch.png", nil).Once()

	url, err := svc.UploadImage(context.Background(), admin, "artworks", media.Upload{
		Filename: "My Sketch.png",
		Data:     []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/artworks/1700000000000-my-sketch.png", url)
	files.AssertExpectations(t)

	_, err = svc.UploadImage(context.Background(), admin, "secrets", media.Upload{})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
