package ordering

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/orders"
	"seratus-studio/internal/domain/paging"
	"seratus-studio/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products map[string]*catalog.Product
	orders   map[string]*orders.Order

	lastFilter orders.ListFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[string]*catalog.Product{},
		orders:   map[string]*orders.Order{},
	}
}

func (r *fakeRepo) addProduct(p catalog.Product) *catalog.Product {
	p.ID = uuid.NewString()
	r.products[p.ID] = &p
	return &p
}

func (r *fakeRepo) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeRepo) FindProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) IncrementDownloads(_ context.Context, productID string, by int) error {
	p, ok := r.products[productID]
	if !ok {
		return apperr.NotFound("Product")
	}
	p.Downloads += int64(by)
	return nil
}

func (r *fakeRepo) CreateOrder(_ context.Context, o *orders.Order) error {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeRepo) FindOrder(ctx context.Context, id string) (*orders.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	cp := *o
	cp.Product, _ = r.FindProduct(ctx, o.ProductID)
	return &cp, nil
}

func (r *fakeRepo) LockOrder(ctx context.Context, id string) (*orders.Order, error) {
	return r.FindOrder(ctx, id)
}

func (r *fakeRepo) SaveOrder(_ context.Context, o *orders.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return apperr.NotFound("Order")
	}
	cp := *o
	cp.Product = nil
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteOrder(_ context.Context, id string) error {
	if _, ok := r.orders[id]; !ok {
		return apperr.NotFound("Order")
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeRepo) ListOrders(_ context.Context, f orders.ListFilter) ([]orders.Order, int64, error) {
	r.lastFilter = f
	var out []orders.Order
	for _, o := range r.orders {
		if f.Email != "" && !strings.EqualFold(o.CustomerEmail, f.Email) {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) OrderStats(_ context.Context, since time.Time) (orders.Stats, error) {
	return orders.Stats{TotalOrders: int64(len(r.orders))}, nil
}

type mockFiles struct {
	mock.Mock
}

func (m *mockFiles) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

var (
	admin    = &users.Principal{UserID: "a1", Email: "admin@seratus.studio", Role: users.RoleAdmin}
	customer = &users.Principal{UserID: "u1", Email: "buyer@mail.com", Role: users.RoleUser}
)

func strPtr(s string) *string { return &s }

func validInput(productID string, qty int) CreateInput {
	return CreateInput{
		CustomerName:    "Budi",
		CustomerEmail:   "buyer@mail.com",
		CustomerPhone:   "+62 812 0000",
		CustomerAddress: "Jl. Merdeka 1, Bandung",
		ProductID:       productID,
		Quantity:        qty,
	}
}

func newService(repo *fakeRepo, now time.Time) *Service {
	svc := NewService(repo, &mockFiles{})
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateComputesTotalServerSide(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Title: "Brush Pack", Price: 100000, Discount: 20, FileURL: "/files/brush.zip", Active: true})
	svc := newService(repo, time.Now())

	o, err := svc.Create(context.Background(), validInput(p.ID, 2))
	require.NoError(t, err)

	assert.EqualValues(t, 160000, o.TotalAmount)
	assert.Equal(t, orders.PaymentPending, o.PaymentStatus)
	assert.Equal(t, orders.DeliveryPending, o.DeliveryStatus)
	assert.Nil(t, o.DownloadLink)
	assert.Nil(t, o.DownloadExpires)
}

func TestCreateValidation(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Price: 1000, Active: true})
	hidden := repo.addProduct(catalog.Product{Price: 1000, Active: false})
	svc := newService(repo, time.Now())

	tests := []struct {
		name   string
		mutate func(*CreateInput)
		kind   error
	}{
		{name: "missing name", mutate: func(in *CreateInput) { in.CustomerName = "  " }, kind: apperr.ErrValidation},
		{name: "bad email", mutate: func(in *CreateInput) { in.CustomerEmail = "nope" }, kind: apperr.ErrValidation},
		{name: "missing phone", mutate: func(in *CreateInput) { in.CustomerPhone = "" }, kind: apperr.ErrValidation},
		{name: "missing address", mutate: func(in *CreateInput) { in.CustomerAddress = "" }, kind: apperr.ErrValidation},
		{name: "zero quantity", mutate: func(in *CreateInput) { in.Quantity = 0 }, kind: apperr.ErrValidation},
		{name: "unknown product", mutate: func(in *CreateInput) { in.ProductID = uuid.NewString() }, kind: apperr.ErrNotFound},
		{name: "inactive product", mutate: func(in *CreateInput) { in.ProductID = hidden.ID }, kind: apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(p.ID, 1)
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
	assert.Empty(t, repo.orders)
}

func TestCreateStoresPaymentProof(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Price: 1000, Active: true})
	files := &mockFiles{}
	svc := NewService(repo, files)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	files.On("Save", mock.Anything, "uploads/payment-proofs/1700000000000-transfer.png", mock.Anything, media.TypePNG).
		Return("/uploads/payment-proofs/1700000000000-transfer.png", nil).Once()

	in := validInput(p.ID, 1)
	in.PaymentProof = &media.Upload{Filename: "Transfer.png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}

	o, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, o.PaymentProof)
	assert.Equal(t, "/uploads/payment-proofs/1700000000000-transfer.png", *o.PaymentProof)
	files.AssertExpectations(t)
}

func TestUpdateStatusDeliveredIssuesLink(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Price: 5000, FileURL: "/files/font.otf", Active: true})
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newService(repo, now)
	ctx := context.Background()

	o, err := svc.Create(ctx, validInput(p.ID, 3))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{PaymentStatus: strPtr(orders.PaymentPaid)})
	require.NoError(t, err)
	assert.EqualValues(t, 0, repo.products[p.ID].Downloads)

	got, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{DeliveryStatus: strPtr(orders.DeliveryDelivered)})
	require.NoError(t, err)
	require.NotNil(t, got.DownloadLink)
	require.NotNil(t, got.DownloadExpires)
	assert.Equal(t, "/files/font.otf", *got.DownloadLink)
	assert.Equal(t, now.Add(orders.DownloadTTL), *got.DownloadExpires)
	assert.EqualValues(t, 3, repo.products[p.ID].Downloads)

	// editing notes afterwards neither recounts nor moves the expiry
	svc.now = func() time.Time { return now.Add(time.Hour) }
	got, err = svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{Notes: strPtr("sent via email")})
	require.NoError(t, err)
	assert.Equal(t, now.Add(orders.DownloadTTL), *got.DownloadExpires)
	assert.Equal(t, "sent via email", *got.Notes)
	assert.EqualValues(t, 3, repo.products[p.ID].Downloads)
}

func TestUpdateStatusReverseOrderKeepsInvariant(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Price: 5000, FileURL: "/files/art.png", Active: true})
	svc := newService(repo, time.Now())
	ctx := context.Background()

	o, err := svc.Create(ctx, validInput(p.ID, 1))
	require.NoError(t, err)

	// delivered while payment is still pending has no stage
	_, err = svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{DeliveryStatus: strPtr(orders.DeliveryDelivered)})
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	assert.Nil(t, repo.orders[o.ID].DownloadLink)
	assert.Equal(t, orders.DeliveryPending, repo.orders[o.ID].DeliveryStatus)

	_, err = svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{PaymentStatus: strPtr(orders.PaymentPaid)})
	require.NoError(t, err)
	assert.Nil(t, repo.orders[o.ID].DownloadLink)

	got, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{DeliveryStatus: strPtr(orders.DeliveryDelivered)})
	require.NoError(t, err)
	assert.True(t, got.IsDeliveredAndPaid())
	assert.NotNil(t, got.DownloadLink)
	assert.EqualValues(t, 1, repo.products[p.ID].Downloads)
}

func TestUpdateStatusRules(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Price: 5000, FileURL: "/files/art.png", Active: true})
	svc := newService(repo, time.Now())
	ctx := context.Background()

	o, err := svc.Create(ctx, validInput(p.ID, 1))
	require.NoError(t, err)

	t.Run("non admin is forbidden", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, customer, o.ID, StatusPatch{PaymentStatus: strPtr(orders.PaymentPaid)})
		assert.True(t, errors.Is(err, apperr.ErrForbidden))
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, uuid.NewString(), StatusPatch{PaymentStatus: strPtr(orders.PaymentPaid)})
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})

	t.Run("unknown status value", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{PaymentStatus: strPtr("maybe")})
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("link before delivery", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{DownloadLink: strPtr("https://cdn/x.zip")})
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	})

	t.Run("custom link on delivery", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{PaymentStatus: strPtr(orders.PaymentPaid)})
		require.NoError(t, err)
		got, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{
			DeliveryStatus: strPtr(orders.DeliveryDelivered),
			DownloadLink:   strPtr("https://cdn/x.zip"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/x.zip", *got.DownloadLink)
	})

	t.Run("refund keeps history", func(t *testing.T) {
		got, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{PaymentStatus: strPtr(orders.PaymentRefunded)})
		require.NoError(t, err)
		stage, err := got.Stage()
		require.NoError(t, err)
		assert.Equal(t, orders.StageRefunded, stage)
		assert.EqualValues(t, 1, repo.products[p.ID].Downloads)
	})

	t.Run("refunded is terminal", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, o.ID, StatusPatch{PaymentStatus: strPtr(orders.PaymentPaid)})
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	})
}

func TestListForcesOwnEmail(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Price: 1000, Active: true})
	svc := newService(repo, time.Now())
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput(p.ID, 1))
	require.NoError(t, err)
	other := validInput(p.ID, 1)
	other.CustomerEmail = "someone@else.com"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	res, err := svc.List(ctx, customer, orders.ListFilter{Email: "someone@else.com", Page: paging.Page{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, customer.Email, repo.lastFilter.Email)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "buyer@mail.com", res.Items[0].CustomerEmail)

	res, err = svc.List(ctx, admin, orders.ListFilter{Page: paging.Page{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.EqualValues(t, 2, res.Pagination.Total)
	assert.Equal(t, 1, res.Pagination.Pages)

	_, err = svc.List(ctx, nil, orders.ListFilter{})
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestGetAndDelete(t *testing.T) {
	repo := newFakeRepo()
	p := repo.addProduct(catalog.Product{Price: 1000, Active: true})
	svc := newService(repo, time.Now())
	ctx := context.Background()

	o, err := svc.Create(ctx, validInput(p.ID, 1))
	require.NoError(t, err)

	_, err = svc.Get(ctx, customer, o.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, &users.Principal{Email: "x@y.com", Role: users.RoleUser}, o.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	assert.True(t, errors.Is(svc.Delete(ctx, customer, o.ID), apperr.ErrForbidden))
	require.NoError(t, svc.Delete(ctx, admin, o.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, admin, o.ID), apperr.ErrNotFound))
}
