package ordering

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/orders"
	"seratus-studio/internal/domain/paging"
	"seratus-studio/internal/domain/users"

	"github.com/rs/zerolog/log"
)

type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	FindProduct(ctx context.Context, id string) (*catalog.Product, error)
	IncrementDownloads(ctx context.Context, productID string, by int) error

	CreateOrder(ctx context.Context, o *orders.Order) error
	FindOrder(ctx context.Context, id string) (*orders.Order, error)
	LockOrder(ctx context.Context, id string) (*orders.Order, error)
	SaveOrder(ctx context.Context, o *orders.Order) error
	DeleteOrder(ctx context.Context, id string) error
	ListOrders(ctx context.Context, f orders.ListFilter) ([]orders.Order, int64, error)
	OrderStats(ctx context.Context, since time.Time) (orders.Stats, error)
}

type FileSaver interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

const paymentProofDir = "uploads/payment-proofs"

type Service struct {
	repo  Repository
	files FileSaver
	now   func() time.Time
}

func NewService(repo Repository, files FileSaver) *Service {
	return &Service{repo: repo, files: files, now: time.Now}
}

type CreateInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	ProductID       string
	Quantity        int
	PaymentProof    *media.Upload
}

func (in *CreateInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	in.ProductID = strings.TrimSpace(in.ProductID)
}

func (in CreateInput) validate() error {
	switch {
	case in.CustomerName == "":
		return apperr.Validation("Customer name is required")
	case in.CustomerEmail == "":
		return apperr.Validation("Customer email is required")
	case !users.IsEmailValid(in.CustomerEmail):
		return apperr.Validation("Invalid email format")
	case in.CustomerPhone == "":
		return apperr.Validation("Customer phone is required")
	case in.CustomerAddress == "":
		return apperr.Validation("Customer address is required")
	case in.ProductID == "":
		return apperr.Validation("Product is required")
	case in.Quantity < 1:
		return apperr.Validation("Quantity must be at least 1")
	}
	return nil
}

// Create records a checkout. The total is always recomputed from the
// product's current price and discount.
func (s *Service) Create(ctx context.Context, in CreateInput) (*orders.Order, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, apperr.NotFound("Product")
	}

	order := &orders.Order{
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		ProductID:       product.ID,
		Quantity:        in.Quantity,
		TotalAmount:     product.FinalPrice() * int64(in.Quantity),
		PaymentStatus:   orders.PaymentPending,
		DeliveryStatus:  orders.DeliveryPending,
	}

	if in.PaymentProof != nil {
		contentType, err := media.Validate(*in.PaymentProof)
		if err != nil {
			return nil, err
		}
		key := media.ObjectKey(paymentProofDir, s.now().UnixMilli(), in.PaymentProof.Filename, contentType)
		url, err := s.files.Save(ctx, key, bytes.NewReader(in.PaymentProof.Data), contentType)
		if err != nil {
			return nil, apperr.Internal("store payment proof", err)
		}
		order.PaymentProof = &url
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	order.Product = product

	log.Info().
		Str("order_id", order.ID).
		Str("product_id", product.ID).
		Int64("total_amount", order.TotalAmount).
		Msg("order created")
	return order, nil
}

// StatusPatch carries the fields an admin may change. Nil means unchanged.
type StatusPatch struct {
	PaymentStatus  *string
	DeliveryStatus *string
	DownloadLink   *string
	Notes          *string
}

func (p StatusPatch) validate() error {
	if p.PaymentStatus != nil && !orders.ValidPaymentStatus(*p.PaymentStatus) {
		return apperr.Validation("Invalid payment_status %q", *p.PaymentStatus)
	}
	if p.DeliveryStatus != nil && !orders.ValidDeliveryStatus(*p.DeliveryStatus) {
		return apperr.Validation("Invalid delivery_status %q", *p.DeliveryStatus)
	}
	if p.DownloadLink != nil && strings.TrimSpace(*p.DownloadLink) == "" {
		return apperr.Validation("download_link cannot be empty")
	}
	return nil
}

// UpdateStatus applies an admin patch. The resulting status pair must be a
// valid stage reachable from the current one. Entering delivered issues the
// download link with a fresh expiry and counts the order's downloads once.
func (s *Service) UpdateStatus(ctx context.Context, caller *users.Principal, id string, patch StatusPatch) (*orders.Order, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var updated *orders.Order
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.LockOrder(ctx, id)
		if err != nil {
			return err
		}

		payment, delivery := o.PaymentStatus, o.DeliveryStatus
		if patch.PaymentStatus != nil {
			payment = *patch.PaymentStatus
		}
		if patch.DeliveryStatus != nil {
			delivery = *patch.DeliveryStatus
		}

		stage, err := orders.CheckTransition(o.PaymentStatus, o.DeliveryStatus, payment, delivery)
		if err != nil {
			return err
		}
		if patch.DownloadLink != nil && stage != orders.StageDelivered {
			return apperr.InvalidState("Download link can only be set once the order is paid and delivered")
		}

		wasDelivered := o.IsDeliveredAndPaid()
		o.PaymentStatus, o.DeliveryStatus = payment, delivery

		if patch.Notes != nil {
			notes := strings.TrimSpace(*patch.Notes)
			if notes == "" {
				o.Notes = nil
			} else {
				o.Notes = &notes
			}
		}

		if stage == orders.StageDelivered {
			switch {
			case patch.DownloadLink != nil:
				o.IssueDownload(strings.TrimSpace(*patch.DownloadLink), s.now())
			case !wasDelivered || o.DownloadLink == nil:
				o.IssueDownload(o.Product.FileURL, s.now())
			}
			if o.ClaimDownloadCount() {
				if err := s.repo.IncrementDownloads(ctx, o.ProductID, o.Quantity); err != nil {
					return err
				}
			}
		}

		if err := s.repo.SaveOrder(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", updated.ID).
		Str("payment_status", updated.PaymentStatus).
		Str("delivery_status", updated.DeliveryStatus).
		Msg("order status updated")
	return updated, nil
}

// Get returns an order to an admin or to the customer who placed it.
// Other callers get NotFound so order ids cannot be probed.
func (s *Service) Get(ctx context.Context, caller *users.Principal, id string) (*orders.Order, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	o, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !users.IsAdmin(caller) && !strings.EqualFold(o.CustomerEmail, caller.Email) {
		return nil, apperr.NotFound("Order")
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, caller *users.Principal, id string) error {
	if err := users.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	log.Info().Str("order_id", id).Msg("order deleted")
	return nil
}

type ListResult struct {
	Items      []orders.Order `json:"orders"`
	Pagination paging.Meta    `json:"pagination"`
}

// List pages through orders. Non-admin callers only ever see orders placed
// with their own account email, whatever filter they send.
func (s *Service) List(ctx context.Context, caller *users.Principal, f orders.ListFilter) (*ListResult, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if f.PaymentStatus != "" && !orders.ValidPaymentStatus(f.PaymentStatus) {
		return nil, apperr.Validation("Invalid payment_status %q", f.PaymentStatus)
	}
	if f.DeliveryStatus != "" && !orders.ValidDeliveryStatus(f.DeliveryStatus) {
		return nil, apperr.Validation("Invalid delivery_status %q", f.DeliveryStatus)
	}
	if !users.IsAdmin(caller) {
		f.Email = caller.Email
	}
	f.Page = f.Page.Normalize()

	items, total, err := s.repo.ListOrders(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []orders.Order{}
	}
	return &ListResult{Items: items, Pagination: paging.NewMeta(f.Page, total)}, nil
}

// Stats backs the admin dashboard. Recent revenue covers the last 30 days.
func (s *Service) Stats(ctx context.Context, caller *users.Principal) (orders.Stats, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return orders.Stats{}, err
	}
	return s.repo.OrderStats(ctx, s.now().AddDate(0, 0, -30))
}
