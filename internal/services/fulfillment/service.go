package fulfillment

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/orders"
	"seratus-studio/internal/domain/users"
	"seratus-studio/internal/infra/mailer"

	"github.com/rs/zerolog/log"
)

const (
	TypeURL = "url"
	TypeZIP = "zip"

	WatermarkDefault = "default"
	WatermarkNone    = "none"
	WatermarkCustom  = "custom"
)

type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindOrder(ctx context.Context, id string) (*orders.Order, error)
	LockOrder(ctx context.Context, id string) (*orders.Order, error)
	SaveOrder(ctx context.Context, o *orders.Order) error
	IncrementDownloads(ctx context.Context, productID string, by int) error
}

// AssetOpener reads product files and previews by URL.
type AssetOpener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

type Notifier interface {
	SendDownloadReady(ctx context.Context, d mailer.DownloadReady) error
}

type Options struct {
	DownloadsDir  string
	WatermarkDir  string
	TempDir       string
	PublicBaseURL string
}

type Service struct {
	repo     Repository
	assets   AssetOpener
	notifier Notifier
	opts     Options
	now      func() time.Time
}

func NewService(repo Repository, assets AssetOpener, notifier Notifier, opts Options) *Service {
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	return &Service{repo: repo, assets: assets, notifier: notifier, opts: opts, now: time.Now}
}

type GenerateRequest struct {
	OrderID         string
	Type            string
	Watermark       string
	CustomWatermark *media.Upload
}

func (r *GenerateRequest) normalize() error {
	if r.OrderID == "" {
		return apperr.Validation("order_id is required")
	}
	if r.Type == "" {
		r.Type = TypeURL
	}
	if r.Watermark == "" {
		r.Watermark = WatermarkDefault
	}
	if r.Type != TypeURL && r.Type != TypeZIP {
		return apperr.Validation("Invalid download type %q", r.Type)
	}
	switch r.Watermark {
	case WatermarkDefault, WatermarkNone:
	case WatermarkCustom:
		if r.Type == TypeZIP && r.CustomWatermark == nil {
			return apperr.Validation("Custom watermark file is required")
		}
	default:
		return apperr.Validation("Invalid watermark option %q", r.Watermark)
	}
	return nil
}

// Notification reports the outcome of the best-effort customer email.
type Notification struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

type GenerateResult struct {
	DownloadURL  string       `json:"download_url"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Notification Notification `json:"notification"`
}

// Generate produces the download artifact for a paid and delivered order,
// records it on the order with a fresh 30 day expiry and emails the customer.
// Regenerating always replaces the previous link.
func (s *Service) Generate(ctx context.Context, caller *users.Principal, req GenerateRequest) (*GenerateResult, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}

	order, err := s.repo.FindOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsDeliveredAndPaid() {
		return nil, apperr.InvalidState("Order must be paid and delivered")
	}
	if order.Product == nil {
		return nil, apperr.NotFound("Product")
	}

	var link, archive string
	switch req.Type {
	case TypeURL:
		link = order.Product.FileURL
		if link == "" {
			return nil, apperr.InvalidState("Product has no downloadable file")
		}
	case TypeZIP:
		archive, err = s.buildArchive(ctx, order, req)
		if err != nil {
			return nil, err
		}
		link = s.archiveURL(archive)
	}

	var saved *orders.Order
	err = s.repo.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.LockOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if !o.IsDeliveredAndPaid() {
			return apperr.InvalidState("Order must be paid and delivered")
		}
		o.IssueDownload(link, s.now())
		if o.ClaimDownloadCount() {
			if err := s.repo.IncrementDownloads(ctx, o.ProductID, o.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.SaveOrder(ctx, o); err != nil {
			return err
		}
		saved = o
		return nil
	})
	if err != nil {
		if archive != "" {
			removeArchive(archive)
		}
		return nil, err
	}

	result := &GenerateResult{DownloadURL: link, ExpiresAt: *saved.DownloadExpires}
	result.Notification = s.notify(ctx, saved, order.Product.Title)

	log.Info().
		Str("order_id", saved.ID).
		Str("type", req.Type).
		Bool("email_sent", result.Notification.Sent).
		Msg("download generated")
	return result, nil
}

// notify never fails the caller; the outcome is reported instead.
func (s *Service) notify(ctx context.Context, o *orders.Order, productTitle string) Notification {
	if s.notifier == nil {
		return Notification{Error: mailer.ErrNotConfigured.Error()}
	}
	err := s.notifier.SendDownloadReady(ctx, mailer.DownloadReady{
		To:           o.CustomerEmail,
		CustomerName: o.CustomerName,
		OrderID:      o.ID,
		ProductTitle: productTitle,
		Quantity:     o.Quantity,
		TotalAmount:  o.TotalAmount,
		DownloadURL:  s.absoluteURL(*o.DownloadLink),
		ExpiresAt:    *o.DownloadExpires,
	})
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID).Msg("download email failed")
		return Notification{Error: err.Error()}
	}
	return Notification{Sent: true}
}

// absoluteURL roots site-relative links at the public base URL so they work
// outside the browser, e.g. in an email.
func (s *Service) absoluteURL(link string) string {
	if strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//") {
		return s.opts.PublicBaseURL + link
	}
	return link
}

const (
	StateNotReady = "not_ready"
	StateExpired  = "expired"
	StateReady    = "ready"
)

type DownloadStatus struct {
	HasDownload  bool       `json:"has_download"`
	DownloadURL  *string    `json:"download_url"`
	ExpiresAt    *time.Time `json:"expires_at"`
	IsExpired    bool       `json:"is_expired"`
	ProductTitle string     `json:"product_title"`
	State        string     `json:"state"`
}

// CheckStatus is the read behind the customer download page. A refunded
// order keeps its stored link but no longer reports a download.
func (s *Service) CheckStatus(ctx context.Context, orderID string) (*DownloadStatus, error) {
	o, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	st := &DownloadStatus{State: StateNotReady}
	if o.Product != nil {
		st.ProductTitle = o.Product.Title
	}
	if o.DownloadLink == nil || !o.IsDeliveredAndPaid() {
		return st, nil
	}

	st.HasDownload = true
	st.DownloadURL = o.DownloadLink
	st.ExpiresAt = o.DownloadExpires
	st.IsExpired = o.DownloadExpires != nil && s.now().After(*o.DownloadExpires)
	if st.IsExpired {
		st.State = StateExpired
	} else {
		st.State = StateReady
	}
	return st, nil
}

// defaultWatermark returns the first watermark.{png,jpg,jpeg} in the
// watermark directory, or "" when there is none.
func (s *Service) defaultWatermark() string {
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		p := filepath.Join(s.opts.WatermarkDir, "watermark"+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", p).Msg("cannot stat watermark")
		}
	}
	return ""
}
