package mailer

import (
	"bytes"
	"context"
	"html/template"
	"time"
)

// DownloadReady is the customer notification sent once a download exists.
type DownloadReady struct {
	To           string
	CustomerName string
	OrderID      string
	ProductTitle string
	Quantity     int
	TotalAmount  int64
	DownloadURL  string
	ExpiresAt    time.Time
}

var downloadReadyTmpl = template.Must(template.New("download_ready").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f6f6f6; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="margin-top: 0;">Your download is ready</h2>
    <p>Hi {{.CustomerName}},</p>
    <p>Thank you for your purchase. Your files are ready to download.</p>
    <table style="width: 100%; border-collapse: collapse; margin: 16px 0;">
      <tr><td style="padding: 4px 0; color: #666;">Order</td><td style="padding: 4px 0;">{{.OrderID}}</td></tr>
      <tr><td style="padding: 4px 0; color: #666;">Product</td><td style="padding: 4px 0;">{{.ProductTitle}}</td></tr>
      <tr><td style="padding: 4px 0; color: #666;">Quantity</td><td style="padding: 4px 0;">{{.Quantity}}</td></tr>
      <tr><td style="padding: 4px 0; color: #666;">Total</td><td style="padding: 4px 0;">{{.TotalAmount}}</td></tr>
    </table>
    <p style="text-align: center; margin: 32px 0;">
      <a href="{{.DownloadURL}}" style="background: #111111; color: #ffffff; padding: 12px 28px; border-radius: 6px; text-decoration: none;">Download</a>
    </p>
    <p style="color: #666; font-size: 13px;">This link expires on {{.ExpiresAt.Format "02 Jan 2006 15:04 MST"}}.</p>
    <p style="color: #999; font-size: 12px;">Seratus Studio</p>
  </div>
</body>
</html>
`))

func RenderDownloadReady(d DownloadReady) (string, error) {
	var buf bytes.Buffer
	if err := downloadReadyTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m *Mailer) SendDownloadReady(ctx context.Context, d DownloadReady) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	body, err := RenderDownloadReady(d)
	if err != nil {
		return err
	}
	return m.Send(ctx, d.To, "Your Seratus Studio download is ready", body)
}
