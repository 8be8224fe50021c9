package fulfillment

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/orders"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
)

// buildArchive writes order-<id>-<unix>.zip into the downloads directory and
// returns its path on disk. The archive holds the product file named after the
// product, the previews as preview_N and the resolved watermark.
func (s *Service) buildArchive(ctx context.Context, o *orders.Order, req GenerateRequest) (string, error) {
	watermark, cleanup, err := s.resolveWatermark(req)
	if err != nil {
		return "", err
	}
	defer cleanup()

	//nolint:gosec // downloads are public
	if err := os.MkdirAll(s.opts.DownloadsDir, 0o755); err != nil {
		return "", apperr.Internal("create downloads directory", err)
	}

	name := fmt.Sprintf("order-%s-%d.zip", o.ID, s.now().Unix())
	full := filepath.Join(s.opts.DownloadsDir, name)

	if err := s.writeArchive(ctx, full, o, watermark); err != nil {
		removeArchive(full)
		return "", apperr.Internal("build download archive", err)
	}

	return full, nil
}

func (s *Service) archiveURL(full string) string {
	return s.opts.PublicBaseURL + "/downloads/" + filepath.Base(full)
}

func removeArchive(full string) {
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", full).Msg("failed to remove archive")
	}
}

func (s *Service) writeArchive(ctx context.Context, full string, o *orders.Order, watermark string) error {
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	p := o.Product
	if err := s.addRemote(ctx, zw, media.SafeName(p.Title)+extOf(p.FileURL), p.FileURL); err != nil {
		return err
	}
	for i, preview := range p.PreviewImages {
		entry := fmt.Sprintf("preview_%d%s", i+1, extOf(preview))
		if err := s.addRemote(ctx, zw, entry, preview); err != nil {
			return err
		}
	}
	if watermark != "" {
		if err := addLocal(zw, "watermark"+strings.ToLower(filepath.Ext(watermark)), watermark); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

func (s *Service) addRemote(ctx context.Context, zw *zip.Writer, entry, src string) error {
	rc, err := s.assets.Open(ctx, src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer rc.Close()
	return addEntry(zw, entry, rc)
}

func addLocal(zw *zip.Writer, entry, p string) error {
	//nolint:gosec // G304: path comes from the watermark or temp directory
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	return addEntry(zw, entry, f)
}

func addEntry(zw *zip.Writer, entry string, r io.Reader) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: entry, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}

// resolveWatermark returns the watermark file path for the archive and a
// cleanup func that must always run. Custom uploads go through the temp
// directory and are removed by cleanup.
func (s *Service) resolveWatermark(req GenerateRequest) (string, func(), error) {
	noop := func() {}
	switch req.Watermark {
	case WatermarkNone:
		return "", noop, nil
	case WatermarkDefault:
		wm := s.defaultWatermark()
		if wm == "" {
			log.Warn().Str("dir", s.opts.WatermarkDir).Msg("no default watermark found, archive built without one")
		}
		return wm, noop, nil
	}

	contentType, err := media.Validate(*req.CustomWatermark)
	if err != nil {
		return "", noop, err
	}

	//nolint:gosec // temp files are removed right after use
	if err := os.MkdirAll(s.opts.TempDir, 0o755); err != nil {
		return "", noop, apperr.Internal("create temp directory", err)
	}
	tmp := filepath.Join(s.opts.TempDir, "watermark-"+uuid.NewString()+media.Ext(contentType))
	cleanup := func() {
		if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", tmp).Msg("failed to remove temp watermark")
		}
	}
	if err := os.WriteFile(tmp, req.CustomWatermark.Data, 0o600); err != nil {
		cleanup()
		return "", noop, apperr.Internal("store custom watermark", err)
	}
	return tmp, cleanup, nil
}

// extOf takes the extension from the path part of a URL.
func extOf(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}
