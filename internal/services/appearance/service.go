package appearance

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/domain/site"
	"seratus-studio/internal/domain/users"
	"seratus-studio/internal/infra/imaging"

	"github.com/rs/zerolog/log"
)

const (
	backgroundDir = "uploads/backgrounds"
	brandingDir   = "uploads/branding"

	// brandingMaxWidth bounds logo and profile images.
	brandingMaxWidth = 512
)

type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	LockBackgrounds(ctx context.Context) error
	ListBackgrounds(ctx context.Context) ([]site.Background, error)
	ActiveBackground(ctx context.Context) (*site.Background, error)
	FindBackground(ctx context.Context, id string) (*site.Background, error)
	CreateBackground(ctx context.Context, bg *site.Background) error
	DeactivateBackgrounds(ctx context.Context, keepID string) error
	ActivateBackground(ctx context.Context, id string) error
	DeleteBackground(ctx context.Context, id string) error

	Settings(ctx context.Context, keys ...string) (map[string]string, error)
	PutSetting(ctx context.Context, key, value string) error
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

func (s *Service) store(ctx context.Context, dir string, up media.Upload, contentType string) (string, error) {
	key := media.ObjectKey(dir, s.now().UnixMilli(), up.Filename, contentType)
	url, err := s.files.Save(ctx, key, bytes.NewReader(up.Data), contentType)
	if err != nil {
		return "", apperr.Internal("store image", err)
	}
	return url, nil
}

// UploadBackground stores the image and makes it the only active
// background.
func (s *Service) UploadBackground(ctx context.Context, caller *users.Principal, name string, up media.Upload) (*site.Background, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}
	contentType, err := media.Validate(up)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSuffix(up.Filename, filepath.Ext(up.Filename))
		if name == "" {
			name = "Background"
		}
	}

	url, err := s.store(ctx, backgroundDir, up, contentType)
	if err != nil {
		return nil, err
	}

	bg := &site.Background{
		Name:     name,
		ImageURL: url,
		IsActive: true,
		FileSize: up.Size(),
		FileType: contentType,
	}
	err = s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockBackgrounds(ctx); err != nil {
			return err
		}
		if err := s.repo.DeactivateBackgrounds(ctx, ""); err != nil {
			return err
		}
		return s.repo.CreateBackground(ctx, bg)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("background_id", bg.ID).Str("url", url).Msg("background uploaded and activated")
	return bg, nil
}

// SetActive switches the active background. The target is checked first so
// a bad id leaves the current selection untouched.
func (s *Service) SetActive(ctx context.Context, caller *users.Principal, id string) (*site.Background, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}

	var bg *site.Background
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockBackgrounds(ctx); err != nil {
			return err
		}
		found, err := s.repo.FindBackground(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.DeactivateBackgrounds(ctx, found.ID); err != nil {
			return err
		}
		if err := s.repo.ActivateBackground(ctx, found.ID); err != nil {
			return err
		}
		found.IsActive = true
		bg = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bg, nil
}

// Delete removes the record. The stored image stays where it is.
func (s *Service) Delete(ctx context.Context, caller *users.Principal, id string) error {
	if err := users.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.DeleteBackground(ctx, id); err != nil {
		return err
	}
	log.Info().Str("background_id", id).Msg("background deleted")
	return nil
}

func (s *Service) List(ctx context.Context, caller *users.Principal) ([]site.Background, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return nil, err
	}
	bgs, err := s.repo.ListBackgrounds(ctx)
	if err != nil {
		return nil, err
	}
	if bgs == nil {
		bgs = []site.Background{}
	}
	return bgs, nil
}

// Active returns the active background, or nil when none is set.
func (s *Service) Active(ctx context.Context) (*site.Background, error) {
	bg, err := s.repo.ActiveBackground(ctx)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return bg, err
}

func (s *Service) UploadLogo(ctx context.Context, caller *users.Principal, up media.Upload) (string, error) {
	return s.uploadBranding(ctx, caller, site.SettingLogoURL, up)
}

func (s *Service) UploadProfileImage(ctx context.Context, caller *users.Principal, up media.Upload) (string, error) {
	return s.uploadBranding(ctx, caller, site.SettingProfileImageURL, up)
}

func (s *Service) uploadBranding(ctx context.Context, caller *users.Principal, key string, up media.Upload) (string, error) {
	if err := users.RequireAdmin(caller); err != nil {
		return "", err
	}
	contentType, err := media.Validate(up)
	if err != nil {
		return "", err
	}

	if media.IsRaster(contentType) {
		data, err := imaging.FitWidth(up.Data, contentType, brandingMaxWidth)
		if err != nil {
			return "", apperr.Validation("Image could not be decoded")
		}
		up.Data = data
	}

	url, err := s.store(ctx, brandingDir, up, contentType)
	if err != nil {
		return "", err
	}
	if err := s.repo.PutSetting(ctx, key, url); err != nil {
		return "", err
	}

	log.Info().Str("setting", key).Str("url", url).Msg("branding image updated")
	return url, nil
}

// Settings is the public appearance bundle the front end renders from.
func (s *Service) Settings(ctx context.Context) (*site.Settings, error) {
	values, err := s.repo.Settings(ctx, site.SettingLogoURL, site.SettingProfileImageURL)
	if err != nil {
		return nil, err
	}
	bg, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	return &site.Settings{
		LogoURL:         values[site.SettingLogoURL],
		ProfileImageURL: values[site.SettingProfileImageURL],
		Background:      bg,
	}, nil
}
