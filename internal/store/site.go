package store

import (
	"context"

	"seratus-studio/internal/domain/site"

	"gorm.io/gorm/clause"
)

// backgroundsLockKey is the pg advisory lock id serializing active-flag writes.
const backgroundsLockKey = 72_001

// LockBackgrounds takes a transaction-scoped advisory lock. Two writers
// changing the active background queue behind each other instead of racing.
func (s *Store) LockBackgrounds(ctx context.Context) error {
	err := s.conn(ctx).Exec("SELECT pg_advisory_xact_lock(?)", backgroundsLockKey).Error
	return wrapErrorWithDetails(err, "lock backgrounds", "Background")
}

func (s *Store) ListBackgrounds(ctx context.Context) ([]site.Background, error) {
	var out []site.Background
	if err := s.conn(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "list backgrounds", "Background")
	}
	return out, nil
}

func (s *Store) ActiveBackground(ctx context.Context) (*site.Background, error) {
	var bg site.Background
	if err := s.conn(ctx).Where("is_active = ?", true).First(&bg).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "find active background", "Active background")
	}
	return &bg, nil
}

func (s *Store) FindBackground(ctx context.Context, id string) (*site.Background, error) {
	if err := checkID(id, "Background"); err != nil {
		return nil, err
	}
	var bg site.Background
	if err := s.conn(ctx).Where("id = ?", id).First(&bg).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "find background", "Background")
	}
	return &bg, nil
}

func (s *Store) CreateBackground(ctx context.Context, bg *site.Background) error {
	return wrapErrorWithDetails(s.conn(ctx).Create(bg).Error, "create background", "Background")
}

// DeactivateBackgrounds clears the active flag on every row except keepID.
func (s *Store) DeactivateBackgrounds(ctx context.Context, keepID string) error {
	db := s.conn(ctx).Model(&site.Background{}).Where("is_active = ?", true)
	if keepID != "" {
		db = db.Where("id <> ?", keepID)
	}
	return wrapErrorWithDetails(db.Update("is_active", false).Error, "deactivate backgrounds", "Background")
}

func (s *Store) ActivateBackground(ctx context.Context, id string) error {
	if err := checkID(id, "Background"); err != nil {
		return err
	}
	res := s.conn(ctx).Model(&site.Background{}).Where("id = ?", id).Update("is_active", true)
	return affected(res, "activate background", "Background")
}

func (s *Store) DeleteBackground(ctx context.Context, id string) error {
	if err := checkID(id, "Background"); err != nil {
		return err
	}
	res := s.conn(ctx).Where("id = ?", id).Delete(&site.Background{})
	return affected(res, "delete background", "Background")
}

// Settings returns the stored values for keys; missing keys are absent from the map.
func (s *Store) Settings(ctx context.Context, keys ...string) (map[string]string, error) {
	var rows []site.Setting
	if err := s.conn(ctx).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "load settings", "Setting")
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&site.Setting{Key: key, Value: value}).Error
	return wrapErrorWithDetails(err, "save setting", "Setting")
}
