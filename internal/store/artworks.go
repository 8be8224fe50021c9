package store

import (
	"context"

	"seratus-studio/internal/domain/catalog"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func artworkFilters(db *gorm.DB, q catalog.ArtworkQuery) *gorm.DB {
	if q.Search != "" {
		db = db.Where(searchVector, q.Search)
	}
	if len(q.Tags) > 0 {
		db = db.Where("tags && ?", pq.Array(q.Tags))
	}
	if q.Featured != nil {
		db = db.Where("featured = ?", *q.Featured)
	}
	return db
}

func processImagesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_index ASC")
}

func (s *Store) ListArtworks(ctx context.Context, q catalog.ArtworkQuery) ([]catalog.Artwork, int64, error) {
	var total int64
	if err := artworkFilters(s.conn(ctx).Model(&catalog.Artwork{}), q).Count(&total).Error; err != nil {
		return nil, 0, wrapErrorWithDetails(err, "count artworks", "Artwork")
	}

	db := artworkFilters(s.conn(ctx), q)
	if col, ok := catalog.ArtworkSorts[q.Sort]; ok {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Desc})
	} else {
		db = db.Order("featured DESC").Order("created_at DESC")
	}

	var out []catalog.Artwork
	err := db.
		Order("id").
		Preload("CreativeProcessImages", processImagesInOrder).
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, wrapErrorWithDetails(err, "list artworks", "Artwork")
	}
	return out, total, nil
}

func (s *Store) ArtworkFacets(ctx context.Context) (catalog.ArtworkFacets, error) {
	facets := catalog.ArtworkFacets{Tags: []string{}}
	err := s.conn(ctx).
		Table("(?) AS t", s.conn(ctx).Model(&catalog.Artwork{}).Select("unnest(tags) AS tag")).
		Distinct().
		Order("tag").
		Pluck("tag", &facets.Tags).Error
	return facets, wrapErrorWithDetails(err, "artwork tags", "Artwork")
}

func (s *Store) FindArtwork(ctx context.Context, id string) (*catalog.Artwork, error) {
	if err := checkID(id, "Artwork"); err != nil {
		return nil, err
	}
	var a catalog.Artwork
	err := s.conn(ctx).
		Preload("CreativeProcessImages", processImagesInOrder).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, wrapErrorWithDetails(err, "find artwork", "Artwork")
	}
	return &a, nil
}

func numberProcessImages(imgs []catalog.CreativeProcessImage, artworkID string) {
	for i := range imgs {
		imgs[i].ID = ""
		imgs[i].ArtworkID = artworkID
		imgs[i].SortIndex = i
	}
}

func (s *Store) CreateArtwork(ctx context.Context, a *catalog.Artwork) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		imgs := a.CreativeProcessImages
		if err := s.conn(ctx).Omit("CreativeProcessImages").Create(a).Error; err != nil {
			return wrapErrorWithDetails(err, "create artwork", "Artwork")
		}
		numberProcessImages(imgs, a.ID)
		if len(imgs) > 0 {
			if err := s.conn(ctx).Create(&imgs).Error; err != nil {
				return wrapErrorWithDetails(err, "create process images", "Artwork")
			}
		}
		a.CreativeProcessImages = imgs
		return nil
	})
}

// SaveArtwork writes the row and, when replaceProcessImages is set, swaps the
// whole creative-process list for a.CreativeProcessImages.
func (s *Store) SaveArtwork(ctx context.Context, a *catalog.Artwork, replaceProcessImages bool) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		res := s.conn(ctx).Model(a).
			Select("*").
			Omit("id", "created_at", "CreativeProcessImages").
			Updates(a)
		if err := affected(res, "update artwork", "Artwork"); err != nil {
			return err
		}
		if !replaceProcessImages {
			return nil
		}

		if err := s.conn(ctx).Where("artwork_id = ?", a.ID).Delete(&catalog.CreativeProcessImage{}).Error; err != nil {
			return wrapErrorWithDetails(err, "clear process images", "Artwork")
		}
		numberProcessImages(a.CreativeProcessImages, a.ID)
		if len(a.CreativeProcessImages) == 0 {
			return nil
		}
		return wrapErrorWithDetails(s.conn(ctx).Create(&a.CreativeProcessImages).Error, "create process images", "Artwork")
	})
}

func (s *Store) DeleteArtwork(ctx context.Context, id string) error {
	if err := checkID(id, "Artwork"); err != nil {
		return err
	}
	res := s.conn(ctx).Where("id = ?", id).Delete(&catalog.Artwork{})
	return affected(res, "delete artwork", "Artwork")
}
