package store

import (
	"context"

	"seratus-studio/internal/domain/catalog"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const searchVector = "to_tsvector('simple', title || ' ' || description) @@ plainto_tsquery('simple', ?)"

func productFilters(db *gorm.DB, q catalog.ProductQuery) *gorm.DB {
	if !q.IncludeInactive {
		db = db.Where("active = ?", true)
	}
	if q.Search != "" {
		db = db.Where(searchVector, q.Search)
	}
	if len(q.Categories) > 0 {
		db = db.Where("category IN ?", q.Categories)
	}
	if len(q.Tags) > 0 {
		db = db.Where("tags && ?", pq.Array(q.Tags))
	}
	if q.MinPrice != nil {
		db = db.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("price <= ?", *q.MaxPrice)
	}
	return db
}

func (s *Store) ListProducts(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, int64, error) {
	var total int64
	if err := productFilters(s.conn(ctx).Model(&catalog.Product{}), q).Count(&total).Error; err != nil {
		return nil, 0, wrapErrorWithDetails(err, "count products", "Product")
	}

	col, ok := catalog.ProductSorts[q.Sort]
	if !ok {
		col = "created_at"
	}

	var out []catalog.Product
	err := productFilters(s.conn(ctx), q).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Desc}).
		Order("id").
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, wrapErrorWithDetails(err, "list products", "Product")
	}
	return out, total, nil
}

// ProductFacets summarises the visible products for the filter UI.
func (s *Store) ProductFacets(ctx context.Context, includeInactive bool) (catalog.ProductFacets, error) {
	facets := catalog.ProductFacets{Categories: []string{}, Tags: []string{}}
	visible := func() *gorm.DB {
		db := s.conn(ctx).Model(&catalog.Product{})
		if !includeInactive {
			db = db.Where("active = ?", true)
		}
		return db
	}

	if err := visible().Distinct().Order("category").Pluck("category", &facets.Categories).Error; err != nil {
		return facets, wrapErrorWithDetails(err, "product categories", "Product")
	}

	err := s.conn(ctx).
		Table("(?) AS t", visible().Select("unnest(tags) AS tag")).
		Distinct().
		Order("tag").
		Pluck("tag", &facets.Tags).Error
	if err != nil {
		return facets, wrapErrorWithDetails(err, "product tags", "Product")
	}

	var bounds struct {
		MinPrice int64
		MaxPrice int64
	}
	if err := visible().Select("COALESCE(MIN(price), 0) AS min_price, COALESCE(MAX(price), 0) AS max_price").Scan(&bounds).Error; err != nil {
		return facets, wrapErrorWithDetails(err, "product price range", "Product")
	}
	facets.MinPrice = bounds.MinPrice
	facets.MaxPrice = bounds.MaxPrice
	return facets, nil
}

func (s *Store) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if err := checkID(id, "Product"); err != nil {
		return nil, err
	}
	var p catalog.Product
	if err := s.conn(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "find product", "Product")
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	return wrapErrorWithDetails(s.conn(ctx).Create(p).Error, "create product", "Product")
}

func (s *Store) SaveProduct(ctx context.Context, p *catalog.Product) error {
	res := s.conn(ctx).Model(p).Select("*").Omit("id", "created_at", "downloads").Updates(p)
	return affected(res, "update product", "Product")
}

// DeactivateProduct is the soft delete.
func (s *Store) DeactivateProduct(ctx context.Context, id string) error {
	if err := checkID(id, "Product"); err != nil {
		return err
	}
	res := s.conn(ctx).Model(&catalog.Product{}).Where("id = ?", id).Update("active", false)
	return affected(res, "deactivate product", "Product")
}

// IncrementDownloads is a single atomic UPDATE.
func (s *Store) IncrementDownloads(ctx context.Context, productID string, by int) error {
	if err := checkID(productID, "Product"); err != nil {
		return err
	}
	res := s.conn(ctx).Model(&catalog.Product{}).
		Where("id = ?", productID).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", by))
	return affected(res, "increment downloads", "Product")
}
