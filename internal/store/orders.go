package store

import (
	"context"
	"time"

	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/orders"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateOrder(ctx context.Context, o *orders.Order) error {
	return wrapErrorWithDetails(s.conn(ctx).Omit("Product").Create(o).Error, "create order", "Order")
}

func (s *Store) FindOrder(ctx context.Context, id string) (*orders.Order, error) {
	if err := checkID(id, "Order"); err != nil {
		return nil, err
	}
	var o orders.Order
	if err := s.conn(ctx).Preload("Product").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "find order", "Order")
	}
	return &o, nil
}

// LockOrder loads the order row FOR UPDATE. Only meaningful inside WithinTx.
func (s *Store) LockOrder(ctx context.Context, id string) (*orders.Order, error) {
	if err := checkID(id, "Order"); err != nil {
		return nil, err
	}
	var o orders.Order
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		return nil, wrapErrorWithDetails(err, "lock order", "Order")
	}

	var p catalog.Product
	if err := s.conn(ctx).Where("id = ?", o.ProductID).First(&p).Error; err != nil {
		return nil, wrapErrorWithDetails(err, "load order product", "Product")
	}
	o.Product = &p
	return &o, nil
}

func (s *Store) SaveOrder(ctx context.Context, o *orders.Order) error {
	res := s.conn(ctx).Model(o).
		Select("*").
		Omit("id", "created_at", "Product").
		Updates(o)
	return affected(res, "update order", "Order")
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	if err := checkID(id, "Order"); err != nil {
		return err
	}
	res := s.conn(ctx).Where("id = ?", id).Delete(&orders.Order{})
	return affected(res, "delete order", "Order")
}

func orderFilters(db *gorm.DB, f orders.ListFilter) *gorm.DB {
	if f.Email != "" {
		db = db.Where("LOWER(customer_email) = LOWER(?)", f.Email)
	}
	if f.PaymentStatus != "" {
		db = db.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.DeliveryStatus != "" {
		db = db.Where("delivery_status = ?", f.DeliveryStatus)
	}
	return db
}

func (s *Store) ListOrders(ctx context.Context, f orders.ListFilter) ([]orders.Order, int64, error) {
	var total int64
	if err := orderFilters(s.conn(ctx).Model(&orders.Order{}), f).Count(&total).Error; err != nil {
		return nil, 0, wrapErrorWithDetails(err, "count orders", "Order")
	}

	var out []orders.Order
	err := orderFilters(s.conn(ctx), f).
		Preload("Product").
		Order("created_at DESC").
		Offset(f.Page.Offset()).
		Limit(f.Page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, wrapErrorWithDetails(err, "list orders", "Order")
	}
	return out, total, nil
}

// OrderStats aggregates revenue from paid orders and counts orders per stage.
func (s *Store) OrderStats(ctx context.Context, since time.Time) (orders.Stats, error) {
	stats := orders.Stats{ByStage: map[string]int64{}}

	if err := s.conn(ctx).Model(&orders.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return stats, wrapErrorWithDetails(err, "count orders", "Order")
	}

	err := s.conn(ctx).Model(&orders.Order{}).
		Where("payment_status = ?", orders.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return stats, wrapErrorWithDetails(err, "sum revenue", "Order")
	}

	err = s.conn(ctx).Model(&orders.Order{}).
		Where("payment_status = ? AND created_at >= ?", orders.PaymentPaid, since).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.RecentRevenue).Error
	if err != nil {
		return stats, wrapErrorWithDetails(err, "sum recent revenue", "Order")
	}

	type pairCount struct {
		PaymentStatus  string
		DeliveryStatus string
		Count          int64
	}
	var pairs []pairCount
	err = s.conn(ctx).Model(&orders.Order{}).
		Select("payment_status, delivery_status, COUNT(*) AS count").
		Group("payment_status, delivery_status").
		Scan(&pairs).Error
	if err != nil {
		return stats, wrapErrorWithDetails(err, "count stages", "Order")
	}

	for _, p := range pairs {
		stage, err := orders.StageOf(p.PaymentStatus, p.DeliveryStatus)
		if err != nil {
			stats.ByStage["invalid"] += p.Count
			continue
		}
		stats.ByStage[string(stage)] += p.Count
	}
	return stats, nil
}
