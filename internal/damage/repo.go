package damage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, rep *Report) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *Repo) Update(ctx context.Context, rep *Report) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(rep).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Report, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rep Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListByBooking 某个预订下的损伤报告。
func (r *Repo) ListByBooking(ctx context.Context, bookingID string, offset, limit int) ([]Report, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&Report{})
	if bookingID != "" {
		q = q.Where("booking_id = ?", bookingID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reports []Report
	if err := q.Order("reported_at desc").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
