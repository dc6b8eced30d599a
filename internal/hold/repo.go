package hold

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

func (r *Repo) Create(ctx context.Context, h *Hold) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *Repo) Update(ctx context.Context, h *Hold) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Hold{}).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Hold, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var h Hold
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// ListByVehicle 某辆车的占用记录（新在前）。
func (r *Repo) ListByVehicle(ctx context.Context, vehicleID string, offset, limit int) ([]Hold, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&Hold{})
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var holds []Hold
	if err := q.Order("start_date desc").Offset(offset).Limit(limit).Find(&holds).Error; err != nil {
		return nil, 0, err
	}
	return holds, total, nil
}
