package vehiclestatus

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/booking"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/logger"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/damage"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/hold"
)

// Reconciler 周期性兜底：重算最近一段时间内上游表有改动的车辆。
//
// 触发路径上的 Synchronize 失败只记日志不重试，这里负责把这类漏算
// 补回来；同时覆盖“无写入但时间推移导致状态应变”的场景——hold 到期、
// 预订跨过 start_date——这些不产生任何行更新，只有扫描能发现。
type Reconciler struct {
	db     *gorm.DB
	engine *Engine
	log    logger.Logger
}

func NewReconciler(db *gorm.DB, engine *Engine, log logger.Logger) *Reconciler {
	return &Reconciler{db: db, engine: engine, log: log}
}

// Run 单轮扫描：收集 window 内被触达的车辆并逐个 Synchronize。
// 返回重算的车辆数。单辆失败不中断本轮，只记日志。
func (r *Reconciler) Run(ctx context.Context, window time.Duration) (int, error) {
	if r == nil || r.db == nil || r.engine == nil {
		return 0, fmt.Errorf("reconciler not initialized")
	}
	ids, err := r.collectTouchedVehicles(ctx, time.Now().Add(-window))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		if err := r.engine.Synchronize(ctx, id); err != nil {
			if r.log != nil {
				r.log.Warnf("reconcile: %v", err)
			}
			continue
		}
		n++
	}
	return n, nil
}

// RunLoop 按 interval 循环执行 Run，直到 ctx 取消。
func (r *Reconciler) RunLoop(ctx context.Context, interval, window time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := r.Run(ctx, window)
		if err != nil && r.log != nil {
			r.log.Errorf("reconcile sweep: %v", err)
		} else if r.log != nil {
			r.log.WithField("vehicles", n).Debug("reconcile sweep done")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Reconciler) collectTouchedVehicles(ctx context.Context, since time.Time) ([]string, error) {
	seen := make(map[string]struct{})

	var ids []string
	if err := r.db.WithContext(ctx).Model(&hold.Hold{}).
		Where("updated_at >= ?", since).
		Distinct().Pluck("vehicle_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("scan holds: %w", err)
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	ids = ids[:0]
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("updated_at >= ?", since).
		Distinct().Pluck("vehicle_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	ids = ids[:0]
	if err := r.db.WithContext(ctx).Model(&damage.Report{}).
		Joins("JOIN bookings ON bookings.id = damage_reports.booking_id").
		Where("damage_reports.updated_at >= ?", since).
		Distinct().Pluck("bookings.vehicle_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("scan damage reports: %w", err)
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out, nil
}
