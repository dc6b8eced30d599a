package vehiclestatus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/booking"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/logger"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/mq"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/damage"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/hold"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehicle"
)

// 编译期确认 Engine 满足各 CRUD 暴露的钩子接口。
var (
	_ booking.StatusTrigger    = (*Engine)(nil)
	_ hold.StatusTrigger       = (*Engine)(nil)
	_ damage.StatusTrigger     = (*Engine)(nil)
	_ vehicle.StatusRecomputer = (*Engine)(nil)
)

// Engine 车辆状态派生引擎：vehicles.status 的唯一合法写入方。
//
// 三张上游表（bookings / operational_holds / damage_reports）的 CRUD
// 在各自写入提交后调用对应钩子，引擎在一个事务内重读三路谓词并按
// Resolve 的优先级落库。跨触发不提供顺序保证：谁后算完谁生效，
// 下一次任意触发会自我修正。
type Engine struct {
	db      *gorm.DB
	events  mq.Publisher
	log     logger.Logger
	lockRow bool
	now     func() time.Time
}

type Option func(*Engine)

// WithRowLocking 在 Synchronize 的读-算-写序列内对车辆行加
// SELECT ... FOR UPDATE。MySQL 下建议开启；SQLite 不支持。
func WithRowLocking() Option {
	return func(e *Engine) { e.lockRow = true }
}

func NewEngine(db *gorm.DB, events mq.Publisher, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{db: db, events: events, log: log, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Synchronize 重算并落库指定车辆的派生状态。
//
// 车辆不存在时记日志并静默跳过（触发方的写入已提交，不能被下游一致性
// 维护拖垮）。状态无变化时不写库、不发事件。
func (e *Engine) Synchronize(ctx context.Context, vehicleID string) error {
	if e == nil || e.db == nil {
		return fmt.Errorf("engine db is nil")
	}
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		e.warnf("synchronize skipped: empty vehicle id")
		return nil
	}

	now := e.now()
	var (
		from    vehicle.Status
		to      vehicle.Status
		changed bool
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if e.lockRow {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var v vehicle.Vehicle
		if err := q.Where("id = ?", vehicleID).First(&v).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				e.warnf("synchronize skipped: vehicle %s not found", vehicleID)
				return nil
			}
			return err
		}

		// 三路谓词读在同一事务内，保证一次自洽的快照。
		sig, err := e.readSignals(tx, vehicleID, now)
		if err != nil {
			return err
		}

		from = v.Status
		to = Resolve(sig)
		if to == from {
			return nil
		}
		if err := tx.Model(&vehicle.Vehicle{}).
			Where("id = ?", vehicleID).
			Update("status", to).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("synchronize vehicle %s: %w", vehicleID, err)
	}
	if !changed {
		return nil
	}

	if e.log != nil {
		e.log.WithFields(map[string]interface{}{
			"vehicle_id": vehicleID,
			"from":       string(from),
			"to":         string(to),
		}).Info("vehicle status changed")
	}
	e.publishChanged(ctx, vehicleID, from, to, now)
	return nil
}

func (e *Engine) readSignals(tx *gorm.DB, vehicleID string, now time.Time) (Signals, error) {
	var sig Signals

	var holds int64
	if err := tx.Model(&hold.Hold{}).
		Where("vehicle_id = ? AND start_date <= ? AND end_date >= ?", vehicleID, now, now).
		Count(&holds).Error; err != nil {
		return sig, fmt.Errorf("count active holds: %w", err)
	}
	sig.HoldActive = holds > 0

	// 损伤报告挂在预订上，经 bookings 间接关联到车辆。
	var open int64
	if err := tx.Model(&damage.Report{}).
		Joins("JOIN bookings ON bookings.id = damage_reports.booking_id").
		Where("bookings.vehicle_id = ?", vehicleID).
		Where("damage_reports.status NOT IN ?", damage.ResolvedStatuses).
		Where("damage_reports.reported_at <= ?", now).
		Count(&open).Error; err != nil {
		return sig, fmt.Errorf("count open damage reports: %w", err)
	}
	sig.DamageOpen = open > 0

	var active int64
	if err := tx.Model(&booking.Booking{}).
		Where("vehicle_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			vehicleID, booking.ActiveStatuses, now, now).
		Count(&active).Error; err != nil {
		return sig, fmt.Errorf("count active bookings: %w", err)
	}
	sig.BookingActive = active > 0

	return sig, nil
}

func (e *Engine) publishChanged(ctx context.Context, vehicleID string, from, to vehicle.Status, at time.Time) {
	if e.events == nil {
		return
	}
	evt := StatusChangedEvent{VehicleID: vehicleID, From: from, To: to, OccurredAt: at}
	if err := e.events.PublishJSON(ctx, RKVehicleStatusChanged, evt); err != nil {
		e.warnf("publish %s for vehicle %s: %v", RKVehicleStatusChanged, vehicleID, err)
	}
}

// OnBookingPersisted 预订创建/变更提交后触发。换车时旧车也要重算：
// 失去这单预订的车辆可能已无任何进行中预订，需要回落。
func (e *Engine) OnBookingPersisted(ctx context.Context, b *booking.Booking, previousVehicleID string) {
	if b == nil {
		return
	}
	e.syncLogged(ctx, b.VehicleID)
	prev := strings.TrimSpace(previousVehicleID)
	if prev != "" && prev != b.VehicleID {
		e.syncLogged(ctx, prev)
	}
}

// OnOperationalHoldPersisted hold 创建/调整提交后触发。
func (e *Engine) OnOperationalHoldPersisted(ctx context.Context, h *hold.Hold) {
	if h == nil {
		return
	}
	e.syncLogged(ctx, h.VehicleID)
}

// OnOperationalHoldDeleted hold 删除后触发：移除占用可能把车从
// maintenance 放出来。
func (e *Engine) OnOperationalHoldDeleted(ctx context.Context, h *hold.Hold) {
	if h == nil {
		return
	}
	e.syncLogged(ctx, h.VehicleID)
}

// OnDamageReportPersisted 损伤报告创建/变更提交后触发。
// 车辆经报告所属预订反查；预订缺失时告警并跳过。
func (e *Engine) OnDamageReportPersisted(ctx context.Context, rep *damage.Report) {
	if rep == nil {
		return
	}
	var b booking.Booking
	err := e.db.WithContext(ctx).Where("id = ?", rep.BookingID).First(&b).Error
	if err == gorm.ErrRecordNotFound {
		e.warnf("damage report %s: booking %s not found, skip", rep.ID, rep.BookingID)
		return
	}
	if err != nil {
		e.warnf("damage report %s: load booking %s: %v", rep.ID, rep.BookingID, err)
		return
	}
	if strings.TrimSpace(b.VehicleID) == "" {
		e.warnf("damage report %s: booking %s has no vehicle, skip", rep.ID, rep.BookingID)
		return
	}
	e.syncLogged(ctx, b.VehicleID)
}

// syncLogged 触发路径上的 Synchronize：失败只记日志，绝不向触发方
// 冒泡（上游写入已提交，派生状态靠后续触发自我修正）。
func (e *Engine) syncLogged(ctx context.Context, vehicleID string) {
	if err := e.Synchronize(ctx, vehicleID); err != nil {
		e.warnf("%v", err)
	}
}

func (e *Engine) warnf(format string, args ...interface{}) {
	if e.log == nil {
		return
	}
	e.log.Warnf(format, args...)
}
