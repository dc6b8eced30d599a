package vehiclestatus

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/booking"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/damage"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/hold"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehicle"
)

type capturePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *capturePublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&vehicle.Vehicle{}, &booking.Booking{}, &hold.Hold{}, &damage.Report{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedVehicle(t *testing.T, db *gorm.DB, status vehicle.Status) *vehicle.Vehicle {
	t.Helper()
	v := &vehicle.Vehicle{
		ID:          uuid.NewString(),
		PlateNumber: "TEST-" + uuid.NewString()[:8],
		Make:        "Dacia",
		Model:       "Logan",
		Year:        2022,
		Status:      status,
		DailyRate:   25000,
		Currency:    "MAD",
	}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return v
}

func seedBooking(t *testing.T, db *gorm.DB, vehicleID string, status booking.Status, start, end time.Time) *booking.Booking {
	t.Helper()
	b := &booking.Booking{
		ID:         uuid.NewString(),
		VehicleID:  vehicleID,
		CustomerID: uuid.NewString(),
		Status:     status,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: 50000,
		Currency:   "MAD",
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func seedHold(t *testing.T, db *gorm.DB, vehicleID string, start, end time.Time) *hold.Hold {
	t.Helper()
	h := &hold.Hold{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		StartDate: start,
		EndDate:   end,
		Reason:    "scheduled service",
	}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("seed hold: %v", err)
	}
	return h
}

func seedDamage(t *testing.T, db *gorm.DB, bookingID string, status damage.Status, reportedAt time.Time) *damage.Report {
	t.Helper()
	rep := &damage.Report{
		ID:         uuid.NewString(),
		BookingID:  bookingID,
		Status:     status,
		ReportedAt: reportedAt,
		Currency:   "MAD",
	}
	if err := db.Create(rep).Error; err != nil {
		t.Fatalf("seed damage report: %v", err)
	}
	return rep
}

func vehicleStatus(t *testing.T, db *gorm.DB, id string) vehicle.Status {
	t.Helper()
	var v vehicle.Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	return v.Status
}

func TestSynchronizeIdempotent(t *testing.T) {
	db := newTestDB(t)
	pub := &capturePublisher{}
	eng := NewEngine(db, pub, nil)
	ctx := context.Background()
	now := time.Now()

	v := seedVehicle(t, db, vehicle.StatusAvailable)
	seedBooking(t, db, v.ID, booking.StatusActive, now.Add(-time.Hour), now.Add(time.Hour))

	if err := eng.Synchronize(ctx, v.ID); err != nil {
		t.Fatalf("first synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusRented {
		t.Fatalf("status = %s, want rented", got)
	}
	if pub.count() != 1 {
		t.Fatalf("events after first run = %d, want 1", pub.count())
	}

	// 输入不变时重复调用不得写库、不得再发事件
	if err := eng.Synchronize(ctx, v.ID); err != nil {
		t.Fatalf("second synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusRented {
		t.Fatalf("status after rerun = %s, want rented", got)
	}
	if pub.count() != 1 {
		t.Fatalf("events after rerun = %d, want 1", pub.count())
	}
}

func TestSynchronizeMissingVehicleIsNoop(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	if err := eng.Synchronize(context.Background(), uuid.NewString()); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
}

func TestHoldTemporalBoundary(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	ctx := context.Background()
	now := time.Now()

	// 当前生效的 hold → maintenance
	active := seedVehicle(t, db, vehicle.StatusAvailable)
	seedHold(t, db, active.ID, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	if err := eng.Synchronize(ctx, active.ID); err != nil {
		t.Fatalf("synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, active.ID); got != vehicle.StatusMaintenance {
		t.Fatalf("status = %s, want maintenance", got)
	}

	// 刚过期的 hold 不得把车压成 maintenance
	expired := seedVehicle(t, db, vehicle.StatusMaintenance)
	seedHold(t, db, expired.ID, now.Add(-48*time.Hour), now.Add(-time.Second))
	if err := eng.Synchronize(ctx, expired.ID); err != nil {
		t.Fatalf("synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, expired.ID); got != vehicle.StatusAvailable {
		t.Fatalf("status = %s, want available", got)
	}
}

func TestDamageResolutionTransition(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	ctx := context.Background()
	now := time.Now()

	v := seedVehicle(t, db, vehicle.StatusAvailable)
	// 已完成的预订：不再把车推向 rented，但损伤仍经它关联
	b := seedBooking(t, db, v.ID, booking.StatusCompleted, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	rep := seedDamage(t, db, b.ID, damage.StatusReported, now.Add(-time.Hour))

	if err := eng.Synchronize(ctx, v.ID); err != nil {
		t.Fatalf("synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusDamaged {
		t.Fatalf("status = %s, want damaged", got)
	}

	// 结案后重算：不得停留在 damaged
	if err := db.Model(rep).Update("status", damage.StatusClosedNoCharge).Error; err != nil {
		t.Fatalf("close report: %v", err)
	}
	if err := eng.Synchronize(ctx, v.ID); err != nil {
		t.Fatalf("synchronize after close: %v", err)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusAvailable {
		t.Fatalf("status = %s, want available", got)
	}
}

func TestRepairedReportStillOpen(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	ctx := context.Background()
	now := time.Now()

	v := seedVehicle(t, db, vehicle.StatusAvailable)
	b := seedBooking(t, db, v.ID, booking.StatusCompleted, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	// repaired 不属于已了结集合：修完未结案的车继续压在 damaged
	seedDamage(t, db, b.ID, damage.StatusRepaired, now.Add(-time.Hour))

	if err := eng.Synchronize(ctx, v.ID); err != nil {
		t.Fatalf("synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusDamaged {
		t.Fatalf("status = %s, want damaged", got)
	}
}

func TestFutureDamageReportIgnored(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	ctx := context.Background()
	now := time.Now()

	v := seedVehicle(t, db, vehicle.StatusAvailable)
	b := seedBooking(t, db, v.ID, booking.StatusCompleted, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	seedDamage(t, db, b.ID, damage.StatusReported, now.Add(time.Hour))

	if err := eng.Synchronize(ctx, v.ID); err != nil {
		t.Fatalf("synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusAvailable {
		t.Fatalf("status = %s, want available", got)
	}
}

func TestBookingReassignmentSynchronizesBothVehicles(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	ctx := context.Background()
	now := time.Now()

	a := seedVehicle(t, db, vehicle.StatusAvailable)
	bVeh := seedVehicle(t, db, vehicle.StatusAvailable)
	bk := seedBooking(t, db, a.ID, booking.StatusConfirmed, now.Add(-time.Hour), now.Add(time.Hour))

	eng.OnBookingPersisted(ctx, bk, "")
	if got := vehicleStatus(t, db, a.ID); got != vehicle.StatusRented {
		t.Fatalf("vehicle A = %s, want rented", got)
	}

	// 换车：A 失去预订要回落，B 变 rented
	previous := bk.VehicleID
	if err := db.Model(bk).Update("vehicle_id", bVeh.ID).Error; err != nil {
		t.Fatalf("reassign: %v", err)
	}
	bk.VehicleID = bVeh.ID
	eng.OnBookingPersisted(ctx, bk, previous)

	if got := vehicleStatus(t, db, a.ID); got != vehicle.StatusAvailable {
		t.Fatalf("vehicle A after reassign = %s, want available", got)
	}
	if got := vehicleStatus(t, db, bVeh.ID); got != vehicle.StatusRented {
		t.Fatalf("vehicle B after reassign = %s, want rented", got)
	}
}

func TestDamageTriggerResolvesVehicleThroughBooking(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	ctx := context.Background()
	now := time.Now()

	v := seedVehicle(t, db, vehicle.StatusAvailable)
	b := seedBooking(t, db, v.ID, booking.StatusCompleted, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	rep := seedDamage(t, db, b.ID, damage.StatusReported, now.Add(-time.Hour))

	eng.OnDamageReportPersisted(ctx, rep)
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusDamaged {
		t.Fatalf("status = %s, want damaged", got)
	}

	// 预订缺失时钩子不得 panic，也不得动别的车
	orphan := &damage.Report{ID: uuid.NewString(), BookingID: uuid.NewString(),
		Status: damage.StatusReported, ReportedAt: now}
	eng.OnDamageReportPersisted(ctx, orphan)
}

func TestStatusLifecycleScenario(t *testing.T) {
	db := newTestDB(t)
	pub := &capturePublisher{}
	eng := NewEngine(db, pub, nil)
	ctx := context.Background()
	now := time.Now()

	v := seedVehicle(t, db, vehicle.StatusAvailable)
	if err := eng.Synchronize(ctx, v.ID); err != nil {
		t.Fatalf("synchronize: %v", err)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusAvailable {
		t.Fatalf("initial status = %s, want available", got)
	}

	bk := seedBooking(t, db, v.ID, booking.StatusConfirmed, now.Add(-time.Hour), now.Add(time.Hour))
	eng.OnBookingPersisted(ctx, bk, "")
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusRented {
		t.Fatalf("after booking = %s, want rented", got)
	}

	// hold 压过仍在进行中的预订
	h := seedHold(t, db, v.ID, now, now.Add(2*time.Hour))
	eng.OnOperationalHoldPersisted(ctx, h)
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusMaintenance {
		t.Fatalf("after hold = %s, want maintenance", got)
	}

	// 删除 hold：回到 rented（预订还在进行中）
	if err := db.Delete(h).Error; err != nil {
		t.Fatalf("delete hold: %v", err)
	}
	eng.OnOperationalHoldDeleted(ctx, h)
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusRented {
		t.Fatalf("after hold delete = %s, want rented", got)
	}

	if pub.count() != 3 {
		t.Fatalf("events = %d, want 3", pub.count())
	}
}

func TestReconcilerSweep(t *testing.T) {
	db := newTestDB(t)
	eng := NewEngine(db, nil, nil)
	rec := NewReconciler(db, eng, nil)
	ctx := context.Background()
	now := time.Now()

	v := seedVehicle(t, db, vehicle.StatusAvailable)
	seedBooking(t, db, v.ID, booking.StatusActive, now.Add(-time.Hour), now.Add(time.Hour))

	n, err := rec.Run(ctx, time.Hour)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if n != 1 {
		t.Fatalf("reconciled = %d, want 1", n)
	}
	if got := vehicleStatus(t, db, v.ID); got != vehicle.StatusRented {
		t.Fatalf("status = %s, want rented", got)
	}
}
