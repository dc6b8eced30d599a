package vehiclestatus

import (
	"time"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehicle"
)

// RKVehicleStatusChanged 车辆状态变更事件的 routing key。
const RKVehicleStatusChanged = "vehicle.status_changed"

// StatusChangedEvent 状态真正发生变化时发布（无变化不发）。
type StatusChangedEvent struct {
	VehicleID  string         `json:"vehicle_id"`
	From       vehicle.Status `json:"from"`
	To         vehicle.Status `json:"to"`
	OccurredAt time.Time      `json:"occurred_at"`
}
