package booking

// 预订领域事件的 routing key（topic exchange）。
const (
	RKBookingCreated    = "booking.created"
	RKBookingTransition = "booking.status_changed"
	RKBookingReassigned = "booking.vehicle_reassigned"
)

// Event 预订事件载荷（够下游通知/积分等消费方使用即可）。
type Event struct {
	BookingID  string `json:"booking_id"`
	VehicleID  string `json:"vehicle_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	// 换车时的原车辆（仅 booking.vehicle_reassigned）
	PreviousVehicleID string `json:"previous_vehicle_id,omitempty"`
}
