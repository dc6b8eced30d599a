package vehiclestatus

import (
	"testing"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehicle"
)

func TestResolvePriorityOrder(t *testing.T) {
	cases := []struct {
		hold, damage, booking bool
		want                  vehicle.Status
	}{
		{true, true, true, vehicle.StatusMaintenance},
		{true, true, false, vehicle.StatusMaintenance},
		{true, false, true, vehicle.StatusMaintenance},
		{true, false, false, vehicle.StatusMaintenance},
		{false, true, true, vehicle.StatusDamaged},
		{false, true, false, vehicle.StatusDamaged},
		{false, false, true, vehicle.StatusRented},
		{false, false, false, vehicle.StatusAvailable},
	}
	for _, c := range cases {
		got := Resolve(Signals{HoldActive: c.hold, DamageOpen: c.damage, BookingActive: c.booking})
		if got != c.want {
			t.Fatalf("Resolve(hold=%v damage=%v booking=%v) = %s, want %s",
				c.hold, c.damage, c.booking, got, c.want)
		}
	}
}
