package damage

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusReported, StatusUnderInvestigation, true},
		{StatusReported, StatusClosedNoCharge, true},
		{StatusUnderInvestigation, StatusAwaitingRepairQuote, true},
		{StatusRepairPending, StatusInRepair, true},
		{StatusInRepair, StatusRepaired, true},
		{StatusRepaired, StatusClosedWithCharge, true},
		{StatusReported, StatusReported, true}, // 幂等

		{StatusReported, StatusInRepair, false},       // 不可跳过定责/报价
		{StatusInRepair, StatusClosedNoCharge, false}, // 维修中必须先转 repaired
		{StatusClosedNoCharge, StatusReported, false}, // 终态不可逆
		{StatusResolvedNoRepair, StatusInRepair, false},
		{Status("bogus"), StatusReported, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestApplyTransition(t *testing.T) {
	rep := &Report{Status: StatusReported}
	if err := ApplyTransition(rep, StatusUnderInvestigation); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if rep.Status != StatusUnderInvestigation {
		t.Fatalf("status = %s, want under_investigation", rep.Status)
	}
	if err := ApplyTransition(rep, StatusInRepair); err == nil {
		t.Fatalf("expected invalid transition error")
	}
	if rep.Status != StatusUnderInvestigation {
		t.Fatalf("status mutated on rejected transition: %s", rep.Status)
	}
}

func TestResolvedStatuses(t *testing.T) {
	for _, s := range ResolvedStatuses {
		if !s.Resolved() {
			t.Fatalf("%s should be resolved", s)
		}
	}
	// repaired 修完未结案，仍算未了结
	if StatusRepaired.Resolved() {
		t.Fatalf("repaired must not count as resolved")
	}
	if StatusReported.Resolved() {
		t.Fatalf("reported must not count as resolved")
	}
}
