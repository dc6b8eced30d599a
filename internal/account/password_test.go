package account

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	salt, err := GenerateSaltHex()
	if err != nil {
		t.Fatalf("GenerateSaltHex: %v", err)
	}
	hash, err := HashPassword("p@ssw0rd", salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyPassword("p@ssw0rd", salt, hash) {
		t.Fatalf("expected verify ok")
	}
	if VerifyPassword("wrong", salt, hash) {
		t.Fatalf("expected verify fail")
	}
}

func TestRolesJoinAndSlice(t *testing.T) {
	joined := RolesJoin([]string{" agent ", "", "fleet_manager"})
	if joined != "agent,fleet_manager" {
		t.Fatalf("unexpected join: %q", joined)
	}
	a := Account{Roles: joined}
	got := a.RolesSlice()
	if len(got) != 2 || got[0] != "agent" || got[1] != "fleet_manager" {
		t.Fatalf("unexpected slice: %v", got)
	}
}
