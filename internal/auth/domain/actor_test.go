package domain

import "testing"

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole(" Field_Staff "); !ok || role != RoleFieldStaff {
		t.Fatalf("expected field_staff, got %q %v", role, ok)
	}
	if _, ok := ParseRole("system"); ok {
		t.Fatalf("system must not be parseable from credentials")
	}
}

func TestActorIsStaff(t *testing.T) {
	if (Actor{Role: RoleCustomer}).IsStaff() {
		t.Fatalf("customer is not staff")
	}
	if !(Actor{Role: RoleBilling}).IsStaff() {
		t.Fatalf("billing is staff")
	}
	if SystemActor.IDString() != "" {
		t.Fatalf("system actor has no id")
	}
}
