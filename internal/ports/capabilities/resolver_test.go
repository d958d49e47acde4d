package capabilities

import "testing"

func TestActor_Can(t *testing.T) {
	a := NewActor("staff-1", " Staff@Example.com ", ReportsVerify, " ", ClaimsReview)

	if !a.Can(ReportsVerify) || !a.Can(ClaimsReview) {
		t.Fatalf("expected granted capabilities, got %#v", a.Capabilities())
	}
	if a.Can(ReportsManage) {
		t.Fatalf("reports:manage was not granted")
	}
	if a.Email != "staff@example.com" {
		t.Fatalf("expected normalized email, got %q", a.Email)
	}
	if len(a.Capabilities()) != 2 {
		t.Fatalf("blank capability should be skipped, got %#v", a.Capabilities())
	}
}

func TestActor_WildcardGrantsEverything(t *testing.T) {
	a := NewActor("admin", "", All)
	for _, c := range StaffCapabilities {
		if !a.Can(c) {
			t.Fatalf("wildcard should grant %s", c)
		}
	}
}

func TestAnonymous(t *testing.T) {
	a := Anonymous()
	if !a.IsAnonymous() || a.Can(ReportsVerify) {
		t.Fatalf("anonymous actor must not have capabilities")
	}
}
