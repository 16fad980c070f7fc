package domain

import "testing"

func TestScopeFor(t *testing.T) {
	cases := []struct {
		name     string
		caller   Caller
		resource Resource
		want     bool // FilterByOwner
	}{
		{"user is owner-scoped on quotations", Caller{ID: "u1", Role: RoleUser}, ResourceQuotations, true},
		{"manager sees all quotations", Caller{ID: "u2", Role: RoleManager}, ResourceQuotations, false},
		{"admin sees all clients", Caller{ID: "u3", Role: RoleAdmin}, ResourceClients, false},
		{"user is owner-scoped on clients", Caller{ID: "u1", Role: RoleUser}, ResourceClients, true},
		{"unknown role is owner-scoped everywhere", Caller{ID: "u4", Role: Role("intern")}, ResourceQuotations, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScopeFor(tc.caller, tc.resource).FilterByOwner; got != tc.want {
				t.Errorf("FilterByOwner = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanAccessRecord(t *testing.T) {
	owner := Caller{ID: "u1", Role: RoleUser}
	stranger := Caller{ID: "u2", Role: RoleUser}
	manager := Caller{ID: "u3", Role: RoleManager}

	if !CanAccessRecord(owner, ResourceQuotations, "u1") {
		t.Error("owner must access own record")
	}
	if CanAccessRecord(stranger, ResourceQuotations, "u1") {
		t.Error("non-owner without read_all must not access the record")
	}
	if !CanAccessRecord(manager, ResourceQuotations, "u1") {
		t.Error("manager with read_all must access any record")
	}
	if CanAccessRecord(Caller{ID: "", Role: RoleUser}, ResourceQuotations, "") {
		t.Error("empty owner id must never match an empty caller id")
	}
}
