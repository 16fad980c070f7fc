package domain

import "testing"

func TestCanTransitionTo_Table(t *testing.T) {
	cases := []struct {
		from, to QuotationStatus
		want     bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusRejected, false},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusDraft, true},
		{StatusRejected, StatusPending, true},
		{StatusRejected, StatusDraft, true},
		{StatusRejected, StatusApproved, false},
		{StatusExpired, StatusDraft, true},
		{StatusExpired, StatusPending, false},
		// expired is entered only by the external sweeper
		{StatusPending, StatusExpired, false},
		{StatusDraft, StatusExpired, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestApprovedIsAbsorbing(t *testing.T) {
	targets := []QuotationStatus{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusExpired}
	for _, to := range targets {
		if StatusApproved.CanTransitionTo(to) {
			t.Errorf("approved must have no outgoing transition, but allows -> %s", to)
		}
	}
}

func TestNoSelfTransitions(t *testing.T) {
	for _, s := range []QuotationStatus{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusExpired} {
		if s.CanTransitionTo(s) {
			t.Errorf("%s -> %s must not be a legal transition", s, s)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []QuotationStatus{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusExpired} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if QuotationStatus("archived").Valid() {
		t.Error("unknown status must not be valid")
	}
}
