package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

func TestSend_DeliversAndMarksFlag(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusPending)

	res, err := env.svc.Send(context.Background(), callerUser, "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Sent {
		t.Fatalf("send failed: %s", res.Reason)
	}
	if res.MessageID == "" {
		t.Error("expected a message id")
	}

	stored, _ := env.repo.FindByID(context.Background(), "q1")
	if !stored.EmailSent || stored.EmailSentAt == nil {
		t.Error("email_sent flag and timestamp must be set")
	}
}

func TestSend_RepeatIsSuppressed(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusPending)

	first, _ := env.svc.Send(context.Background(), callerUser, "q1")
	if !first.Sent {
		t.Fatalf("first send failed: %s", first.Reason)
	}

	second, err := env.svc.Send(context.Background(), callerUser, "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Sent {
		t.Error("repeat send within the dedup window must be suppressed")
	}
	if len(env.notifier.sent) != 1 {
		t.Errorf("notifier called %d times, want 1", len(env.notifier.sent))
	}
}

func TestSend_DeliveryFailureIsAResultNotAnError(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusPending)
	env.notifier.failFor["billing@globex.test"] = true

	res, err := env.svc.Send(context.Background(), callerUser, "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sent {
		t.Error("expected failed delivery")
	}
	if res.Reason == "" {
		t.Error("failed delivery must carry a reason")
	}

	stored, _ := env.repo.FindByID(context.Background(), "q1")
	if stored.EmailSent {
		t.Error("email_sent must stay false after failed delivery")
	}
}

func TestSend_ClientWithoutEmail(t *testing.T) {
	env := newTestEnv()
	env.clients.put(&domain.Client{ID: "client_dark", OwnerID: "u1", Name: "No Mail Inc", Active: true})
	q := env.seedQuotation("q1", "u1", domain.StatusDraft)
	q.ClientID = "client_dark"
	env.repo.put(q)

	res, err := env.svc.Send(context.Background(), callerUser, "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sent {
		t.Error("cannot deliver without a recipient address")
	}
}

func TestSend_OutOfScopeForbidden(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusPending)

	if _, err := env.svc.Send(context.Background(), callerOther, "q1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRenderPDF_PassesBytesThrough(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)

	data, err := env.svc.RenderPDF(context.Background(), callerUser, "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected rendered bytes")
	}
	if env.renderer.calls != 1 {
		t.Errorf("renderer called %d times, want 1", env.renderer.calls)
	}
}

func TestExportCSV_ScopedRows(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)
	env.seedQuotation("q2", "u2", domain.StatusDraft)

	data, err := env.svc.ExportCSV(context.Background(), callerUser, ports.ListQuotationsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 { // header + one owned row
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "number,title,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Q-2026-000q1") {
		t.Errorf("expected owned quotation row, got: %s", lines[1])
	}
	if strings.Contains(out, "q2") {
		t.Error("out-of-scope rows leaked into the export")
	}
}

func TestExportCSV_RequiresExportPermission(t *testing.T) {
	env := newTestEnv()

	caller := domain.Caller{ID: "x", Role: domain.Role("intern")}
	if _, err := env.svc.ExportCSV(context.Background(), caller, ports.ListQuotationsInput{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
