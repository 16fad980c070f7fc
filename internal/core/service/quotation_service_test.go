package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubQuotationRepo struct {
	byID      map[string]*domain.Quotation
	seq       int64
	createErr error
	updateErr error
	listErr   error
}

func newStubQuotationRepo() *stubQuotationRepo {
	return &stubQuotationRepo{byID: make(map[string]*domain.Quotation)}
}

func (r *stubQuotationRepo) put(q *domain.Quotation) {
	clone := *q
	r.byID[q.ID] = &clone
}

func (r *stubQuotationRepo) Create(_ context.Context, q *domain.Quotation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.put(q)
	return nil
}

func (r *stubQuotationRepo) FindByID(_ context.Context, id string) (*domain.Quotation, error) {
	q, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrQuotationNotFound
	}
	clone := *q
	return &clone, nil
}

func (r *stubQuotationRepo) List(_ context.Context, f ports.ListQuotationsFilter) ([]*domain.Quotation, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var matched []*domain.Quotation
	for _, q := range r.byID {
		if f.OwnerID != "" && q.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && string(q.Status) != f.Status {
			continue
		}
		if f.ClientID != "" && q.ClientID != f.ClientID {
			continue
		}
		if f.Search != "" {
			numberMatch := strings.Contains(strings.ToLower(q.Number), strings.ToLower(f.Search))
			titleMatch := strings.Contains(strings.ToLower(q.Title), strings.ToLower(f.Search))
			if !numberMatch && !titleMatch {
				continue
			}
		}
		clone := *q
		matched = append(matched, &clone)
	}
	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubQuotationRepo) Update(_ context.Context, q *domain.Quotation, expectedStatus domain.QuotationStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	cur, ok := r.byID[q.ID]
	if !ok {
		return domain.ErrQuotationNotFound
	}
	if cur.Status != expectedStatus {
		return domain.ErrConcurrentModification
	}
	r.put(q)
	return nil
}

// UpdateStatus mirrors the real Mongo conditional write: the predicate
// matches both id and the expected prior status.
func (r *stubQuotationRepo) UpdateStatus(_ context.Context, id string, from, to domain.QuotationStatus, at time.Time) (*domain.Quotation, error) {
	cur, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrQuotationNotFound
	}
	if cur.Status != from {
		return nil, domain.ErrConcurrentModification
	}
	cur.Status = to
	cur.UpdatedAt = at
	clone := *cur
	return &clone, nil
}

func (r *stubQuotationRepo) MarkEmailSent(_ context.Context, id string, at time.Time) error {
	cur, ok := r.byID[id]
	if !ok {
		return domain.ErrQuotationNotFound
	}
	cur.EmailSent = true
	cur.EmailSentAt = &at
	return nil
}

func (r *stubQuotationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrQuotationNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubQuotationRepo) CountByClientID(_ context.Context, clientID string) (int64, error) {
	var n int64
	for _, q := range r.byID {
		if q.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *stubQuotationRepo) NextSequence(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

type stubClientRepo struct {
	byID map[string]*domain.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{byID: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) put(c *domain.Client) {
	clone := *c
	r.byID[c.ID] = &clone
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	r.put(c)
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) List(_ context.Context, f ports.ListClientsFilter) ([]*domain.Client, int64, error) {
	var matched []*domain.Client
	for _, c := range r.byID {
		if f.OwnerID != "" && c.OwnerID != f.OwnerID {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrClientNotFound
	}
	r.put(c)
	return nil
}

func (r *stubClientRepo) Deactivate(_ context.Context, id string) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.Active = false
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubUserRepo struct {
	byID map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) put(u *domain.User) {
	clone := *u
	r.byID[u.ID] = &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	clone := *u
	r.byID[u.ID] = &clone
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = false
	return nil
}

// stubNotifier fails delivery for recipients in failFor, succeeds otherwise.
type stubNotifier struct {
	sent    []ports.NotificationInput
	failFor map[string]bool
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{failFor: make(map[string]bool)}
}

func (n *stubNotifier) Send(_ context.Context, in ports.NotificationInput) ports.NotificationResult {
	n.sent = append(n.sent, in)
	if n.failFor[in.Recipient] {
		return ports.NotificationResult{Success: false, Reason: "smtp timeout"}
	}
	return ports.NotificationResult{Success: true, MessageID: "msg-" + in.Recipient}
}

type stubRenderer struct {
	renderErr error
	calls     int
}

func (r *stubRenderer) Render(_ context.Context, q *domain.Quotation, _ *domain.Client, _ *domain.User, _ domain.CompanyProfile) ([]byte, error) {
	r.calls++
	if r.renderErr != nil {
		return nil, r.renderErr
	}
	return []byte("%PDF " + q.Number), nil
}

type stubInvoiceGen struct {
	generated []string
	genErr    error
}

func (g *stubInvoiceGen) GenerateFromQuotation(_ context.Context, q *domain.Quotation) (*domain.Invoice, error) {
	if g.genErr != nil {
		return nil, g.genErr
	}
	g.generated = append(g.generated, q.ID)
	return &domain.Invoice{ID: "inv-" + q.ID, QuotationID: q.ID}, nil
}

type stubDeduper struct {
	seen map[string]bool
}

func newStubDeduper() *stubDeduper {
	return &stubDeduper{seen: make(map[string]bool)}
}

func (d *stubDeduper) AlreadySent(_ context.Context, quotationID, kind string) (bool, error) {
	return d.seen[kind+":"+quotationID], nil
}

func (d *stubDeduper) MarkSent(_ context.Context, quotationID, kind string, _ time.Time) error {
	d.seen[kind+":"+quotationID] = true
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type testEnv struct {
	svc      *QuotationService
	repo     *stubQuotationRepo
	clients  *stubClientRepo
	users    *stubUserRepo
	notifier *stubNotifier
	renderer *stubRenderer
	invoices *stubInvoiceGen
	dedup    *stubDeduper
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:     newStubQuotationRepo(),
		clients:  newStubClientRepo(),
		users:    newStubUserRepo(),
		notifier: newStubNotifier(),
		renderer: &stubRenderer{},
		invoices: &stubInvoiceGen{},
		dedup:    newStubDeduper(),
	}
	env.svc = NewQuotationService(Deps{
		Quotations: env.repo,
		Clients:    env.clients,
		Users:      env.users,
		Renderer:   env.renderer,
		Notifier:   env.notifier,
		Invoices:   env.invoices,
		SendDedup:  env.dedup,
		Profile:    domain.CompanyProfile{Name: "Acme Consulting"},
		Logger:     discardLogger,
	})

	env.clients.put(&domain.Client{ID: "client_1", OwnerID: "u1", Name: "Globex", Email: "billing@globex.test", Active: true})
	env.users.put(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser, Active: true})
	return env
}

func (e *testEnv) seedQuotation(id, ownerID string, status domain.QuotationStatus) *domain.Quotation {
	q := &domain.Quotation{
		ID:            id,
		Number:        "Q-2026-000" + id,
		Title:         "Consulting work",
		OwnerID:       ownerID,
		ClientID:      "client_1",
		Subtotal:      dec("1000"),
		TaxationType:  domain.TaxationBoth,
		GSTPercentage: dec("5"),
		PSTPercentage: dec("7"),
		Status:        status,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	b, _ := domain.ComputeTax(q.Subtotal, q.TaxationType, q.GSTPercentage, q.PSTPercentage)
	q.ApplyTax(b)
	e.repo.put(q)
	return q
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	callerUser    = domain.Caller{ID: "u1", Role: domain.RoleUser}
	callerOther   = domain.Caller{ID: "u2", Role: domain.RoleUser}
	callerManager = domain.Caller{ID: "m1", Role: domain.RoleManager}
	callerAdmin   = domain.Caller{ID: "a1", Role: domain.RoleAdmin}
)

func createInput() ports.CreateQuotationInput {
	return ports.CreateQuotationInput{
		Title:         "Website redesign",
		ClientID:      "client_1",
		Subtotal:      dec("1000"),
		TaxationType:  domain.TaxationBoth,
		GSTPercentage: dec("5"),
		PSTPercentage: dec("7"),
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate_DerivesTaxAndStartsDraft(t *testing.T) {
	env := newTestEnv()

	q, err := env.svc.Create(context.Background(), callerUser, createInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Status != domain.StatusDraft {
		t.Errorf("status = %s, want draft", q.Status)
	}
	if q.OwnerID != "u1" {
		t.Errorf("owner = %s, want u1", q.OwnerID)
	}
	if !strings.HasPrefix(q.Number, "Q-") {
		t.Errorf("number format wrong: %s", q.Number)
	}
	if !q.GSTAmount.Equal(dec("50.00")) || !q.PSTAmount.Equal(dec("70.00")) {
		t.Errorf("tax amounts = %s/%s, want 50.00/70.00", q.GSTAmount, q.PSTAmount)
	}
	if !q.TotalAmount.Equal(dec("1120.00")) {
		t.Errorf("total = %s, want 1120.00", q.TotalAmount)
	}
	if !q.TotalAmount.Equal(q.Subtotal.Add(q.CombinedTaxAmount)) {
		t.Error("total != subtotal + combined tax")
	}
}

func TestCreate_SequentialNumbers(t *testing.T) {
	env := newTestEnv()

	q1, _ := env.svc.Create(context.Background(), callerUser, createInput())
	q2, _ := env.svc.Create(context.Background(), callerUser, createInput())
	if q1.Number == q2.Number {
		t.Fatalf("numbers must be unique, got %s twice", q1.Number)
	}
}

func TestCreate_RejectsLegacySelection(t *testing.T) {
	env := newTestEnv()

	in := createInput()
	in.TaxationType = domain.TaxationLegacy
	if _, err := env.svc.Create(context.Background(), callerUser, in); !errors.Is(err, domain.ErrInvalidTaxSelection) {
		t.Fatalf("expected ErrInvalidTaxSelection, got %v", err)
	}
}

func TestCreate_UnknownClient(t *testing.T) {
	env := newTestEnv()

	in := createInput()
	in.ClientID = "missing"
	if _, err := env.svc.Create(context.Background(), callerUser, in); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestCreate_UnknownRoleForbidden(t *testing.T) {
	env := newTestEnv()

	caller := domain.Caller{ID: "x", Role: domain.Role("intern")}
	if _, err := env.svc.Create(context.Background(), caller, createInput()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Get / scope
// ---------------------------------------------------------------------------

func TestGet_OwnerSeesOwnRecord(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)

	q, err := env.svc.Get(context.Background(), callerUser, "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != "q1" {
		t.Errorf("got %s", q.ID)
	}
}

func TestGet_OutOfScopeIsForbiddenNotNotFound(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)

	_, err := env.svc.Get(context.Background(), callerOther, "q1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for existing out-of-scope record, got %v", err)
	}

	_, err = env.svc.Get(context.Background(), callerOther, "missing")
	if !errors.Is(err, domain.ErrQuotationNotFound) {
		t.Fatalf("expected ErrQuotationNotFound for missing record, got %v", err)
	}
}

func TestGet_ManagerSeesAnyRecord(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)

	if _, err := env.svc.Get(context.Background(), callerManager, "q1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestList_OwnerScopedForUserRole(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)
	env.seedQuotation("q2", "u2", domain.StatusDraft)
	env.seedQuotation("q3", "u1", domain.StatusPending)

	res, err := env.svc.List(context.Background(), callerUser, ports.ListQuotationsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("user sees %d records, want 2", res.Total)
	}
	for _, q := range res.Items {
		if q.OwnerID != "u1" {
			t.Errorf("leaked record %s owned by %s", q.ID, q.OwnerID)
		}
	}

	all, err := env.svc.List(context.Background(), callerManager, ports.ListQuotationsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all.Total != 3 {
		t.Errorf("manager sees %d records, want 3", all.Total)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdate_RecomputesTaxOnSubtotalChange(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)

	newSubtotal := dec("250.55")
	gstOnly := domain.TaxationGST
	q, err := env.svc.Update(context.Background(), callerUser, "q1", ports.UpdateQuotationInput{
		Subtotal:     &newSubtotal,
		TaxationType: &gstOnly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !q.GSTAmount.Equal(dec("12.53")) {
		t.Errorf("gst = %s, want 12.53", q.GSTAmount)
	}
	if !q.PSTAmount.IsZero() {
		t.Errorf("pst = %s, want 0", q.PSTAmount)
	}
	if !q.TotalAmount.Equal(dec("263.08")) {
		t.Errorf("total = %s, want 263.08", q.TotalAmount)
	}
}

func TestUpdate_TitleOnlyKeepsTaxFields(t *testing.T) {
	env := newTestEnv()
	seeded := env.seedQuotation("q1", "u1", domain.StatusDraft)

	title := "Renamed"
	q, err := env.svc.Update(context.Background(), callerUser, "q1", ports.UpdateQuotationInput{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.TotalAmount.Equal(seeded.TotalAmount) || !q.CombinedTaxAmount.Equal(seeded.CombinedTaxAmount) {
		t.Error("tax fields must not change on a content-only edit")
	}
}

func TestUpdate_ApprovedIsImmutable(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusApproved)

	title := "Changed"
	_, err := env.svc.Update(context.Background(), callerAdmin, "q1", ports.UpdateQuotationInput{Title: &title})
	if !errors.Is(err, domain.ErrQuotationImmutable) {
		t.Fatalf("expected ErrQuotationImmutable, got %v", err)
	}

	stored, _ := env.repo.FindByID(context.Background(), "q1")
	if stored.Title != "Consulting work" {
		t.Error("no field change may be persisted on a rejected edit")
	}
}

func TestUpdate_OutOfScopeForbidden(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)

	title := "Hijacked"
	_, err := env.svc.Update(context.Background(), callerOther, "q1", ports.UpdateQuotationInput{Title: &title})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete / Duplicate
// ---------------------------------------------------------------------------

func TestDelete_RequiresDeletePermission(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusDraft)

	// The user role has no delete grant, even on its own records.
	if err := env.svc.Delete(context.Background(), callerUser, "q1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := env.svc.Delete(context.Background(), callerAdmin, "q1"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}

func TestDelete_ApprovedRefused(t *testing.T) {
	env := newTestEnv()
	env.seedQuotation("q1", "u1", domain.StatusApproved)

	if err := env.svc.Delete(context.Background(), callerAdmin, "q1"); !errors.Is(err, domain.ErrQuotationImmutable) {
		t.Fatalf("expected ErrQuotationImmutable, got %v", err)
	}
	if _, err := env.repo.FindByID(context.Background(), "q1"); err != nil {
		t.Fatal("approved quotation must survive the delete attempt")
	}
}

func TestDuplicate_FreshDraftOwnedByCaller(t *testing.T) {
	env := newTestEnv()
	src := env.seedQuotation("q1", "u1", domain.StatusApproved)

	dup, err := env.svc.Duplicate(context.Background(), callerManager, "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup.ID == src.ID || dup.Number == src.Number {
		t.Error("duplicate must get a fresh id and number")
	}
	if dup.Status != domain.StatusDraft {
		t.Errorf("duplicate status = %s, want draft", dup.Status)
	}
	if dup.OwnerID != callerManager.ID {
		t.Errorf("duplicate owner = %s, want %s", dup.OwnerID, callerManager.ID)
	}
	if dup.EmailSent {
		t.Error("duplicate must reset the email_sent flag")
	}
	if !dup.TotalAmount.Equal(src.TotalAmount) {
		t.Error("duplicate must copy the monetary fields verbatim")
	}
}
