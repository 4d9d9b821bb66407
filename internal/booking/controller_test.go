package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"bikecare/internal/domain"
	"bikecare/internal/domain/models"
	"bikecare/internal/session"
)

type fakeCatalog struct {
	mu      sync.Mutex
	models  map[int64][]models.BikeModel
	calls   int
	started map[int64]chan struct{} // closed when a fetch for that company begins
	release map[int64]chan struct{} // optional per-company gate to simulate slow responses
}

func (f *fakeCatalog) Models(ctx context.Context, companyID int64) ([]models.BikeModel, error) {
	f.mu.Lock()
	f.calls++
	if ch := f.started[companyID]; ch != nil {
		close(ch)
		delete(f.started, companyID)
	}
	gate := f.release[companyID]
	list := f.models[companyID]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return list, nil
}

type fakeConfigs struct {
	cfg models.CustomizedServiceConfig
	err error
}

func (f *fakeConfigs) GetCustomized(context.Context, int64) (models.CustomizedServiceConfig, error) {
	return f.cfg, f.err
}

func token(tok string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return tok, nil }
}

func catalogFixture() *fakeCatalog {
	return &fakeCatalog{
		models: map[int64][]models.BikeModel{
			1: {{ID: 10, ModelName: "Activa", EngineCc: 110, CompanyID: 1}},
			2: {{ID: 20, ModelName: "Pulsar", EngineCc: 150, CompanyID: 2}},
		},
		started: map[int64]chan struct{}{},
		release: map[int64]chan struct{}{},
	}
}

func validForm(ctl *Controller, t *testing.T) {
	t.Helper()
	if err := ctl.SelectCompany(context.Background(), 1); err != nil {
		t.Fatalf("select company: %v", err)
	}
	if err := ctl.SelectModel(10); err != nil {
		t.Fatalf("select model: %v", err)
	}
	if err := ctl.SetServiceType(models.PlanUpto100CC); err != nil {
		t.Fatalf("set service type: %v", err)
	}
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	ctl.SetDetails(tomorrow, models.SlotMorning, "123 Main St", "", "")
}

func TestCompanyChangeClearsModel(t *testing.T) {
	ctl := NewController(catalogFixture(), &fakeConfigs{}, session.NewMemoryStore(), "u1", token("tok"))
	ctx := context.Background()

	_ = ctl.SelectCompany(ctx, 1)
	if err := ctl.SelectModel(10); err != nil {
		t.Fatalf("select model: %v", err)
	}

	_ = ctl.SelectCompany(ctx, 2)
	if got := ctl.Form().ModelID; got != 0 {
		t.Fatalf("model must be cleared on company change, got %d", got)
	}
	if err := ctl.SelectModel(10); !domain.IsValidation(err) {
		t.Fatalf("model 10 belongs to company 1, expected validation error, got %v", err)
	}
}

func TestStaleModelListDiscarded(t *testing.T) {
	cat := catalogFixture()
	slow := make(chan struct{})
	begun := make(chan struct{})
	cat.release[1] = slow
	cat.started[1] = begun

	ctl := NewController(cat, &fakeConfigs{}, session.NewMemoryStore(), "u1", token("tok"))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		_ = ctl.SelectCompany(ctx, 1) // slow response
		close(done)
	}()

	// wait for the slow fetch to be in flight, then supersede it
	<-begun
	_ = ctl.SelectCompany(ctx, 2)

	close(slow)
	<-done

	opts := ctl.ModelOptions()
	if len(opts) != 1 || opts[0].CompanyID != 2 {
		t.Fatalf("last selected company's models must win, got %+v", opts)
	}
}

func TestSubmitWithoutTokenRedirectsToLogin(t *testing.T) {
	store := session.NewMemoryStore()
	ctl := NewController(catalogFixture(), &fakeConfigs{}, store, "u1", token(""))
	validForm(ctl, t)

	out, err := ctl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if out.Action != ActionRedirectLogin || out.RedirectTo != "/login" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if v, ok, _ := store.Get(context.Background(), "u1", session.KeyRedirectAfterLogin); !ok || v != "/book" {
		t.Fatalf("redirectAfterLogin not recorded, got ok=%v v=%q", ok, v)
	}
}

func TestCustomizedWithoutConfigRedirectsToBuilder(t *testing.T) {
	cat := catalogFixture()
	store := session.NewMemoryStore()
	ctl := NewController(cat, &fakeConfigs{}, store, "u1", token("tok"))
	ctx := context.Background()

	_ = ctl.SelectCompany(ctx, 1)
	_ = ctl.SelectModel(10)
	_ = ctl.SetServiceType(models.Customized)
	ctl.SetDetails(time.Now().AddDate(0, 0, 1).Format("2006-01-02"), models.SlotMorning, "123 Main St", "", "")

	callsBefore := cat.calls
	out, err := ctl.Submit(ctx)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if out.Action != ActionRedirectBuilder || out.RedirectTo != "/custom-service" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if cat.calls != callsBefore {
		t.Fatalf("no backend call may happen for an unconfigured customized submit")
	}
	if ctl.State() != StateCustomizedPending {
		t.Fatalf("state = %s, want %s", ctl.State(), StateCustomizedPending)
	}

	// draft preserved the field values
	raw, ok, _ := store.Get(ctx, "u1", session.KeyBookingDraft)
	if !ok {
		t.Fatalf("draft must be saved before the redirect")
	}
	if raw == "" {
		t.Fatalf("empty draft payload")
	}
}

func TestDraftRestoreIsExactlyOnce(t *testing.T) {
	store := session.NewMemoryStore()
	ctl := NewController(catalogFixture(), &fakeConfigs{}, store, "u1", token("tok"))
	ctx := context.Background()

	validForm(ctl, t)
	if err := ctl.SaveDraft(ctx); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	fresh := NewController(catalogFixture(), &fakeConfigs{}, store, "u1", token("tok"))
	restored, err := fresh.RestoreDraft(ctx)
	if err != nil || !restored {
		t.Fatalf("restore: restored=%v err=%v", restored, err)
	}
	if fresh.Form().FullAddress != "123 Main St" {
		t.Fatalf("draft fields not applied: %+v", fresh.Form())
	}

	again := NewController(catalogFixture(), &fakeConfigs{}, store, "u1", token("tok"))
	restored, err = again.RestoreDraft(ctx)
	if err != nil {
		t.Fatalf("second restore error: %v", err)
	}
	if restored {
		t.Fatalf("second restore must find no draft")
	}
}

func TestAttachConfigLocksFields(t *testing.T) {
	cfg := models.CustomizedServiceConfig{
		ID:            7,
		BikeCompanyID: 1,
		BikeModelID:   10,
		Cc:            110,
		TotalPrice:    450,
	}
	cfg.Wash = true
	cfg.OilChange = true

	ctl := NewController(catalogFixture(), &fakeConfigs{cfg: cfg}, session.NewMemoryStore(), "u1", token("tok"))
	ctx := context.Background()

	if err := ctl.AttachConfig(ctx, 7); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if ctl.State() != StateCustomizedAttached {
		t.Fatalf("state = %s", ctl.State())
	}
	if !ctl.FieldsLocked() {
		t.Fatalf("fields must be locked after attach")
	}
	if err := ctl.SelectCompany(ctx, 2); !domain.IsValidation(err) {
		t.Fatalf("company change must be refused while locked, got %v", err)
	}
	form := ctl.Form()
	if form.CompanyID != 1 || form.ModelID != 10 || form.ServiceType != models.Customized {
		t.Fatalf("form not pinned to config: %+v", form)
	}
	if ctl.Amount() != 450 {
		t.Fatalf("amount = %d, want snapshotted 450", ctl.Amount())
	}
}

func TestSubmitProducesSingleAmount(t *testing.T) {
	ctl := NewController(catalogFixture(), &fakeConfigs{}, session.NewMemoryStore(), "u1", token("tok"))
	validForm(ctl, t)

	displayed := ctl.Amount()
	out, err := ctl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Action != ActionProceed || out.Request == nil {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Request.Amount != displayed || out.Request.Amount != models.BaseFee {
		t.Fatalf("charged amount %d must equal displayed %d (base fee %d)",
			out.Request.Amount, displayed, models.BaseFee)
	}
	if ctl.State() != StateSubmitting {
		t.Fatalf("state = %s", ctl.State())
	}
}

func TestSubmitRejectsPastDate(t *testing.T) {
	ctl := NewController(catalogFixture(), &fakeConfigs{}, session.NewMemoryStore(), "u1", token("tok"))
	validForm(ctl, t)
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	ctl.SetDetails(yesterday, models.SlotMorning, "123 Main St", "", "")

	if _, err := ctl.Submit(context.Background()); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for past date, got %v", err)
	}
}

func TestFinishFailureReturnsToEditableState(t *testing.T) {
	ctl := NewController(catalogFixture(), &fakeConfigs{}, session.NewMemoryStore(), "u1", token("tok"))
	validForm(ctl, t)

	if _, err := ctl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	ctl.Finish(domain.InternalError{Msg: "boom"})
	if ctl.State() != StateIdle {
		t.Fatalf("failed submit should return to idle, got %s", ctl.State())
	}
	if ctl.Form().FullAddress != "123 Main St" {
		t.Fatalf("field values must survive a failed submit")
	}

	if _, err := ctl.Submit(context.Background()); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	ctl.Finish(nil)
	if ctl.State() != StateDone {
		t.Fatalf("state = %s, want %s", ctl.State(), StateDone)
	}
}
