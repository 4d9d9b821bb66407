package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"bikecare/internal/backend"
	"bikecare/internal/domain"
	"bikecare/internal/domain/models"
	"bikecare/internal/session"
	"bikecare/internal/utils"

	"github.com/go-playground/validator/v10"
)

// State of one booking form instance.
type State string

const (
	StateIdle               State = "IDLE"
	StateCustomizedPending  State = "CUSTOMIZED_PENDING"
	StateCustomizedAttached State = "CUSTOMIZED_ATTACHED"
	StateSubmitting         State = "SUBMITTING"
	StateDone               State = "DONE"
)

// Catalog is the slice of the backend the controller needs for reference data.
type Catalog interface {
	Models(ctx context.Context, companyID int64) ([]models.BikeModel, error)
}

// Configs loads saved customized-service configurations.
type Configs interface {
	GetCustomized(ctx context.Context, id int64) (models.CustomizedServiceConfig, error)
}

// Action tells the caller what to do with a submit outcome.
type Action string

const (
	ActionRedirectLogin   Action = "REDIRECT_LOGIN"
	ActionRedirectBuilder Action = "REDIRECT_BUILDER"
	ActionProceed         Action = "PROCEED_TO_PAYMENT"
)

// Outcome of a Submit call. Request is set only for ActionProceed.
type Outcome struct {
	Action     Action
	RedirectTo string
	Request    *SubmitRequest
}

// SubmitRequest is the validated hand-off to the payment orchestrator.
// Amount is computed exactly once here and reused for both the displayed
// total and the payment order.
type SubmitRequest struct {
	Form         models.BookingForm
	CustomizedID *int64
	Amount       int64
}

// Controller owns the booking form's local state: field values, the loaded
// model list, an optionally attached customized config, and the draft
// round-trip to the builder.
type Controller struct {
	Catalog Catalog
	Configs Configs
	Store   session.Store
	Owner   string
	Token   backend.TokenSource
	Now     func() time.Time

	RequestID string

	mu         sync.Mutex
	state      State
	form       models.BookingForm
	bikeModels []models.BikeModel
	custom     *models.CustomizedServiceConfig
	loadSeq    uint64
	validate   *validator.Validate
}

func NewController(catalog Catalog, configs Configs, store session.Store, owner string, token backend.TokenSource) *Controller {
	return &Controller{
		Catalog:  catalog,
		Configs:  configs,
		Store:    store,
		Owner:    owner,
		Token:    token,
		Now:      time.Now,
		state:    StateIdle,
		validate: validator.New(),
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Form() models.BookingForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// ModelOptions returns the model list loaded for the selected company.
func (c *Controller) ModelOptions() []models.BikeModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.BikeModel, len(c.bikeModels))
	copy(out, c.bikeModels)
	return out
}

// Custom returns the attached customized config, if any.
func (c *Controller) Custom() *models.CustomizedServiceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.custom == nil {
		return nil
	}
	cp := *c.custom
	return &cp
}

// FieldsLocked reports whether company/model are pinned by an attached
// config; the config is bike-specific so they must not be editable.
func (c *Controller) FieldsLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.custom != nil
}

// SelectCompany switches the bike company. Any previously selected model is
// cleared immediately so a model from another company can never stay
// selected, then the new company's models are loaded. A response that
// arrives after a newer selection is discarded.
func (c *Controller) SelectCompany(ctx context.Context, companyID int64) error {
	c.mu.Lock()
	if c.custom != nil {
		c.mu.Unlock()
		return domain.ValidationError{Field: "companyId", Msg: "locked by the attached customized service"}
	}
	c.form.CompanyID = companyID
	c.form.ModelID = 0
	c.bikeModels = nil
	if companyID <= 0 {
		c.mu.Unlock()
		return nil
	}
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	list, err := c.Catalog.Models(ctx, companyID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		// superseded by a newer selection
		return nil
	}
	if err != nil {
		utils.LogEvent(c.RequestID, "booking", "load_models", "fetch failed: "+err.Error())
		return err
	}
	c.bikeModels = list
	return nil
}

// SelectModel picks a model from the loaded list.
func (c *Controller) SelectModel(modelID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.custom != nil {
		return domain.ValidationError{Field: "modelId", Msg: "locked by the attached customized service"}
	}
	if modelID <= 0 {
		c.form.ModelID = 0
		return nil
	}
	for _, m := range c.bikeModels {
		if m.ID == modelID {
			c.form.ModelID = modelID
			return nil
		}
	}
	return domain.ValidationError{Field: "modelId", Msg: "model does not belong to the selected company"}
}

// SetServiceType records the chosen plan. Choosing CUSTOMIZED without an
// attached config parks the form until the builder hands one back.
func (c *Controller) SetServiceType(serviceType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !models.KnownServiceType(serviceType) {
		return domain.ValidationError{Field: "serviceType", Msg: "unknown service type"}
	}
	c.form.ServiceType = serviceType
	if serviceType == models.Customized && c.custom == nil {
		c.state = StateCustomizedPending
	} else if c.custom == nil {
		c.state = StateIdle
	}
	return nil
}

// SetDetails fills the appointment and address fields.
func (c *Controller) SetDetails(date, slot, fullAddress, landmark, notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.AppointmentDate = strings.TrimSpace(date)
	c.form.TimeSlot = strings.TrimSpace(slot)
	c.form.FullAddress = strings.TrimSpace(fullAddress)
	c.form.Landmark = strings.TrimSpace(landmark)
	c.form.Notes = strings.TrimSpace(notes)
}

// AttachConfig loads a saved customized config (id passed back from the
// builder) and locks company/model to the bike it was built for.
func (c *Controller) AttachConfig(ctx context.Context, id int64) error {
	cfg, err := c.Configs.GetCustomized(ctx, id)
	if err != nil {
		utils.LogEvent(c.RequestID, "booking", "attach_config", "load failed: "+err.Error())
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom = &cfg
	c.form.ServiceType = models.Customized
	c.form.CompanyID = cfg.BikeCompanyID
	c.form.ModelID = cfg.BikeModelID
	c.state = StateCustomizedAttached
	return nil
}

// SaveDraft snapshots the form into the single-slot draft, overwriting any
// prior unconsumed draft.
func (c *Controller) SaveDraft(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	buf, err := json.Marshal(form)
	if err != nil {
		return domain.InternalError{Msg: "encode draft", Err: err}
	}
	return c.Store.Set(ctx, c.Owner, session.KeyBookingDraft, string(buf))
}

// RestoreDraft applies a stored draft and deletes it in the same operation,
// so a later navigation can never re-apply stale values. Returns false when
// no draft was stored.
func (c *Controller) RestoreDraft(ctx context.Context) (bool, error) {
	raw, ok, err := session.Take(ctx, c.Store, c.Owner, session.KeyBookingDraft)
	if err != nil || !ok {
		return false, err
	}

	var form models.BookingForm
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return false, domain.InternalError{Msg: "decode draft", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
	if form.ServiceType == models.Customized && c.custom == nil {
		c.state = StateCustomizedPending
	}
	return true, nil
}

// Amount is the exact value to charge for the current selection: the
// snapshotted config price when customized, the flat base fee otherwise.
func (c *Controller) Amount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amountLocked()
}

func (c *Controller) amountLocked() int64 {
	if c.custom != nil {
		return c.custom.TotalPrice
	}
	return models.BaseFee
}

// Submit validates the form and decides what happens next. It never reaches
// the backend when CUSTOMIZED is selected without an attached config, and it
// aborts (to login) when the session token is missing.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if strings.TrimSpace(token) == "" {
		_ = c.Store.Set(ctx, c.Owner, session.KeyRedirectAfterLogin, "/book")
		return Outcome{Action: ActionRedirectLogin, RedirectTo: "/login"}, nil
	}

	c.mu.Lock()
	form := c.form
	custom := c.custom
	c.mu.Unlock()

	if form.ServiceType == models.Customized && custom == nil {
		if err := c.SaveDraft(ctx); err != nil {
			return Outcome{}, err
		}
		c.mu.Lock()
		c.state = StateCustomizedPending
		c.mu.Unlock()
		return Outcome{Action: ActionRedirectBuilder, RedirectTo: "/custom-service"}, nil
	}

	if err := c.validateForm(ctx, form, custom); err != nil {
		return Outcome{}, err
	}

	c.mu.Lock()
	c.state = StateSubmitting
	req := &SubmitRequest{Form: form, Amount: c.amountLocked()}
	if custom != nil {
		id := custom.ID
		req.CustomizedID = &id
	}
	c.mu.Unlock()

	return Outcome{Action: ActionProceed, Request: req}, nil
}

// Finish records the terminal result of a submission attempt. A failure
// returns the form to its pre-submit state so the user can retry without
// re-entering anything.
func (c *Controller) Finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.state = StateDone
		return
	}
	if c.custom != nil {
		c.state = StateCustomizedAttached
	} else {
		c.state = StateIdle
	}
}

func (c *Controller) validateForm(ctx context.Context, form models.BookingForm, custom *models.CustomizedServiceConfig) error {
	if err := c.validate.Struct(form); err != nil {
		return domain.ValidationError{Msg: firstValidationIssue(err), Err: err}
	}
	if !models.KnownServiceType(form.ServiceType) {
		return domain.ValidationError{Field: "serviceType", Msg: "unknown service type"}
	}

	date, err := utils.ParseDate(form.AppointmentDate)
	if err != nil {
		return domain.ValidationError{Field: "appointmentDate", Msg: "expected YYYY-MM-DD", Err: err}
	}
	today := c.Now().In(time.Local)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	if date.Before(today) {
		return domain.ValidationError{Field: "appointmentDate", Msg: "appointment date must be today or later"}
	}

	// Model must belong to the selected company; an attached config already
	// guarantees this pairing.
	if custom == nil {
		list, err := c.Catalog.Models(ctx, form.CompanyID)
		if err != nil {
			return domain.InternalError{Msg: "could not verify bike model", Err: err}
		}
		found := false
		for _, m := range list {
			if m.ID == form.ModelID {
				found = true
				break
			}
		}
		if !found {
			return domain.ValidationError{Field: "modelId", Msg: "model does not belong to the selected company"}
		}
	}
	return nil
}

func firstValidationIssue(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return strings.ToLower(f.Field()[:1]) + f.Field()[1:] + " is invalid"
	}
	return "invalid booking form"
}
