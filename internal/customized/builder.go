package customized

import (
	"context"
	"sync"

	"bikecare/internal/backend"
	"bikecare/internal/domain"
	"bikecare/internal/domain/models"
	"bikecare/internal/utils"
)

// Backend is the slice of the remote API the builder uses.
type Backend interface {
	Models(ctx context.Context, companyID int64) ([]models.BikeModel, error)
	CalculatePrice(ctx context.Context, req backend.CalculateRequest) (int64, error)
	SaveCustomized(ctx context.Context, cfg models.CustomizedServiceConfig) (models.CustomizedServiceConfig, error)
	UpdateCustomized(ctx context.Context, id int64, cfg models.CustomizedServiceConfig) (models.CustomizedServiceConfig, error)
	MyCustomized(ctx context.Context) ([]models.CustomizedServiceConfig, error)
	DeleteCustomized(ctx context.Context, id int64) error
}

// Builder assembles a customized service configuration: pick a bike, toggle
// service items, let the backend price the combination, then persist it.
// The price is never guessed locally; until a calculation has succeeded for
// the current selection there is nothing to save.
type Builder struct {
	Backend   Backend
	RequestID string

	mu          sync.Mutex
	companyID   int64
	companyName string
	modelID     int64
	modelName   string
	cc          int
	flags       models.ServiceFlags
	price       *int64
	editingID   int64
	bikeModels  []models.BikeModel
	calcSeq     uint64
}

func NewBuilder(b Backend) *Builder {
	return &Builder{Backend: b}
}

// Price returns the last successfully calculated price, or nil when the
// current selection has not been priced yet.
func (b *Builder) Price() *int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.price == nil {
		return nil
	}
	p := *b.price
	return &p
}

// Editing reports the id of the config being edited, zero for a new one.
func (b *Builder) Editing() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.editingID
}

func (b *Builder) Flags() models.ServiceFlags {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flags
}

// SelectCompany resets the dependent model and cc fields and loads the new
// company's model list.
func (b *Builder) SelectCompany(ctx context.Context, id int64, name string) error {
	b.mu.Lock()
	b.companyID = id
	b.companyName = name
	b.modelID = 0
	b.modelName = ""
	b.cc = 0
	b.price = nil
	b.bikeModels = nil
	b.calcSeq++
	if id <= 0 {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	list, err := b.Backend.Models(ctx, id)
	if err != nil {
		utils.LogEvent(b.RequestID, "customized", "load_models", "fetch failed: "+err.Error())
		return err
	}

	b.mu.Lock()
	if b.companyID == id {
		b.bikeModels = list
	}
	b.mu.Unlock()
	return nil
}

// SelectModel picks a model from the loaded list; the engine cc auto-fills
// from the model. A fresh price calculation is started.
func (b *Builder) SelectModel(ctx context.Context, id int64) error {
	b.mu.Lock()
	if id <= 0 {
		b.modelID = 0
		b.modelName = ""
		b.cc = 0
		b.price = nil
		b.calcSeq++
		b.mu.Unlock()
		return nil
	}
	var picked *models.BikeModel
	for i := range b.bikeModels {
		if b.bikeModels[i].ID == id {
			picked = &b.bikeModels[i]
			break
		}
	}
	if picked == nil {
		b.mu.Unlock()
		return domain.ValidationError{Field: "modelId", Msg: "model does not belong to the selected company"}
	}
	b.modelID = picked.ID
	b.modelName = picked.ModelName
	b.cc = picked.EngineCc
	b.mu.Unlock()

	return b.Recalculate(ctx)
}

// Toggle flips one service item and reprices.
func (b *Builder) Toggle(ctx context.Context, item string, on bool) error {
	b.mu.Lock()
	switch item {
	case "wash":
		b.flags.Wash = on
	case "oilChange":
		b.flags.OilChange = on
	case "chainLube":
		b.flags.ChainLube = on
	case "engineTuneUp":
		b.flags.EngineTuneUp = on
	case "breakCheck":
		b.flags.BreakCheck = on
	case "fullbodyPolishing":
		b.flags.FullbodyPolishing = on
	case "generalInspection":
		b.flags.GeneralInspection = on
	default:
		b.mu.Unlock()
		return domain.ValidationError{Field: "service", Msg: "unknown service item: " + item}
	}
	b.mu.Unlock()

	return b.Recalculate(ctx)
}

// Recalculate asks the backend to price the current selection. Every change
// issues a fresh request; a response that arrives after a newer change is
// discarded so a stale price can never overwrite a newer selection. On
// failure the price becomes unknown, never zero.
func (b *Builder) Recalculate(ctx context.Context) error {
	b.mu.Lock()
	if b.companyID <= 0 || b.modelID <= 0 || b.cc <= 0 {
		b.price = nil
		b.calcSeq++
		b.mu.Unlock()
		return nil
	}
	b.calcSeq++
	seq := b.calcSeq
	req := backend.CalculateRequest{
		BikeCompanyID: b.companyID,
		BikeModelID:   b.modelID,
		Cc:            b.cc,
		ServiceFlags:  b.flags,
	}
	b.mu.Unlock()

	price, err := b.Backend.CalculatePrice(ctx, req)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.calcSeq {
		// superseded by a newer change
		return nil
	}
	if err != nil {
		utils.LogEvent(b.RequestID, "customized", "calculate", "pricing failed: "+err.Error())
		b.price = nil
		return err
	}
	b.price = &price
	return nil
}

// Save persists the configuration under the authenticated user and returns
// it with its assigned id, so the booking form can attach it. Refused until
// a price has been calculated for the current selection.
func (b *Builder) Save(ctx context.Context) (models.CustomizedServiceConfig, error) {
	b.mu.Lock()
	if b.companyID <= 0 || b.modelID <= 0 || b.cc <= 0 {
		b.mu.Unlock()
		return models.CustomizedServiceConfig{}, domain.ValidationError{Msg: "select a bike company and model first"}
	}
	if b.price == nil {
		b.mu.Unlock()
		return models.CustomizedServiceConfig{}, domain.ValidationError{Field: "totalPrice", Msg: "price not calculated yet"}
	}
	cfg := models.CustomizedServiceConfig{
		BikeCompanyID:   b.companyID,
		BikeCompanyName: b.companyName,
		BikeModelID:     b.modelID,
		BikeModelName:   b.modelName,
		Cc:              b.cc,
		ServiceFlags:    b.flags,
		TotalPrice:      *b.price,
	}
	editing := b.editingID
	b.mu.Unlock()

	var (
		saved models.CustomizedServiceConfig
		err   error
	)
	if editing > 0 {
		saved, err = b.Backend.UpdateCustomized(ctx, editing, cfg)
	} else {
		saved, err = b.Backend.SaveCustomized(ctx, cfg)
	}
	if err != nil {
		return models.CustomizedServiceConfig{}, err
	}

	b.mu.Lock()
	b.editingID = 0
	b.mu.Unlock()
	return saved, nil
}

// Edit loads a previously saved configuration back into the form; the next
// Save becomes an update of that config.
func (b *Builder) Edit(ctx context.Context, cfg models.CustomizedServiceConfig) error {
	if err := b.SelectCompany(ctx, cfg.BikeCompanyID, cfg.BikeCompanyName); err != nil {
		return err
	}

	b.mu.Lock()
	b.editingID = cfg.ID
	b.modelID = cfg.BikeModelID
	b.modelName = cfg.BikeModelName
	b.cc = cfg.Cc
	b.flags = cfg.ServiceFlags
	price := cfg.TotalPrice
	b.price = &price
	b.calcSeq++
	b.mu.Unlock()
	return nil
}

// Delete removes a saved configuration. The caller must have collected an
// explicit confirmation first.
func (b *Builder) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return domain.ValidationError{Msg: "deletion requires confirmation"}
	}
	return b.Backend.DeleteCustomized(ctx, id)
}

// Saved lists the caller's stored configurations.
func (b *Builder) Saved(ctx context.Context) ([]models.CustomizedServiceConfig, error) {
	return b.Backend.MyCustomized(ctx)
}
