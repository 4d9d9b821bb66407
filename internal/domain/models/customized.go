package models

// ServiceFlags is the fixed set of optional service items a customer can
// toggle when building a customized plan.
type ServiceFlags struct {
	Wash              bool `json:"wash"`
	OilChange         bool `json:"oilChange"`
	ChainLube         bool `json:"chainLube"`
	EngineTuneUp      bool `json:"engineTuneUp"`
	BreakCheck        bool `json:"breakCheck"`
	FullbodyPolishing bool `json:"fullbodyPolishing"`
	GeneralInspection bool `json:"generalInspection"`
}

// Selected returns display labels for the enabled flags, in a stable order.
func (f ServiceFlags) Selected() []string {
	out := []string{}
	add := func(on bool, label string) {
		if on {
			out = append(out, label)
		}
	}
	add(f.Wash, "Bike Wash")
	add(f.OilChange, "Oil Change")
	add(f.ChainLube, "Chain Lube")
	add(f.EngineTuneUp, "Engine Tune-up")
	add(f.BreakCheck, "Brake Check")
	add(f.FullbodyPolishing, "Full Body Polishing")
	add(f.GeneralInspection, "General Inspection")
	return out
}

// Any reports whether at least one service item is enabled.
func (f ServiceFlags) Any() bool {
	return f.Wash || f.OilChange || f.ChainLube || f.EngineTuneUp ||
		f.BreakCheck || f.FullbodyPolishing || f.GeneralInspection
}

// CustomizedServiceConfig is a user-defined service bundle. TotalPrice is
// computed by the backend and snapshotted at save time; the snapshot stays
// authoritative for any booking that references the config.
type CustomizedServiceConfig struct {
	ID              int64  `json:"id,omitempty"`
	BikeCompanyID   int64  `json:"bikeCompanyId"`
	BikeCompanyName string `json:"bikeCompanyName,omitempty"`
	BikeModelID     int64  `json:"bikeModelId"`
	BikeModelName   string `json:"bikeModelName,omitempty"`
	Cc              int    `json:"cc"`
	ServiceFlags
	TotalPrice int64 `json:"totalPrice"`
}
