package model

// TickEvent represents a periodic trigger delivered by an external scheduler.
// Settings are validated for shape only; the pipeline does not consume their
// values (the monitored repository is fixed by configuration).
type TickEvent struct {
	ChannelID string    `json:"channel_id"`
	ReturnURL string    `json:"return_url"`
	Settings  []Setting `json:"settings"`
}

// Setting is one entry of the integration settings schema.
type Setting struct {
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  string `json:"default"`
}
