package server

import "github.com/maxbolgarin/gitpulse/internal/model"

// Descriptor is the static integration metadata served at /integration.json.
type Descriptor struct {
	Data DescriptorData `json:"data"`
}

type DescriptorData struct {
	Date                DescriptorDate  `json:"date"`
	Descriptions        Descriptions    `json:"descriptions"`
	IsActive            bool            `json:"is_active"`
	IntegrationType     string          `json:"integration_type"`
	IntegrationCategory string          `json:"integration_category"`
	KeyFeatures         []string        `json:"key_features"`
	Author              string          `json:"author"`
	Settings            []model.Setting `json:"settings"`
	TargetURL           string          `json:"target_url"`
	TickURL             string          `json:"tick_url"`
}

type DescriptorDate struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type Descriptions struct {
	AppName         string `json:"app_name"`
	AppDescription  string `json:"app_description"`
	AppURL          string `json:"app_url"`
	AppLogo         string `json:"app_logo"`
	BackgroundColor string `json:"background_color"`
}

func buildDescriptor(baseURL string) Descriptor {
	return Descriptor{
		Data: DescriptorData{
			Date: DescriptorDate{
				CreatedAt: "2025-02-22",
				UpdatedAt: "2025-02-22",
			},
			Descriptions: Descriptions{
				AppName:         "GitPulse",
				AppDescription:  "GitPulse periodically collects recent commits and static-analysis results for a repository and posts a combined report.",
				AppURL:          baseURL,
				AppLogo:         baseURL + "/logo.png",
				BackgroundColor: "#f0f0f0",
			},
			IsActive:            true,
			IntegrationType:     "interval",
			IntegrationCategory: "Monitoring & Logging",
			KeyFeatures: []string{
				"Periodic analysis of recent code commits",
				"Code-quality metrics from a remote analysis service",
				"Local linter runs against a repository checkout",
				"Combined human-readable reports delivered to a callback URL",
			},
			Author: "maxbolgarin",
			Settings: []model.Setting{
				{Label: "interval", Type: "text", Required: true, Default: "* * * * *"},
				{Label: "custom_setting", Type: "text", Required: false, Default: ""},
			},
			TickURL: baseURL + tickEndpoint,
		},
	}
}
