package epias

import "fmt"

// DefaultBaseURL is the EPIAS transparency platform.
const DefaultBaseURL = "https://seffaflik.epias.com.tr"

// Conf configures the transparency platform client. The delays pace
// consecutive chunk requests; the platform throttles aggressive callers.
type Conf struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	PriceDelayMS   int    `json:"price_delay_ms"`
	PlantDelayMS   int    `json:"plant_delay_ms"`
}

// SetDefaults applies sane defaults.
func (c *Conf) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
	if c.PriceDelayMS <= 0 {
		c.PriceDelayMS = 100
	}
	if c.PlantDelayMS <= 0 {
		c.PlantDelayMS = 200
	}
}

// Validate checks the endpoint configuration.
func (c Conf) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	return nil
}
