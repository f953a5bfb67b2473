package config

import (
	"fmt"
	"strings"

	"github.com/santralytics/santralytics/core/model"
)

// ReportConfig selects the plants, the date range and the outputs of a
// report run. The CLI flags override any field set here.
type ReportConfig struct {
	Plant1    string `json:"plant1"`
	Plant2    string `json:"plant2"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, inclusive
	OutputDir string `json:"output_dir"`

	// Optional outputs next to the workbook.
	CSV  bool `json:"csv"`
	JSON bool `json:"json"`
	PDF  bool `json:"pdf"`
	HTML bool `json:"html"`
}

// SetDefaults applies sane defaults.
func (c *ReportConfig) SetDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// Validate checks the merged report request.
func (c ReportConfig) Validate() error {
	if c.Plant1 == "" || c.Plant2 == "" {
		return fmt.Errorf("two plant names are required")
	}
	if strings.EqualFold(strings.TrimSpace(c.Plant1), strings.TrimSpace(c.Plant2)) {
		return fmt.Errorf("the two plants must differ")
	}
	if c.StartDate == "" || c.EndDate == "" {
		return fmt.Errorf("start and end dates are required")
	}
	return nil
}

// Range parses the inclusive report range.
func (c ReportConfig) Range() (model.DateRange, error) {
	return model.NewDateRange(c.StartDate, c.EndDate)
}
