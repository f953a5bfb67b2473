package model

import (
	"fmt"
	"strings"
)

// PlantType classifies a generation plant by technology.
type PlantType int

const (
	PlantOther PlantType = iota
	PlantHydro
	PlantWind
)

// String returns the market code used in plant names.
func (t PlantType) String() string {
	switch t {
	case PlantHydro:
		return "HES"
	case PlantWind:
		return "RES"
	default:
		return "OTHER"
	}
}

// ParsePlantType maps a market code to a PlantType. Unknown codes map to PlantOther.
func ParsePlantType(s string) PlantType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HES":
		return PlantHydro
	case "RES":
		return PlantWind
	default:
		return PlantOther
	}
}

// PlantTypeFromName derives the technology from the plant name. Market
// convention embeds the code in the registered name ("... HES", "... RES").
func PlantTypeFromName(name string) PlantType {
	u := strings.ToUpper(name)
	switch {
	case strings.Contains(u, "HES"):
		return PlantHydro
	case strings.Contains(u, "RES"):
		return PlantWind
	default:
		return PlantOther
	}
}

// Plant identifies a generation plant known to the transparency platform.
type Plant struct {
	Name           string
	PlantID        int64 // powerPlantId, used by realized generation queries
	OrganizationID int64 // organizationId, used by production program queries
	UEVCBID        int64 // uevcbId, used by production program queries
	Type           PlantType
	CapacityMW     float64 // installed capacity in MW; 0 disables capacity KPIs
}

// Validate checks that the plant record is usable for reporting.
func (p Plant) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plant name is required")
	}
	if p.CapacityMW < 0 {
		return fmt.Errorf("plant %s: capacity must not be negative", p.Name)
	}
	return nil
}
