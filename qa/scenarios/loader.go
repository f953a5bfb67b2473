// Package scenarios runs yaml-described settlement cases through the
// analysis pipeline. Every fixture file in this directory is one case.
package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/santralytics/santralytics/core/analysis"
	"github.com/santralytics/santralytics/core/model"
)

// hourLayout is the fixture timestamp format, read in the market zone.
const hourLayout = "2006-01-02 15:04"

type RangeDef struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type PlantDef struct {
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type,omitempty"`
	CapacityMW float64 `yaml:"capacity_mw,omitempty"`
}

// ToModel builds the plant, deriving the type from the name when the
// fixture does not set one.
func (p PlantDef) ToModel() model.Plant {
	typ := model.ParsePlantType(p.Type)
	if p.Type == "" {
		typ = model.PlantTypeFromName(p.Name)
	}
	return model.Plant{Name: p.Name, Type: typ, CapacityMW: p.CapacityMW}
}

// HourDef carries the source values of one hour. Absent keys leave a
// gap in the series.
type HourDef struct {
	Time     string   `yaml:"time"`
	PTF      *float64 `yaml:"ptf"`
	SMF      *float64 `yaml:"smf"`
	Forecast *float64 `yaml:"forecast"`
	Realized *float64 `yaml:"realized"`
}

// ExpectedHour checks derived hour fields: Values by field name, Nil
// for fields that must stay unset.
type ExpectedHour struct {
	Time   string             `yaml:"time"`
	Values map[string]float64 `yaml:"values,omitempty"`
	Nil    []string           `yaml:"nil,omitempty"`
}

// ExpectedMonth checks one aggregate. Month is "YYYY-MM", or "total"
// for the whole-range rollup.
type ExpectedMonth struct {
	Month  string             `yaml:"month"`
	Values map[string]float64 `yaml:"values,omitempty"`
	Nil    []string           `yaml:"nil,omitempty"`
}

type Expected struct {
	Error     string          `yaml:"error,omitempty"`
	GridHours int             `yaml:"grid_hours,omitempty"`
	Hours     []ExpectedHour  `yaml:"hours,omitempty"`
	Months    []ExpectedMonth `yaml:"months,omitempty"`
}

type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Range       RangeDef  `yaml:"range"`
	Plant       PlantDef  `yaml:"plant"`
	OtherPlant  *PlantDef `yaml:"other_plant,omitempty"`
	Hours       []HourDef `yaml:"hours,omitempty"`
	Expected    Expected  `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// SeriesSet assembles the four input series from the hour definitions.
func (s *Scenario) SeriesSet() (analysis.SeriesSet, error) {
	var set analysis.SeriesSet
	for _, h := range s.Hours {
		ts, err := time.ParseInLocation(hourLayout, h.Time, model.MarketZone)
		if err != nil {
			return set, fmt.Errorf("hour %q: %w", h.Time, err)
		}
		appendPoint(&set.PTF, ts, h.PTF)
		appendPoint(&set.SMF, ts, h.SMF)
		appendPoint(&set.Forecast, ts, h.Forecast)
		appendPoint(&set.Realized, ts, h.Realized)
	}
	return set, nil
}

func appendPoint(s *model.HourlySeries, ts time.Time, v *float64) {
	if v != nil {
		*s = append(*s, model.HourlyPoint{Time: ts, Value: *v})
	}
}
