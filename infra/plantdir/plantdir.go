// Package plantdir loads the power plant directory that maps plant
// names to transparency platform identifiers.
package plantdir

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santralytics/santralytics/core/model"
)

// rawPlant is one directory entry. Field keys match case-insensitively,
// which absorbs the powerPlantName/powerplantName spellings found in
// exported lists. Type and capacity are local extensions; lists without
// them still load.
type rawPlant struct {
	PowerPlantName string  `json:"powerPlantName"`
	OrganizationID int64   `json:"organizationId"`
	PowerPlantID   int64   `json:"powerPlantId"`
	UEVCBID        int64   `json:"uevcbId"`
	Type           string  `json:"type"`
	CapacityMW     float64 `json:"capacity_mw"`
}

// Directory resolves plant names case-insensitively.
type Directory struct {
	source string
	plants []model.Plant
	byName map[string]model.Plant
}

// Load reads the first existing candidate path.
func Load(conf Conf) (*Directory, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	for _, path := range conf.Paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return loadFile(path)
	}
	return nil, fmt.Errorf("no plant list found in %v", conf.Paths)
}

func loadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plant list %s: %w", path, err)
	}
	var raw []rawPlant
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse plant list %s: %w", path, err)
	}

	d := &Directory{
		source: path,
		plants: make([]model.Plant, 0, len(raw)),
		byName: make(map[string]model.Plant, len(raw)),
	}
	for i, r := range raw {
		p, err := toPlant(r)
		if err != nil {
			return nil, fmt.Errorf("plant list %s entry %d: %w", path, i, err)
		}
		d.plants = append(d.plants, p)
		d.byName[normalize(p.Name)] = p
	}
	sort.Slice(d.plants, func(i, j int) bool { return d.plants[i].Name < d.plants[j].Name })
	return d, nil
}

func toPlant(r rawPlant) (model.Plant, error) {
	name := strings.TrimSpace(r.PowerPlantName)
	if name == "" {
		return model.Plant{}, fmt.Errorf("missing plant name")
	}
	if r.OrganizationID == 0 || r.PowerPlantID == 0 || r.UEVCBID == 0 {
		return model.Plant{}, fmt.Errorf("plant %q: missing platform ids", name)
	}
	t := model.PlantTypeFromName(name)
	if r.Type != "" {
		t = model.ParsePlantType(r.Type)
	}
	p := model.Plant{
		Name:           name,
		PlantID:        r.PowerPlantID,
		OrganizationID: r.OrganizationID,
		UEVCBID:        r.UEVCBID,
		Type:           t,
		CapacityMW:     r.CapacityMW,
	}
	if err := p.Validate(); err != nil {
		return model.Plant{}, err
	}
	return p, nil
}

// Source reports the path the directory was loaded from.
func (d *Directory) Source() string { return d.source }

// Plants returns all entries sorted by name.
func (d *Directory) Plants() []model.Plant {
	out := make([]model.Plant, len(d.plants))
	copy(out, d.plants)
	return out
}

// Lookup resolves a plant by name, ignoring case and surrounding
// whitespace.
func (d *Directory) Lookup(name string) (model.Plant, error) {
	p, ok := d.byName[normalize(name)]
	if !ok {
		return model.Plant{}, fmt.Errorf("plant %q not found in %s", name, d.source)
	}
	return p, nil
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
