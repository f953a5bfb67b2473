package model

import "testing"

func TestPlantTypeFromName(t *testing.T) {
	cases := []struct {
		name string
		want PlantType
	}{
		{"KARACAOREN 1 HES", PlantHydro},
		{"BALABANLI RES", PlantWind},
		{"soma res", PlantWind},
		{"ATATURK DGKCS", PlantOther},
	}
	for _, c := range cases {
		if got := PlantTypeFromName(c.name); got != c.want {
			t.Errorf("%s: expected %v got %v", c.name, c.want, got)
		}
	}
}

func TestParsePlantType(t *testing.T) {
	if ParsePlantType(" hes ") != PlantHydro {
		t.Fatalf("expected HES to parse as hydro")
	}
	if ParsePlantType("RES") != PlantWind {
		t.Fatalf("expected RES to parse as wind")
	}
	if ParsePlantType("thermal") != PlantOther {
		t.Fatalf("expected unknown code to parse as other")
	}
}

func TestPlantValidate(t *testing.T) {
	if err := (Plant{Name: "X HES", CapacityMW: 50}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Plant{}).Validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := (Plant{Name: "X", CapacityMW: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative capacity")
	}
}
