package plantdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santralytics/santralytics/core/model"
)

func writeList(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pp_list.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

/*
Cases:
  - the first existing candidate path wins
  - both key spellings load (powerPlantName / powerplantName)
  - plant type comes from the name unless the entry overrides it
  - entries come back sorted by name
*/
func TestLoad(t *testing.T) {
	path := writeList(t, `[
		{"powerPlantName":"Soma RES","organizationId":11,"powerPlantId":21,"uevcbId":31,"capacity_mw":150},
		{"powerplantName":"Kayma HES","organizationId":12,"powerplantId":22,"uevcbId":32},
		{"powerPlantName":"Bandirma Santrali","organizationId":13,"powerPlantId":23,"uevcbId":33,"type":"RES"}
	]`)

	d, err := Load(Conf{Paths: []string{"/nonexistent/pp_list.json", path}})
	require.NoError(t, err)
	assert.Equal(t, path, d.Source())

	plants := d.Plants()
	require.Len(t, plants, 3)
	assert.Equal(t, "Bandirma Santrali", plants[0].Name)
	assert.Equal(t, "Kayma HES", plants[1].Name)
	assert.Equal(t, "Soma RES", plants[2].Name)

	soma, err := d.Lookup("Soma RES")
	require.NoError(t, err)
	assert.Equal(t, int64(21), soma.PlantID)
	assert.Equal(t, int64(11), soma.OrganizationID)
	assert.Equal(t, int64(31), soma.UEVCBID)
	assert.Equal(t, model.PlantWind, soma.Type)
	assert.Equal(t, 150.0, soma.CapacityMW)

	kayma, err := d.Lookup("Kayma HES")
	require.NoError(t, err)
	assert.Equal(t, int64(22), kayma.PlantID)
	assert.Equal(t, model.PlantHydro, kayma.Type)
	assert.Zero(t, kayma.CapacityMW)

	bandirma, err := d.Lookup("Bandirma Santrali")
	require.NoError(t, err)
	assert.Equal(t, model.PlantWind, bandirma.Type)
}

/*
Cases:
  - lookup ignores case and surrounding whitespace
  - an unknown name errors with the source path
*/
func TestLookupNormalization(t *testing.T) {
	path := writeList(t, `[{"powerPlantName":"Soma RES","organizationId":1,"powerPlantId":2,"uevcbId":3}]`)
	d, err := Load(Conf{Paths: []string{path}})
	require.NoError(t, err)

	_, err = d.Lookup("  soma res ")
	assert.NoError(t, err)

	_, err = d.Lookup("Akarsu HES")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Akarsu HES")
	assert.Contains(t, err.Error(), path)
}

/*
Cases:
  - no candidate exists
  - malformed JSON
  - entry without platform ids
  - empty candidate list
*/
func TestLoadErrors(t *testing.T) {
	_, err := Load(Conf{Paths: []string{"/nope/a.json", "/nope/b.json"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plant list found")

	bad := writeList(t, `{"not":"a list"}`)
	_, err = Load(Conf{Paths: []string{bad}})
	require.Error(t, err)

	missing := writeList(t, `[{"powerPlantName":"Soma RES","organizationId":1}]`)
	_, err = Load(Conf{Paths: []string{missing}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing platform ids")

	_, err = Load(Conf{})
	require.Error(t, err)
}
