package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPoverty(t *testing.T) *PovertyTable {
	t.Helper()
	tbl, err := ReadPoverty(strings.NewReader(povertyCSV))
	require.NoError(t, err)
	return tbl
}

func TestNormalizeZip(t *testing.T) {
	cases := map[string]string{
		"60601":    "60601",
		" 60601 ":  "60601",
		"60601.0":  "60601",
		"601":      "00601",
		"Illinois": "Illinois",
		"60601.5":  "60601.5",
		"":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeZip(in), in)
	}
}

func TestReadPoverty_DropsAggregateAndNonEstimate(t *testing.T) {
	tbl := mustPoverty(t)
	require.Len(t, tbl.Records, 8)
	for _, r := range tbl.Records {
		assert.NotEqual(t, "Illinois", r.Zipcode)
	}
	assert.Equal(t, []string{
		"American Indian and Alaska Native alone",
		"White alone",
		"Asian alone",
	}, tbl.RaceGroups())
	assert.Equal(t, "61820", tbl.Records[7].Zipcode)
	assert.True(t, math.IsNaN(tbl.Records[6].PercentBelowPoverty))
}

func TestReadPoverty_MissingColumn(t *testing.T) {
	_, err := ReadPoverty(strings.NewReader("Zipcode,Total\n60601,1\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadPoverty_BadTotal(t *testing.T) {
	src := "Zipcode,RACE AND HISPANIC OR LATINO ORIGIN,Total,Percent below poverty level,Stats\n60601,White alone,n/a,1,Estimate\n"
	_, err := ReadPoverty(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadPoverty_StripsBOM(t *testing.T) {
	tbl, err := ReadPoverty(strings.NewReader("\ufeff" + povertyCSV))
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 8)
}

func TestReadDemographic(t *testing.T) {
	tbl, err := ReadDemographic(strings.NewReader(ageCSV), "age", ColAgeGroup)
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 6)
	assert.Len(t, tbl.ForZip("60601"), 4)
	assert.Len(t, tbl.ForZip("60601.0"), 4)
	assert.Nil(t, tbl.ForZip("99999"))
	assert.ElementsMatch(t, []string{"60601", "60602"}, tbl.Zipcodes())
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	pp := filepath.Join(dir, "poverty.csv")
	ap := filepath.Join(dir, "age.csv")
	require.NoError(t, os.WriteFile(pp, []byte(povertyCSV), 0o644))
	require.NoError(t, os.WriteFile(ap, []byte(ageCSV), 0o644))

	p, err := LoadPoverty(pp)
	require.NoError(t, err)
	assert.Len(t, p.Records, 8)

	a, err := LoadDemographic(ap, "age", ColAgeGroup)
	require.NoError(t, err)
	assert.Equal(t, "age", a.Name)

	_, err = LoadPoverty(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}
