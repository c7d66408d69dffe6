package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povertymap/internal/config"
	"povertymap/internal/dataset"
	"povertymap/internal/figure"
	"povertymap/internal/geo"
)

const aian = "American Indian and Alaska Native alone"

const boundariesJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"ZCTA5CE10":"60601"},"geometry":{"type":"Polygon","coordinates":[[[-87.63,41.88],[-87.61,41.88],[-87.61,41.89],[-87.63,41.88]]]}},
 {"type":"Feature","properties":{"ZCTA5CE10":"60602"},"geometry":{"type":"Polygon","coordinates":[[[-87.64,41.87],[-87.62,41.87],[-87.62,41.885],[-87.64,41.87]]]}},
 {"type":"Feature","properties":{"ZCTA5CE10":"60603"},"geometry":{"type":"Polygon","coordinates":[[[-87.65,41.86],[-87.63,41.86],[-87.63,41.87],[-87.65,41.86]]]}}
]}`

const povertyCSV = `Zipcode,RACE AND HISPANIC OR LATINO ORIGIN,Total,Below poverty level,Percent below poverty level,Stats
60601,American Indian and Alaska Native alone,12000,1500,12.5,Estimate
60602,American Indian and Alaska Native alone,9999,2000,20.0,Estimate
60603,American Indian and Alaska Native alone,10000,1160,11.6,Estimate
60609,American Indian and Alaska Native alone,50000,9000,18.0,Estimate
60601,White alone,30000,3000,10.0,Estimate
60602,White alone,15000,4500,30.0,Estimate
`

const ageCSV = `Zipcode,Age group,Estimate
60601,Under 18,300
60601,18 to 64,900
60602,Under 18,200
`

const genderCSV = `Zipcode,Gender,Estimate
60601,Male,600
60601,Female,600
60602,Female,200
`

const raceCSV = `Zipcode,Race group,Estimate
60601,White,800
60601,Black,400
60603,Asian,50
`

func testContext(t *testing.T) *Context {
	t.Helper()
	b, err := geo.Decode([]byte(boundariesJSON), "ZCTA5CE10")
	require.NoError(t, err)
	p, err := dataset.ReadPoverty(strings.NewReader(povertyCSV))
	require.NoError(t, err)
	age, err := dataset.ReadDemographic(strings.NewReader(ageCSV), "age", dataset.ColAgeGroup)
	require.NoError(t, err)
	gender, err := dataset.ReadDemographic(strings.NewReader(genderCSV), "gender", dataset.ColGender)
	require.NoError(t, err)
	race, err := dataset.ReadDemographic(strings.NewReader(raceCSV), "race", dataset.ColRaceBreak)
	require.NoError(t, err)
	c, err := NewContext(b, p, age, gender, race, aian)
	require.NoError(t, err)
	return c
}

func submit(race string, pop, pct *float64) Submit {
	return Submit{Criteria: dataset.Criteria{RaceGroup: race, PopulationThreshold: pop, PovertyPctThreshold: pct}}
}

func TestInitial(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	v := ctl.Initial()
	assert.Equal(t, StateIdle, v.StateName)
	assert.Equal(t, figure.StatePlaceholder, v.Choropleth.State)
	assert.Equal(t, figure.StatePlaceholder, v.Age.State)
	assert.Equal(t, figure.StatePlaceholder, v.Gender.State)
	assert.Equal(t, figure.StatePlaceholder, v.Race.State)
	assert.Empty(t, v.Description)
}

func TestNewContext(t *testing.T) {
	c := testContext(t)
	assert.Equal(t, dataset.Domain{Min: 10, Max: 30}, c.Domain)
	assert.Equal(t, aian, c.DefaultRaceGroup)

	c2, err := NewContext(c.Boundaries, c.Poverty, c.Age, c.Gender, c.Race, "Nobody")
	require.NoError(t, err)
	assert.Equal(t, aian, c2.DefaultRaceGroup)

	_, err = NewContext(nil, c.Poverty, c.Age, c.Gender, c.Race, aian)
	require.Error(t, err)
}

func TestDispatch_SubmitScenario(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	s, u, err := ctl.Dispatch(context.Background(), State{}, submit(aian, dataset.Float(10000), dataset.Float(11.6)))
	require.NoError(t, err)
	assert.Equal(t, StateFiltered, s.Name())
	require.NotNil(t, u.Choropleth)
	require.NotNil(t, u.Description)
	assert.Nil(t, u.Age)
	assert.Nil(t, u.Gender)
	assert.Nil(t, u.Race)
	assert.Equal(t, figure.StateResult, u.Choropleth.State)
	// 60609 matches the criteria but has no polygon
	assert.Equal(t, []string{"60601", "60603"}, u.Choropleth.Data[0].Locations)
	assert.Equal(t, "Showing zipcodes where the population for American Indian and Alaska Native alone is greater than 10000, while more than 11.6% are below poverty level:", *u.Description)
}

func TestDispatch_ZeroMatchIsNotPlaceholder(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	s, u, err := ctl.Dispatch(context.Background(), State{}, submit(aian, dataset.Float(1e9), dataset.Float(0)))
	require.NoError(t, err)
	assert.Equal(t, StateFiltered, s.Name())
	assert.Equal(t, figure.StateResult, u.Choropleth.State)
	assert.Empty(t, u.Choropleth.Data[0].Locations)
	assert.Contains(t, *u.Description, "greater than 1000000000")
}

func TestDispatch_UnsetThresholds(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	s, u, err := ctl.Dispatch(context.Background(), State{}, submit(aian, nil, nil))
	require.NoError(t, err)
	assert.True(t, s.Submitted)
	assert.Empty(t, u.Choropleth.Data[0].Locations)
	assert.Contains(t, *u.Description, "greater than unset")
}

func TestDispatch_UnknownRaceGroup(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	s, u, err := ctl.Dispatch(context.Background(), State{}, submit("Martian", dataset.Float(0), dataset.Float(0)))
	require.ErrorIs(t, err, dataset.ErrUnknownRaceGroup)
	assert.Equal(t, StateIdle, s.Name())
	assert.Nil(t, u.Choropleth)
}

func TestDispatch_SelectScenario(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	s, _, err := ctl.Dispatch(context.Background(), State{}, submit(aian, dataset.Float(0), dataset.Float(0)))
	require.NoError(t, err)

	s, u, err := ctl.Dispatch(context.Background(), s, Select{Zip: "60601"})
	require.NoError(t, err)
	assert.Equal(t, StateFilteredDetail, s.Name())
	assert.Equal(t, "60601", s.Selected)
	assert.Nil(t, u.Choropleth)
	assert.Nil(t, u.Description)

	assert.Equal(t, "Age (60601)", u.Age.Layout.Title.Text)
	assert.Equal(t, []float64{300, 900}, u.Age.Data[0].Values)
	assert.Equal(t, []float64{600, 600}, u.Gender.Data[0].Values)
	assert.Equal(t, []string{"White", "Black"}, u.Race.Data[0].Labels)
}

func TestDispatch_ResubmitKeepsDetail(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	s := State{Submitted: true, Selected: "60601"}
	s, u, err := ctl.Dispatch(context.Background(), s, submit("White alone", dataset.Float(0), dataset.Float(0)))
	require.NoError(t, err)
	assert.Equal(t, StateFilteredDetail, s.Name())
	assert.Equal(t, "60601", s.Selected)
	assert.NotNil(t, u.Choropleth)
	assert.Nil(t, u.Age)
}

func TestDispatch_SelectEdgeCases(t *testing.T) {
	ctl := NewController(testContext(t), nil)
	_, _, err := ctl.Dispatch(context.Background(), State{}, Select{Zip: "  "})
	require.ErrorIs(t, err, ErrEmptyZip)

	s, u, err := ctl.Dispatch(context.Background(), State{}, Select{Zip: "60603"})
	require.NoError(t, err)
	assert.Equal(t, StateDetail, s.Name())
	assert.Empty(t, u.Age.Data[0].Values)
	assert.Equal(t, []float64{50}, u.Race.Data[0].Values)
}

type memCache struct {
	mu   sync.Mutex
	m    map[string]*figure.Figure
	gets int
}

func (c *memCache) Get(_ context.Context, k string) (*figure.Figure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	f, ok := c.m[k]
	return f, ok
}

func (c *memCache) Set(_ context.Context, k string, f *figure.Figure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = f
}

func TestDispatch_UsesCache(t *testing.T) {
	cache := &memCache{m: map[string]*figure.Figure{}}
	ctl := NewController(testContext(t), cache)
	ev := submit(aian, dataset.Float(10000), dataset.Float(11.6))

	_, u1, err := ctl.Dispatch(context.Background(), State{}, ev)
	require.NoError(t, err)
	require.Contains(t, cache.m, CacheKey(ev.Criteria))

	_, u2, err := ctl.Dispatch(context.Background(), State{}, ev)
	require.NoError(t, err)
	assert.Same(t, cache.m[CacheKey(ev.Criteria)], u2.Choropleth)
	assert.Equal(t, u1.Choropleth.Data[0].Locations, u2.Choropleth.Data[0].Locations)
	assert.Equal(t, 2, cache.gets)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "dash:choropleth:White alone:10000:11.6", CacheKey(dataset.Criteria{RaceGroup: "White alone", PopulationThreshold: dataset.Float(10000), PovertyPctThreshold: dataset.Float(11.6)}))
	assert.Equal(t, "dash:choropleth:White alone:unset:unset", CacheKey(dataset.Criteria{RaceGroup: "White alone"}))
}

func TestUnmatched(t *testing.T) {
	un := testContext(t).Unmatched()
	assert.Equal(t, []string{"60609"}, un["poverty"])
	assert.Empty(t, un["age"])
	assert.Empty(t, un["race"])
}

func TestLoad_FromFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("il.json", boundariesJSON)
	write("poverty.csv", povertyCSV)
	write("age.csv", ageCSV)
	write("gender.csv", genderCSV)
	write("race.csv", raceCSV)

	cfg := config.Config{
		DataDir:           dir,
		PovertyCSV:        "poverty.csv",
		AgeCSV:            "age.csv",
		GenderCSV:         "gender.csv",
		RaceCSV:           "race.csv",
		GeoJSONPath:       filepath.Join(dir, "il.json"),
		GeoJSONIDProperty: "ZCTA5CE10",
		GeoJSONTimeout:    5 * time.Second,
		DefaultRaceGroup:  aian,
	}
	c, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Boundaries.Len())
	assert.Len(t, c.Poverty.Records, 6)

	cfg.RaceCSV = "missing.csv"
	_, err = Load(context.Background(), cfg)
	require.Error(t, err)
}
