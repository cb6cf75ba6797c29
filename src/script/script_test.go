package script

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"weervandaag/src/providers/knmi"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestBuild(t *testing.T) {
	weather := &knmi.Weather{TempC: 18.4, Condition: "gedeeltelijk bewolkt"}
	now := time.Date(2026, time.August, 29, 8, 0, 0, 0, time.UTC)

	text := Build("De Bilt", weather, nil, "lekker warm", now, testRng())
	assert.Contains(t, text, "De Bilt")
	assert.Contains(t, text, "18")
	assert.Contains(t, text, "gedeeltelijk bewolkt")
	assert.Contains(t, text, "lekker warm")
	assert.Contains(t, text, "zaterdag 29 augustus 2026")
	assert.NotContains(t, text, "%")
	assert.NotContains(t, text, "  ")
}

func TestBuildWithForecast(t *testing.T) {
	weather := &knmi.Weather{TempC: 12, Condition: "bewolkt"}
	forecast := &knmi.Forecast{TempC: 9, Condition: "lichte regen"}
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

	text := Build("Utrecht", weather, forecast, "aangenaam", now, testRng())
	assert.Contains(t, text, "maandag 5 januari 2026")
	assert.Contains(t, text, "lichte regen")
	assert.Contains(t, text, "9")
}

func TestBuildVaries(t *testing.T) {
	weather := &knmi.Weather{TempC: 18, Condition: "zonnig"}
	now := time.Now()

	seen := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		seen[Build("De Bilt", weather, nil, "lekker warm", now, rand.New(rand.NewSource(seed)))] = true
	}
	assert.Greater(t, len(seen), 1, "different seeds should word the narration differently")
}

func TestJacketAdvice(t *testing.T) {

	// Freezing weather always means a thick jacket.
	advice := JacketAdvice(&knmi.Weather{TempC: 1, Condition: "sneeuw"}, nil)
	assert.Contains(t, advice, "dikke jas")

	// Rain means a rain jacket, regardless of temperature.
	advice = JacketAdvice(&knmi.Weather{TempC: 16, Condition: "regen"}, nil)
	assert.Contains(t, advice, "regenjas")

	// Mild weather, light jacket.
	advice = JacketAdvice(&knmi.Weather{TempC: 16, Condition: "bewolkt"}, nil)
	assert.Contains(t, advice, "lichte jas")

	// Warm weather, no jacket.
	advice = JacketAdvice(&knmi.Weather{TempC: 24, Condition: "zonnig"}, nil)
	assert.Contains(t, advice, "niet nodig")

	// The forecast wins from the current observation.
	advice = JacketAdvice(
		&knmi.Weather{TempC: 24, Condition: "zonnig"},
		&knmi.Forecast{TempC: 10, Condition: "regen"},
	)
	assert.Contains(t, advice, "regenjas")

	// A worsening forecast adds the warning.
	advice = JacketAdvice(
		&knmi.Weather{TempC: 10, Condition: "bewolkt"},
		&knmi.Forecast{TempC: 4, Condition: "bewolkt"},
	)
	assert.Contains(t, advice, "dikke jas")
	assert.Contains(t, advice, "kouder")
}

func TestHasRain(t *testing.T) {
	assert.True(t, hasRain("lichte regen"))
	assert.True(t, hasRain("regenbuien"))
	assert.True(t, hasRain("hagelbuien"))
	assert.False(t, hasRain("bewolkt"))
	assert.False(t, hasRain("zonnig"))
}
