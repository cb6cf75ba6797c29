package knmi

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"weervandaag/src/utils/mockclient"
	"weervandaag/src/utils/restclient"
)

func init() {
	restclient.Client = &mockclient.MockClient{}
}

func TestListFiles(t *testing.T) {

	// Test Valid
	mockclient.GetDoFunc = func(req *http.Request) (*http.Response, error) {
		assert.Contains(t, req.URL.String(), "/datasets/10-minute-in-situ-meteorological-observations/versions/1.0/files")
		assert.Contains(t, req.URL.RawQuery, "maxKeys=1")
		assert.Contains(t, req.URL.RawQuery, "sorting=desc")
		assert.EqualValues(t, anonymous_api_key, req.Header.Get("Authorization"))
		body := `{"files":[{"filename":"KMDS__OPER_P___10M_OBS_L2_202608290800.nc"}]}`
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		}, nil
	}
	files, err := listFiles("10-minute-in-situ-meteorological-observations", 1)
	assert.Nil(t, err)
	assert.EqualValues(t, []string{"KMDS__OPER_P___10M_OBS_L2_202608290800.nc"}, files)

	// Test Invalid status
	mockclient.GetDoFunc = func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 403,
			Body:       io.NopCloser(bytes.NewReader([]byte("{}"))),
		}, nil
	}
	files, err = listFiles("10-minute-in-situ-meteorological-observations", 1)
	assert.NotNil(t, err)
	assert.Nil(t, files)
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)

	// Test Invalid body
	mockclient.GetDoFunc = func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(bytes.NewReader([]byte("not json"))),
		}, nil
	}
	_, err = listFiles("10-minute-in-situ-meteorological-observations", 1)
	assert.NotNil(t, err)
}

func TestFindFile(t *testing.T) {
	files := []string{
		"uwcw_extra_lv_ha43_nl_2km_air-temperature-hagl_202608290600.nc",
		"uwcw_extra_lv_ha43_nl_2km_rainfall-accumulation-01h-hagl_202608290600.nc",
	}
	assert.EqualValues(t, files[0], findFile(files, "air-temperature-hagl"))
	assert.EqualValues(t, files[1], findFile(files, "rainfall-accumulation-01h-hagl"))
	assert.EqualValues(t, "", findFile(files, "wind-speed-hagl"))
}

func TestApiKey(t *testing.T) {
	t.Setenv(env_api_key_name, "")
	assert.EqualValues(t, anonymous_api_key, apiKey())
	t.Setenv(env_api_key_name, "my-key")
	assert.EqualValues(t, "my-key", apiKey())
}

func TestConfigDefaults(t *testing.T) {
	var k Knmi
	assert.EqualValues(t, default_station, k.station())
	assert.EqualValues(t, default_observation_dataset, k.observationDataset())
	assert.EqualValues(t, default_model_dataset, k.modelDataset())
	lat, lon := k.location()
	assert.EqualValues(t, default_latitude, lat)
	assert.EqualValues(t, default_longitude, lon)

	k = Knmi{Station: "0-20000-0-06240", Latitude: 52.3, Longitude: 4.77}
	assert.EqualValues(t, "0-20000-0-06240", k.station())
	lat, lon = k.location()
	assert.EqualValues(t, 52.3, lat)
	assert.EqualValues(t, 4.77, lon)
}

func TestConditionFromCode(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{0, "helder"},
		{2, "bewolkt"},
		{3, "toenemende bewolking"},
		{45, "mist"},
		{51, "lichte motregen"},
		{61, "regen"},
		{63, "matige regen"},
		{65, "zware regen"},
		{71, "sneeuw"},
		{80, "lichte regenbuien"},
		{95, "onweer met regen"},
		{-1, "bewolkt"},
		{100, "bewolkt"},
	}
	for _, c := range cases {
		assert.EqualValues(t, c.want, ConditionFromCode(c.code), "code %d", c.code)
	}
}

func TestConditionFromTemperature(t *testing.T) {
	assert.EqualValues(t, "koud en bewolkt", conditionFromTemperature(2))
	assert.EqualValues(t, "gedeeltelijk bewolkt", conditionFromTemperature(14))
	assert.EqualValues(t, "zonnig", conditionFromTemperature(25))
}

func TestNearestIndex(t *testing.T) {
	coords := []float64{50.0, 51.0, 52.0, 53.0}
	assert.EqualValues(t, 2, nearestIndex(coords, 52.1))
	assert.EqualValues(t, 0, nearestIndex(coords, 40.0))
	assert.EqualValues(t, 3, nearestIndex(coords, 60.0))
}

func TestModelGridDayParts(t *testing.T) {
	grid := &modelGrid{temps: []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 17, 16, 15, 14}}
	parts := grid.dayParts()
	assert.Len(t, parts, 3)
	assert.EqualValues(t, "ochtend", parts[0].Label)
	assert.EqualValues(t, 10.0, parts[0].TempC)
	assert.EqualValues(t, "middag", parts[1].Label)
	assert.EqualValues(t, 16.0, parts[1].TempC)
	assert.EqualValues(t, "avond", parts[2].Label)
	assert.EqualValues(t, 14.0, parts[2].TempC)

	// Shorter series clamps to the last lead time.
	short := &modelGrid{temps: []float64{10, 11, 12}}
	parts = short.dayParts()
	assert.EqualValues(t, 12.0, parts[1].TempC)
	assert.EqualValues(t, 12.0, parts[2].TempC)
}
