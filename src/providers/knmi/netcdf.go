package knmi

import (
	"fmt"
	"math"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

type observation struct {
	tempC  float64
	wwCode int
	hasWW  bool
}

func readObservation(path string, station string) (*observation, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	stationIdx := stationIndex(nc, station)

	tempVar, ok := findVariable(nc, "ta", "t", "temperature", "temp", "t_2m", "t2m")
	if !ok {
		return nil, fmt.Errorf("temperature variable not found, available: %s", strings.Join(nc.ListVariables(), ", "))
	}
	tempC, ok := lastAt(tempVar.Values, stationIdx)
	if !ok {
		return nil, fmt.Errorf("temperature variable has an unsupported shape")
	}

	obs := observation{tempC: tempC}
	if wwVar, found := findVariable(nc, "ww", "present_weather", "weather_code", "wmo_ww"); found {
		if code, codeOk := lastAt(wwVar.Values, stationIdx); codeOk {
			obs.wwCode = int(code)
			obs.hasWW = true
		}
	}
	return &obs, nil
}

type modelGrid struct {
	latIdx int
	lonIdx int
	temps  []float64
}

// at returns the temperature at the given lead hour, clamped to the series.
func (g *modelGrid) at(hour int) float64 {
	if len(g.temps) == 0 {
		return 0
	}
	if hour >= len(g.temps) {
		hour = len(g.temps) - 1
	}
	return g.temps[hour]
}

func (g *modelGrid) dayParts() []DayPart {
	return []DayPart{
		{Label: "ochtend", TempC: g.at(0)},
		{Label: "middag", TempC: g.at(6)},
		{Label: "avond", TempC: g.at(12)},
	}
}

func readModelTemperature(path string, lat float64, lon float64) (*modelGrid, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	latVar, ok := findVariable(nc, "latitude", "lat")
	if !ok {
		return nil, fmt.Errorf("latitude variable not found")
	}
	lonVar, ok := findVariable(nc, "longitude", "lon")
	if !ok {
		return nil, fmt.Errorf("longitude variable not found")
	}
	lats, ok := asFloats(latVar.Values)
	if !ok {
		return nil, fmt.Errorf("latitude variable has an unsupported shape")
	}
	lons, ok := asFloats(lonVar.Values)
	if !ok {
		return nil, fmt.Errorf("longitude variable has an unsupported shape")
	}

	grid := modelGrid{
		latIdx: nearestIndex(lats, lat),
		lonIdx: nearestIndex(lons, lon),
	}

	tempVar, ok := findVariable(nc, "air-temperature-hagl")
	if !ok {
		return nil, fmt.Errorf("air-temperature-hagl variable not found")
	}
	temps, ok := gridSeries(tempVar.Values, grid.latIdx, grid.lonIdx)
	if !ok || len(temps) == 0 {
		return nil, fmt.Errorf("air-temperature-hagl variable has an unsupported shape")
	}
	grid.temps = temps
	return &grid, nil
}

func readModelRainfall(path string, latIdx int, lonIdx int) (float64, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer nc.Close()

	rainVar, ok := findVariable(nc, "rainfall-accumulation-01h-hagl")
	if !ok {
		return 0, fmt.Errorf("rainfall-accumulation-01h-hagl variable not found")
	}
	series, ok := gridSeries(rainVar.Values, latIdx, lonIdx)
	if !ok || len(series) == 0 {
		return 0, fmt.Errorf("rainfall-accumulation-01h-hagl variable has an unsupported shape")
	}
	return series[0], nil
}

// findVariable does a case-insensitive lookup over the candidate names.
func findVariable(nc api.Group, names ...string) (*api.Variable, bool) {
	available := nc.ListVariables()
	for _, want := range names {
		for _, have := range available {
			if strings.EqualFold(have, want) {
				vr, err := nc.GetVariable(have)
				if err != nil {
					continue
				}
				return vr, true
			}
		}
	}
	return nil, false
}

// stationIndex finds the row of the requested station identifier. When the
// file carries no recognizable station variable the first row is used, same
// as a single-station file.
func stationIndex(nc api.Group, station string) int {
	idVar, ok := findVariable(nc, "wsi", "station_id", "stn", "station", "stations")
	if !ok {
		return 0
	}
	ids, ok := idVar.Values.([]string)
	if !ok {
		return 0
	}
	for i, id := range ids {
		if id == station {
			return i
		}
	}
	return 0
}

func nearestIndex(values []float64, target float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range values {
		if d := math.Abs(v - target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func asFloats(values interface{}) ([]float64, bool) {
	switch v := values.(type) {
	case []float64:
		return v, true
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, true
	}
	return nil, false
}

// lastAt extracts the most recent value of a station-dimensioned series.
// Two-dimensional data is assumed (time, station) with a (station, time)
// fallback, matching how KNMI files are laid out in practice.
func lastAt(values interface{}, station int) (float64, bool) {
	switch v := values.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case []float64, []float32:
		series, _ := asFloats(v)
		if len(series) == 0 {
			return 0, false
		}
		return series[len(series)-1], true
	case [][]float64:
		return lastAt2D(v, station)
	case [][]float32:
		rows := make([][]float64, len(v))
		for i, row := range v {
			rows[i], _ = asFloats(row)
		}
		return lastAt2D(rows, station)
	}
	return 0, false
}

func lastAt2D(rows [][]float64, station int) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	last := rows[len(rows)-1]
	if station < len(last) {
		return last[station], true
	}
	if station < len(rows) && len(rows[station]) > 0 {
		return rows[station][len(rows[station])-1], true
	}
	if len(last) > 0 {
		return last[0], true
	}
	return 0, false
}

// gridSeries reads one value per lead time at a fixed grid point from
// (time, height, lat, lon) or (time, lat, lon) shaped model output.
func gridSeries(values interface{}, latIdx int, lonIdx int) ([]float64, bool) {
	switch v := values.(type) {
	case [][][][]float64:
		out := make([]float64, 0, len(v))
		for _, step := range v {
			if len(step) == 0 {
				return nil, false
			}
			val, ok := gridPoint(step[0], latIdx, lonIdx)
			if !ok {
				return nil, false
			}
			out = append(out, val)
		}
		return out, true
	case [][][][]float32:
		return gridSeries(convert4D(v), latIdx, lonIdx)
	case [][][]float64:
		out := make([]float64, 0, len(v))
		for _, step := range v {
			val, ok := gridPoint(step, latIdx, lonIdx)
			if !ok {
				return nil, false
			}
			out = append(out, val)
		}
		return out, true
	case [][][]float32:
		return gridSeries(convert3D(v), latIdx, lonIdx)
	}
	return nil, false
}

func gridPoint(plane [][]float64, latIdx int, lonIdx int) (float64, bool) {
	if latIdx >= len(plane) || lonIdx >= len(plane[latIdx]) {
		return 0, false
	}
	return plane[latIdx][lonIdx], true
}

func convert3D(v [][][]float32) [][][]float64 {
	out := make([][][]float64, len(v))
	for i, plane := range v {
		out[i] = make([][]float64, len(plane))
		for j, row := range plane {
			out[i][j], _ = asFloats(row)
		}
	}
	return out
}

func convert4D(v [][][][]float32) [][][][]float64 {
	out := make([][][][]float64, len(v))
	for i, cube := range v {
		out[i] = convert3D(cube)
	}
	return out
}
