package knmi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"weervandaag/src/utils/restclient"
)

const (
	base_url         = "https://api.dataplatform.knmi.nl/open-data/v1"
	dataset_version  = "1.0"
	env_api_key_name = "KNMI_API_KEY"

	// Public anonymous key published by KNMI; rate limited, set KNMI_API_KEY
	// for a personal one.
	anonymous_api_key = "eyJvcmciOiI1ZTU1NGUxOTI3NGE5NjAwMDEyYTNlYjEiLCJpZCI6ImVlNDFjMWI0MjlkODQ2MThiNWI4ZDViZDAyMTM2YTM3IiwiaCI6Im11cm11cjEyOCJ9"

	default_observation_dataset = "10-minute-in-situ-meteorological-observations"
	default_model_dataset       = "uwcw_extra_lv_ha43_nl_2km"
	default_station             = "0-20000-0-06260" // De Bilt
	default_latitude            = 52.10
	default_longitude           = 5.18
)

type Knmi struct {
	Station      string
	Latitude     float64
	Longitude    float64
	Observations string
	Model        string
}

type Weather struct {
	TempC     float64
	Condition string
}

type DayPart struct {
	Label string
	TempC float64
}

type Forecast struct {
	TempC     float64
	Condition string
	DayParts  []DayPart
}

type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("knmi: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type fileList struct {
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

type downloadInfo struct {
	TemporaryDownloadUrl string `json:"temporaryDownloadUrl"`
}

func apiKey() string {
	if key := os.Getenv(env_api_key_name); key != "" {
		return key
	}
	return anonymous_api_key
}

func (k *Knmi) station() string {
	if k.Station != "" {
		return k.Station
	}
	return default_station
}

func (k *Knmi) location() (float64, float64) {
	if k.Latitude != 0 || k.Longitude != 0 {
		return k.Latitude, k.Longitude
	}
	return default_latitude, default_longitude
}

func (k *Knmi) observationDataset() string {
	if k.Observations != "" {
		return k.Observations
	}
	return default_observation_dataset
}

func (k *Knmi) modelDataset() string {
	if k.Model != "" {
		return k.Model
	}
	return default_model_dataset
}

// CurrentWeather fetches the newest 10-minute observation file and reads
// the air temperature and present-weather code for the configured station.
func (k *Knmi) CurrentWeather() (*Weather, error) {
	files, err := listFiles(k.observationDataset(), 1)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &FetchError{Op: "list observation files", Err: fmt.Errorf("no files in dataset %s", k.observationDataset())}
	}

	localPath, err := downloadFile(k.observationDataset(), files[0])
	if err != nil {
		return nil, err
	}
	defer os.Remove(localPath)

	obs, err := readObservation(localPath, k.station())
	if err != nil {
		return nil, &FetchError{Op: "parse observation file " + files[0], Err: err}
	}

	weather := Weather{TempC: obs.tempC}
	if obs.hasWW {
		weather.Condition = ConditionFromCode(obs.wwCode)
	} else {
		weather.Condition = conditionFromTemperature(obs.tempC)
	}
	return &weather, nil
}

// Forecast reads the HARMONIE model output at the grid point nearest to the
// configured location. Temperature lead times become day parts; the rainfall
// accumulation file, when present, decides the condition.
func (k *Knmi) Forecast() (*Forecast, error) {
	files, err := listFiles(k.modelDataset(), 100)
	if err != nil {
		return nil, err
	}

	tempFile := findFile(files, "air-temperature-hagl")
	if tempFile == "" {
		return nil, &FetchError{Op: "list model files", Err: fmt.Errorf("no air-temperature-hagl file in dataset %s", k.modelDataset())}
	}

	localPath, err := downloadFile(k.modelDataset(), tempFile)
	if err != nil {
		return nil, err
	}
	defer os.Remove(localPath)

	lat, lon := k.location()
	grid, err := readModelTemperature(localPath, lat, lon)
	if err != nil {
		return nil, &FetchError{Op: "parse model file " + tempFile, Err: err}
	}

	forecast := Forecast{
		TempC:    grid.at(0),
		DayParts: grid.dayParts(),
	}

	// Rainfall drives the condition; without it, fall back to temperature.
	precip, ok := k.rainfall(files, grid)
	switch {
	case ok && precip > 0.5:
		forecast.Condition = "regen"
	case ok && precip > 0.1:
		forecast.Condition = "lichte regen"
	case forecast.TempC > 20:
		forecast.Condition = "gedeeltelijk bewolkt"
	default:
		forecast.Condition = "bewolkt"
	}
	return &forecast, nil
}

func (k *Knmi) rainfall(files []string, grid *modelGrid) (float64, bool) {
	rainFile := findFile(files, "rainfall-accumulation-01h-hagl")
	if rainFile == "" {
		return 0, false
	}
	localPath, err := downloadFile(k.modelDataset(), rainFile)
	if err != nil {
		return 0, false
	}
	defer os.Remove(localPath)

	precip, err := readModelRainfall(localPath, grid.latIdx, grid.lonIdx)
	if err != nil {
		return 0, false
	}
	return precip, true
}

func listFiles(dataset string, maxKeys int) ([]string, error) {
	query := url.Values{}
	query.Set("maxKeys", fmt.Sprintf("%d", maxKeys))
	query.Set("sorting", "desc")
	query.Set("orderBy", "lastModified")
	listUrl := fmt.Sprintf("%s/datasets/%s/versions/%s/files?%s", base_url, dataset, dataset_version, query.Encode())

	res, err := restclient.Get(listUrl, authHeader())
	if err != nil {
		return nil, &FetchError{Op: "list files for " + dataset, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, &FetchError{Op: "list files for " + dataset, Err: fmt.Errorf("status %d", res.StatusCode)}
	}

	var list fileList
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		return nil, &FetchError{Op: "decode file list for " + dataset, Err: err}
	}
	names := make([]string, 0, len(list.Files))
	for _, file := range list.Files {
		names = append(names, file.Filename)
	}
	return names, nil
}

func findFile(files []string, substr string) string {
	for _, name := range files {
		if strings.Contains(name, substr) {
			return name
		}
	}
	return ""
}

// downloadFile resolves the temporary download URL for a dataset file and
// streams it to a temp file on disk. The caller removes the file.
func downloadFile(dataset string, filename string) (string, error) {
	urlEndpoint := fmt.Sprintf("%s/datasets/%s/versions/%s/files/%s/url", base_url, dataset, dataset_version, url.PathEscape(filename))
	res, err := restclient.Get(urlEndpoint, authHeader())
	if err != nil {
		return "", &FetchError{Op: "resolve download url for " + filename, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", &FetchError{Op: "resolve download url for " + filename, Err: fmt.Errorf("status %d", res.StatusCode)}
	}

	var info downloadInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return "", &FetchError{Op: "decode download url for " + filename, Err: err}
	}

	fileRes, err := restclient.Get(info.TemporaryDownloadUrl, http.Header{})
	if err != nil {
		return "", &FetchError{Op: "download " + filename, Err: err}
	}
	defer fileRes.Body.Close()
	if fileRes.StatusCode != http.StatusOK {
		return "", &FetchError{Op: "download " + filename, Err: fmt.Errorf("status %d", fileRes.StatusCode)}
	}

	tmpFile, err := os.CreateTemp("", "knmi-*.nc")
	if err != nil {
		return "", &FetchError{Op: "create temp file for " + filename, Err: err}
	}
	if _, err := io.Copy(tmpFile, fileRes.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", &FetchError{Op: "download " + filename, Err: err}
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", &FetchError{Op: "download " + filename, Err: err}
	}
	return tmpFile.Name(), nil
}

func authHeader() http.Header {
	return http.Header{"Authorization": {apiKey()}}
}
