package overlay

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/gofont/goregular"

	"weervandaag/src/providers/knmi"
)

func testFont(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "test.ttf")
	assert.Nil(t, os.WriteFile(path, goregular.TTF, 0644))
	return path
}

func testIcon(t *testing.T) string {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{255, 200, 0, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "sunny.png")
	out, err := os.Create(path)
	assert.Nil(t, err)
	defer out.Close()
	assert.Nil(t, png.Encode(out, img))
	return path
}

func testStyle(t *testing.T) Style {
	return Style{
		FontFile:     testFont(t),
		TempFontSize: 140,
		TextFontSize: 40,
		BorderWidth:  2,
	}
}

func decodePng(t *testing.T, path string) image.Image {
	f, err := os.Open(path)
	assert.Nil(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	assert.Nil(t, err)
	return img
}

func TestWeatherCard(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "weather.png")
	err := WeatherCard(testIcon(t), 18.6, "De Bilt", testStyle(t), outPath)
	assert.Nil(t, err)

	img := decodePng(t, outPath)
	bounds := img.Bounds()

	// The card is at least as wide as the icon plus padding and tall enough
	// for icon, temperature and city rows.
	assert.GreaterOrEqual(t, bounds.Dx(), icon_size+2*box_padding)
	assert.Greater(t, bounds.Dy(), icon_size+2*box_padding)

	// Corner pixel sits on the white border.
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.EqualValues(t, 0xffff, r)
	assert.EqualValues(t, 0xffff, g)
	assert.EqualValues(t, 0xffff, b)
}

func TestForecastCard(t *testing.T) {
	forecast := &knmi.Forecast{
		TempC:     12,
		Condition: "bewolkt",
		DayParts: []knmi.DayPart{
			{Label: "ochtend", TempC: 9},
			{Label: "middag", TempC: 12},
			{Label: "avond", TempC: 10},
		},
	}
	outPath := filepath.Join(t.TempDir(), "forecast.png")
	err := ForecastCard(forecast, testIcon(t), testStyle(t), outPath)
	assert.Nil(t, err)

	img := decodePng(t, outPath)
	assert.Greater(t, img.Bounds().Dy(), forecast_icon_size+2*box_padding)
}

func TestWeatherCardMissingFont(t *testing.T) {
	style := testStyle(t)
	style.FontFile = "does/not/exist.ttf"
	err := WeatherCard(testIcon(t), 18, "De Bilt", style, filepath.Join(t.TempDir(), "out.png"))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "font")
}

func TestWeatherCardMissingIcon(t *testing.T) {
	err := WeatherCard("does/not/exist.png", 18, "De Bilt", testStyle(t), filepath.Join(t.TempDir(), "out.png"))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "icon")
}

func TestMaxInt(t *testing.T) {
	assert.EqualValues(t, 7, maxInt(7))
	assert.EqualValues(t, 9, maxInt(3, 9, 1))
	assert.EqualValues(t, -1, maxInt(-5, -1, -3))
}
