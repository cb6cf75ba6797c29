// Package overlay renders the weather card and forecast card PNGs that get
// composited over the background video.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"weervandaag/src/providers/knmi"
)

const (
	icon_size          = 256
	forecast_icon_size = 128
	element_spacing    = 40
	box_padding        = 30
	city_font_size     = 64
)

var (
	boxFill     = color.RGBA{10, 50, 100, 230}
	borderColor = color.RGBA{255, 255, 255, 255}
	textColor   = color.RGBA{255, 255, 255, 255}
)

// Style carries the configurable card appearance; font sizes and border
// widths come from config.toml.
type Style struct {
	FontFile     string
	TempFontSize int
	TextFontSize int
	BorderWidth  int
}

// WeatherCard draws the current-weather card: icon on top, the temperature
// in large type below it, the city name underneath.
func WeatherCard(iconPath string, tempC float64, city string, style Style, outPath string) error {
	ttf, err := loadFont(style.FontFile)
	if err != nil {
		return err
	}
	tempFace := newFace(ttf, float64(style.TempFontSize))
	cityFace := newFace(ttf, city_font_size)

	icon, err := loadIcon(iconPath, icon_size)
	if err != nil {
		return err
	}

	tempLabel := fmt.Sprintf("%d°C", int(tempC))
	tempW := textWidth(tempFace, tempLabel)
	cityW := textWidth(cityFace, city)

	contentW := maxInt(icon_size, tempW, cityW)
	tempH := faceHeight(tempFace)
	cityH := faceHeight(cityFace)
	contentH := icon_size + element_spacing + tempH + element_spacing + cityH

	img := newCard(contentW+2*box_padding, contentH+2*box_padding, style.BorderWidth)

	y := box_padding
	drawImage(img, icon, box_padding+(contentW-icon_size)/2, y)
	y += icon_size + element_spacing
	drawText(img, tempFace, box_padding+(contentW-tempW)/2, y, tempLabel)
	y += tempH + element_spacing
	drawText(img, cityFace, box_padding+(contentW-cityW)/2, y, city)

	return writePng(img, outPath)
}

// ForecastCard draws the day-part strip: a label, a smaller icon and one
// line per day part.
func ForecastCard(forecast *knmi.Forecast, iconPath string, style Style, outPath string) error {
	ttf, err := loadFont(style.FontFile)
	if err != nil {
		return err
	}
	textFace := newFace(ttf, float64(style.TextFontSize))

	icon, err := loadIcon(iconPath, forecast_icon_size)
	if err != nil {
		return err
	}

	label := "Voorspelling"
	lines := []string{label}
	for _, part := range forecast.DayParts {
		lines = append(lines, fmt.Sprintf("%s %d°", part.Label, int(part.TempC)))
	}

	contentW := forecast_icon_size
	for _, line := range lines {
		if w := textWidth(textFace, line); w > contentW {
			contentW = w
		}
	}
	lineH := faceHeight(textFace)
	contentH := lineH + element_spacing/2 + forecast_icon_size + element_spacing/2 + len(forecast.DayParts)*lineH

	img := newCard(contentW+2*box_padding, contentH+2*box_padding, style.BorderWidth)

	y := box_padding
	drawText(img, textFace, box_padding+(contentW-textWidth(textFace, label))/2, y, label)
	y += lineH + element_spacing/2
	drawImage(img, icon, box_padding+(contentW-forecast_icon_size)/2, y)
	y += forecast_icon_size + element_spacing/2
	for _, line := range lines[1:] {
		drawText(img, textFace, box_padding+(contentW-textWidth(textFace, line))/2, y, line)
		y += lineH
	}

	return writePng(img, outPath)
}

func newCard(w, h, borderWidth int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(boxFill), image.Point{}, draw.Src)
	border := image.NewUniform(borderColor)
	for _, rect := range []image.Rectangle{
		image.Rect(0, 0, w, borderWidth),
		image.Rect(0, h-borderWidth, w, h),
		image.Rect(0, 0, borderWidth, h),
		image.Rect(w-borderWidth, 0, w, h),
	} {
		draw.Draw(img, rect, border, image.Point{}, draw.Src)
	}
	return img
}

func loadFont(path string) (*truetype.Font, error) {
	fontData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font file not found: %s", path)
	}
	ttf, err := truetype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return ttf, nil
}

func newFace(ttf *truetype.Font, size float64) font.Face {
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func loadIcon(path string, size int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("icon file not found: %s", path)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", path, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}

func drawImage(dst *image.RGBA, src image.Image, x, y int) {
	bounds := src.Bounds()
	target := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
	draw.Draw(dst, target, src, bounds.Min, draw.Over)
}

func drawText(dst *image.RGBA, face font.Face, x, y int, text string) {
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + ascent)},
	}
	d.DrawString(text)
}

func textWidth(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

func faceHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

func maxInt(values ...int) int {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func writePng(img image.Image, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay image: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode overlay image: %w", err)
	}
	return nil
}
