package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Category is the coarse weather classification that picks the media
// bundle. The set is closed; anything else is a configuration problem.
type Category string

const (
	CategoryCold   Category = "cold"
	CategoryNormal Category = "normal"
	CategoryWarm   Category = "warm"
	CategoryHot    Category = "hot"
	CategoryRainy  Category = "rainy"
)

// Bundle is the background video, music track and weather icon that go
// with one condition category.
type Bundle struct {
	Background string
	Music      string
	Icon       string
}

// Dirs holds the asset directories, decoded from config.toml.
type Dirs struct {
	Backgrounds string
	Music       string
	Icons       string
}

type MissingAssetError struct {
	Path string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("asset file not found: %s", e.Path)
}

type UnmappedCategoryError struct {
	Category Category
}

func (e *UnmappedCategoryError) Error() string {
	return fmt.Sprintf("no asset bundle mapped for category %q", string(e.Category))
}

var rainWords = []string{"regen", "bui", "motregen"}

// Categorize maps a temperature and Dutch condition string to a category.
// Rain in the condition overrides the temperature bands.
func Categorize(tempC float64, condition string) Category {
	cond := strings.ToLower(condition)
	for _, word := range rainWords {
		if strings.Contains(cond, word) {
			return CategoryRainy
		}
	}
	switch {
	case tempC <= 5:
		return CategoryCold
	case tempC <= 15:
		return CategoryNormal
	case tempC <= 23:
		return CategoryWarm
	default:
		return CategoryHot
	}
}

var moods = map[Category]string{
	CategoryRainy:  "regenachtig",
	CategoryCold:   "erg koud",
	CategoryNormal: "aangenaam",
	CategoryWarm:   "lekker warm",
	CategoryHot:    "heet",
}

// Mood is the spoken description of a category, used in the narration.
func Mood(cat Category) string {
	if mood, ok := moods[cat]; ok {
		return mood
	}
	return "gewoon"
}

var bundleNames = map[Category]string{
	CategoryCold:   "cold",
	CategoryNormal: "normal",
	CategoryWarm:   "warm",
	CategoryHot:    "hot",
	CategoryRainy:  "rainy",
}

// Resolve returns the complete bundle for a category, verifying that every
// file exists. A missing file fails loudly; there is no substitute asset.
func Resolve(cat Category, condition string, tempC float64, dirs Dirs) (Bundle, error) {
	name, ok := bundleNames[cat]
	if !ok {
		return Bundle{}, &UnmappedCategoryError{Category: cat}
	}

	bundle := Bundle{
		Background: filepath.Join(dirs.Backgrounds, name+".mp4"),
		Music:      filepath.Join(dirs.Music, name+".mp3"),
		Icon:       filepath.Join(dirs.Icons, iconName(condition, tempC)+".png"),
	}
	for _, path := range []string{bundle.Background, bundle.Music, bundle.Icon} {
		if _, err := os.Stat(path); err != nil {
			return Bundle{}, &MissingAssetError{Path: path}
		}
	}
	return bundle, nil
}

// Ordered: the more specific phrases have to win from their substrings.
var iconWords = []struct {
	keyword string
	icon    string
}{
	{"gedeeltelijk bewolkt", "partly-cloudy"},
	{"onweer", "thunderstorm"},
	{"regen", "rain"},
	{"bui", "rain"},
	{"motregen", "rain"},
	{"storm", "wind"},
	{"sneeuw", "snow"},
	{"hagel", "snow"},
	{"zonnig", "sunny"},
	{"helder", "sunny"},
	{"zon", "sunny"},
	{"bewolkt", "cloudy"},
	{"wolken", "cloudy"},
	{"mist", "fog"},
	{"nevel", "fog"},
}

func iconName(condition string, tempC float64) string {
	cond := strings.ToLower(condition)
	for _, entry := range iconWords {
		if strings.Contains(cond, entry.keyword) {
			return entry.icon
		}
	}
	switch {
	case tempC <= 5:
		return "cold"
	case tempC > 23:
		return "hot"
	default:
		return "normal"
	}
}

// IconFor resolves an icon path on its own, for the forecast card.
func IconFor(condition string, tempC float64, dirs Dirs) (string, error) {
	path := filepath.Join(dirs.Icons, iconName(condition, tempC)+".png")
	if _, err := os.Stat(path); err != nil {
		return "", &MissingAssetError{Path: path}
	}
	return path, nil
}
