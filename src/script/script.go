// Package script assembles the Dutch narration that the voice-over speaks
// and the subtitles display.
package script

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"weervandaag/src/providers/knmi"
)

var weekdays = map[time.Weekday]string{
	time.Monday:    "maandag",
	time.Tuesday:   "dinsdag",
	time.Wednesday: "woensdag",
	time.Thursday:  "donderdag",
	time.Friday:    "vrijdag",
	time.Saturday:  "zaterdag",
	time.Sunday:    "zondag",
}

var months = [...]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

var greetings = []string{
	"Goedendag!",
	"Hallo daar!",
	"Goedemorgen!",
	"Hoi allemaal!",
	"Wees gegroet!",
}

var tempPatterns = []string{
	"Vandaag in %[1]s wordt het ongeveer %[2]d graden.",
	"In %[1]s schommelt de temperatuur rond de %[2]d graden.",
	"Rond de %[2]d graden vandaag in %[1]s.",
	"De temperatuur in %[1]s ligt vandaag rond de %[2]d graden.",
}

var condPatterns = []string{
	"Er wordt %s voorspeld.",
	"Je kunt %s verwachten.",
	"We krijgen te maken met %s.",
	"Het weerbeeld: %s.",
}

var moodPatterns = []string{
	"Al met al voelt het %s.",
	"De dag voelt daardoor %s.",
	"Het voelt dus %s.",
	"Ik heb het %s.",
}

var predictionPatterns = []string{
	"Voor vandaag wordt %[1]d graden en %[2]s voorspeld.",
	"De voorspelling voor vandaag: %[1]d graden en %[2]s.",
	"Vandaag wordt het naar verwachting %[1]d graden met %[2]s.",
	"De verwachting is %[1]d graden en %[2]s vandaag.",
}

var closings = []string{
	"Een fijne dag gewenst! Houdoe.",
	"Geniet van het weer en tot snel!",
	"Maak er een mooie dag van!",
	"Blijf warm en droog, en tot de volgende keer!",
	"doei",
}

// Build produces the full narration: greeting, date line, temperature,
// condition, mood, optional prediction, jacket advice and a closing.
func Build(city string, weather *knmi.Weather, forecast *knmi.Forecast, mood string, now time.Time, rng *rand.Rand) string {
	dateLine := fmt.Sprintf("Vandaag is het %s %d %s %d.",
		weekdays[now.Weekday()], now.Day(), months[now.Month()-1], now.Year())

	parts := []string{
		pick(rng, greetings),
		dateLine,
		fmt.Sprintf(pick(rng, tempPatterns), city, int(weather.TempC)),
		fmt.Sprintf(pick(rng, condPatterns), weather.Condition),
		fmt.Sprintf(pick(rng, moodPatterns), mood),
	}
	if forecast != nil {
		parts = append(parts, fmt.Sprintf(pick(rng, predictionPatterns), int(forecast.TempC), forecast.Condition))
	}
	parts = append(parts, JacketAdvice(weather, forecast), pick(rng, closings))

	trimmed := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, " ")
}

// JacketAdvice gives a short recommendation about wearing a jacket, taking
// the forecast into account when it looks worse than the current weather.
func JacketAdvice(weather *knmi.Weather, forecast *knmi.Forecast) string {
	useTemp := weather.TempC
	useCond := strings.ToLower(weather.Condition)
	if forecast != nil {
		useTemp = forecast.TempC
		useCond = strings.ToLower(forecast.Condition)
	}

	worse := false
	if forecast != nil {
		forecastCond := strings.ToLower(forecast.Condition)
		if hasRain(forecastCond) && !hasRain(strings.ToLower(weather.Condition)) {
			worse = true
		}
		if forecast.TempC < weather.TempC-3 {
			worse = true
		}
	}

	switch {
	case useTemp <= 5:
		advice := "Doe zeker een dikke jas aan en misschien zelfs een sjaal om."
		if worse {
			advice += " En houd rekening met de voorspelling: het kan nog kouder worden."
		}
		return advice
	case hasRain(useCond):
		advice := "Neem zeker een jas en liefst ook een regenjas mee."
		if worse {
			advice += " De voorspelling geeft aan dat het later nog natter kan worden."
		}
		return advice
	case useTemp <= 12:
		advice := "Een jas is aan te raden, vooral in de ochtend en avond."
		if worse {
			advice += " De voorspelling suggereert dat het later kouder wordt."
		}
		return advice
	case useTemp <= 18:
		return "Een lichte jas of vest is meestal voldoende."
	default:
		return "Een jas is vandaag echt niet nodig."
	}
}

func hasRain(condition string) bool {
	return strings.Contains(condition, "regen") || strings.Contains(condition, "bui")
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}
