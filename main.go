package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"weervandaag/src/assets"
	"weervandaag/src/captions"
	"weervandaag/src/discord"
	"weervandaag/src/overlay"
	"weervandaag/src/providers/knmi"
	"weervandaag/src/script"
	"weervandaag/src/utils/sendsns"
	"weervandaag/src/videobuilder"
	"weervandaag/src/voice"
)

const (
	default_config_file = "config.toml"
	default_voice_file  = "voice.wav"
	no_discord_flag     = "--no-discord"
)

type config struct {
	City      string
	Providers struct {
		Knmi knmi.Knmi
	}
	Assets assets.Dirs
	Voice  struct {
		ClipsDir string
	}
	Video videobuilder.Spec
}

func main() {

	// Local overrides for the env vars (API key, webhook URL)
	godotenv.Load()

	// Parse arguments: an optional config path and the one flag
	configFile := default_config_file
	deliver := true
	for _, arg := range os.Args[1:] {
		if arg == no_discord_flag {
			deliver = false
		} else {
			configFile = arg
		}
	}

	// Load configuration
	var conf config
	if _, err := toml.DecodeFile(configFile, &conf); err != nil {
		log.Fatalln(err)
		return
	}
	conf.applyDefaults()

	// Fail fast on a missing webhook before any rendering work
	var webhookURL string
	if deliver {
		var err error
		if webhookURL, err = discord.WebhookFromEnv(); err != nil {
			log.Fatalln(err)
			return
		}
	}

	// Fetch current weather
	log.Println("Fetching current weather...")
	weather, err := conf.Providers.Knmi.CurrentWeather()
	if err != nil {
		log.Fatalln(err)
		return
	}
	log.Printf("Temperature: %.1f°C, Condition: %s", weather.TempC, weather.Condition)

	// Fetch forecast; a failure here degrades to a video without the
	// forecast card instead of aborting the run
	log.Println("Fetching forecast...")
	forecast, err := conf.Providers.Knmi.Forecast()
	if err != nil {
		log.Printf("Warning: could not fetch forecast: %v", err)
		forecast = nil
	}

	// Resolve assets for the weather category
	category := categorize(weather, forecast)
	mood := assets.Mood(category)
	bundle, err := assets.Resolve(category, weather.Condition, weather.TempC, conf.Assets)
	if err != nil {
		log.Fatalln(err)
		return
	}

	// Build the narration and synthesize the voice-over
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	text := script.Build(conf.City, weather, forecast, mood, time.Now(), rng)
	log.Println("Forecast text:", text)
	log.Println("Generating voice-over...")
	timing, voiceDur, err := voice.New(conf.Voice.ClipsDir).Render(text, default_voice_file)
	if err != nil {
		log.Fatalln(err)
		return
	}

	// Subtitle cues from the recorded voice timing
	cues, err := captions.Cues(text, timing, voiceDur, voiceDur+conf.Video.TailSec)
	if err != nil {
		log.Fatalln(err)
		return
	}

	// Render the overlay cards
	cardDir, err := os.MkdirTemp("", "weervandaag-cards")
	if err != nil {
		log.Fatalln(err)
		return
	}
	defer os.RemoveAll(cardDir)

	style := overlay.Style{
		FontFile:     conf.Video.FontFile,
		TempFontSize: conf.Video.TempFontSize,
		TextFontSize: conf.Video.FontSize,
		BorderWidth:  conf.Video.CardBorderWidth,
	}
	weatherCard := filepath.Join(cardDir, "weather.png")
	if err := overlay.WeatherCard(bundle.Icon, weather.TempC, conf.City, style, weatherCard); err != nil {
		log.Fatalln(err)
		return
	}
	forecastCard := ""
	if forecast != nil {
		forecastIcon, err := assets.IconFor(forecast.Condition, forecast.TempC, conf.Assets)
		if err != nil {
			log.Fatalln(err)
			return
		}
		style.BorderWidth = conf.Video.ForecastBorderWidth
		forecastCard = filepath.Join(cardDir, "forecast.png")
		if err := overlay.ForecastCard(forecast, forecastIcon, style, forecastCard); err != nil {
			log.Fatalln(err)
			return
		}
	}

	// Compose and encode the video
	log.Println("Rendering video...")
	outFile, err := videobuilder.Build(videobuilder.Input{
		Background:    bundle.Background,
		Music:         bundle.Music,
		Voice:         default_voice_file,
		WeatherCard:   weatherCard,
		ForecastCard:  forecastCard,
		VoiceDuration: voiceDur,
		Cues:          cues,
	}, conf.Video)
	if err != nil {
		log.Fatalln(err)
		return
	}
	log.Printf("Done! Video saved as %s", outFile)

	// Deliver; the rendered file stays on disk either way
	if deliver {
		now := time.Now()
		message := fmt.Sprintf("Weersverwachting - %s om %s", now.Format("2 January 2006"), now.Format("15:04"))
		if err := discord.Post(webhookURL, outFile, message); err != nil {
			log.Fatalln(err)
			return
		}
		log.Println("Video posted to Discord")
		if err := sendsns.SendSNS("Weerbericht video geplaatst", outFile); err != nil {
			log.Fatalln(err)
			return
		}
	}
}

// categorize prefers the forecast over the current observation, so the
// assets match the day ahead rather than the last 10 minutes.
func categorize(weather *knmi.Weather, forecast *knmi.Forecast) assets.Category {
	if forecast != nil {
		return assets.Categorize(forecast.TempC, forecast.Condition)
	}
	return assets.Categorize(weather.TempC, weather.Condition)
}

func (c *config) applyDefaults() {
	if c.City == "" {
		c.City = "De Bilt"
	}
	if c.Assets.Backgrounds == "" {
		c.Assets.Backgrounds = filepath.Join("video_parts", "backgrounds")
	}
	if c.Assets.Music == "" {
		c.Assets.Music = "music"
	}
	if c.Assets.Icons == "" {
		c.Assets.Icons = filepath.Join("video_parts", "icons", "256w")
	}
	if c.Voice.ClipsDir == "" {
		c.Voice.ClipsDir = filepath.Join("voice", "clips")
	}
	c.Video = c.Video.WithDefaults()
}
