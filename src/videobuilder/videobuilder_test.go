package videobuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"weervandaag/src/assets"
	"weervandaag/src/captions"
)

func TestWithDefaults(t *testing.T) {
	spec := Spec{}.WithDefaults()
	assert.EqualValues(t, default_font_file, spec.FontFile)
	assert.EqualValues(t, default_output_file, spec.OutputFile)
	assert.EqualValues(t, default_avatar_file, spec.AvatarFile)
	assert.EqualValues(t, 1920, spec.Width)
	assert.EqualValues(t, 1080, spec.Height)
	assert.EqualValues(t, 24, spec.FrameRate)
	assert.EqualValues(t, 1.0, spec.LeadInSec)
	assert.EqualValues(t, 5.0, spec.TailSec)

	// Configured values are left alone.
	spec = Spec{FontSize: 52, OutputFile: "out.mp4"}.WithDefaults()
	assert.EqualValues(t, 52, spec.FontSize)
	assert.EqualValues(t, "out.mp4", spec.OutputFile)
}

func TestTotalDuration(t *testing.T) {
	spec := Spec{}.WithDefaults()
	assert.InDelta(t, 1.0+12.5+5.0, TotalDuration(12.5, spec), 1e-9)

	spec.LeadInSec = 2.0
	spec.TailSec = 3.0
	assert.InDelta(t, 2.0+7.0+3.0, TotalDuration(7.0, spec), 1e-9)
}

func TestBuildMissingInput(t *testing.T) {
	in := Input{
		Background:  "does/not/exist.mp4",
		Music:       "does/not/exist.mp3",
		Voice:       "does/not/exist.wav",
		WeatherCard: "does/not/exist.png",
	}
	_, err := Build(in, Spec{})
	var missing *assets.MissingAssetError
	assert.ErrorAs(t, err, &missing)
}

func composeArgs(t *testing.T, in Input, spec Spec) string {
	stream := compose(in, spec.WithDefaults(), "out.mp4")
	return strings.Join(stream.GetArgs(), " ")
}

func TestComposeArgs(t *testing.T) {
	in := Input{
		Background:    "bg.mp4",
		Music:         "music.mp3",
		Voice:         "voice.wav",
		WeatherCard:   "weather.png",
		VoiceDuration: 10.0,
	}
	args := composeArgs(t, in, Spec{})

	// Inputs loop and are trimmed to the total duration.
	assert.Contains(t, args, "bg.mp4")
	assert.Contains(t, args, "music.mp3")
	assert.Contains(t, args, "voice.wav")
	assert.Contains(t, args, "stream_loop -1")
	assert.Contains(t, args, "t 16")

	// Card overlay, scaled and blurred background, audio mix.
	assert.Contains(t, args, "overlay")
	assert.Contains(t, args, "scale=1920:1080")
	assert.Contains(t, args, "gblur=sigma=12")
	assert.Contains(t, args, "volume=0.25")
	assert.Contains(t, args, "adelay")
	assert.Contains(t, args, "amix")
	assert.Contains(t, args, "inputs=2")

	// Encode settings.
	assert.Contains(t, args, "libx264")
	assert.Contains(t, args, "aac")
	assert.Contains(t, args, "yuv420p")

	// No forecast card, one overlay only.
	assert.EqualValues(t, 1, strings.Count(args, "overlay="))
}

func TestComposeForecastCard(t *testing.T) {
	in := Input{
		Background:    "bg.mp4",
		Music:         "music.mp3",
		Voice:         "voice.wav",
		WeatherCard:   "weather.png",
		ForecastCard:  "forecast.png",
		VoiceDuration: 10.0,
	}
	args := composeArgs(t, in, Spec{})
	assert.Contains(t, args, "forecast.png")
	assert.EqualValues(t, 2, strings.Count(args, "overlay="))
}

func TestComposeAvatar(t *testing.T) {
	in := Input{
		Background:    "bg.mp4",
		Music:         "music.mp3",
		Voice:         "voice.wav",
		WeatherCard:   "weather.png",
		Avatar:        "avatar.png",
		VoiceDuration: 10.0,
	}
	args := composeArgs(t, in, Spec{})
	assert.Contains(t, args, "avatar.png")
	assert.Contains(t, args, "scale=256:256")
	assert.EqualValues(t, 2, strings.Count(args, "overlay="))

	// Slide-in during the lead-in, idle bounce afterwards.
	assert.Contains(t, args, "if(lt(t,1.000)")
	assert.Contains(t, args, "pow(1-t/1.000,5)")
	assert.Contains(t, args, "abs(sin(2*PI*(t-1.000)/0.800))")
}

func TestAvatarY(t *testing.T) {
	expr := avatarY(2.0)
	assert.True(t, strings.HasPrefix(expr, "'"))
	assert.True(t, strings.HasSuffix(expr, "'"))
	assert.Contains(t, expr, "lt(t,2.000)")
	assert.Contains(t, expr, "main_h-overlay_h-40")
	assert.Contains(t, expr, "pow(1-t/2.000,5)")
}

func TestEscapeFilterText(t *testing.T) {
	assert.EqualValues(t, "Hallo", escapeFilterText("Hallo"))
	assert.EqualValues(t, `'\''s-Hertogenbosch`, escapeFilterText("'s-Hertogenbosch"))
	assert.EqualValues(t, `100\% droog`, escapeFilterText("100% droog"))
	assert.EqualValues(t, `a\\b`, escapeFilterText(`a\b`))
}

func TestComposeSubtitles(t *testing.T) {
	in := Input{
		Background:    "bg.mp4",
		Music:         "music.mp3",
		Voice:         "voice.wav",
		WeatherCard:   "weather.png",
		VoiceDuration: 10.0,
		Cues: []captions.Cue{
			{Text: "Hallo", Start: 0.0, Duration: 0.5},
			{Text: "Hallo 's-Hertogenbosch", Start: 0.5, Duration: 9.5},
		},
	}
	args := composeArgs(t, in, Spec{})
	assert.EqualValues(t, 2, strings.Count(args, "drawtext"))
	assert.Contains(t, args, `Hallo '\''s-Hertogenbosch`)

	// Cue windows are shifted by the lead-in.
	assert.Contains(t, args, "between(t,1.000,1.500)")
	assert.Contains(t, args, "between(t,1.500,11.000)")
}

func TestWrapText(t *testing.T) {
	assert.Nil(t, wrapText("", 10))
	assert.EqualValues(t, []string{"hallo"}, wrapText("hallo", 10))
	assert.EqualValues(t, []string{"een twee", "drie"}, wrapText("een twee drie", 8))

	// A word longer than the limit stands alone.
	assert.EqualValues(t, []string{"kort", "temperatuurverandering"}, wrapText("kort temperatuurverandering", 10))

	// No line exceeds the limit when the words fit.
	for _, line := range wrapText(strings.Repeat("woord ", 40), 20) {
		assert.LessOrEqual(t, len(line), 20)
	}
}
