package videobuilder

import (
	"fmt"
	"os"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"weervandaag/src/assets"
	"weervandaag/src/captions"
)

const (
	default_font_file       = "fonts/Yagora.ttf"
	default_font_size       = 40
	default_temp_font_size  = 140
	default_subtitle_border = 3
	default_card_border     = 2
	default_forecast_border = 2
	default_lead_in_sec     = 1.0
	default_tail_sec        = 5.0
	default_frame_rate      = 24
	default_width           = 1920
	default_height          = 1080
	default_output_file     = "weer_vandaag.mp4"

	default_avatar_file = "video_parts/avatar.png"

	subtitle_x             = 336
	subtitle_bottom_margin = 50
	subtitle_line_chars    = 56
	card_appear_delay_sec  = 1.0
	music_volume           = "0.25"

	background_blur_sigma = 12
	avatar_size           = 256
	avatar_margin         = 40
	avatar_bounce_px      = 10
	avatar_bounce_period  = 0.8
)

// Spec is the immutable composition layout, decoded once from config.toml.
// Zero values fall back to the defaults above.
type Spec struct {
	FontFile            string
	FontSize            int
	TempFontSize        int
	SubtitleBorderWidth int
	CardBorderWidth     int
	ForecastBorderWidth int
	LeadInSec           float64
	TailSec             float64
	FrameRate           int
	Width               int
	Height              int
	OutputFile          string
	AvatarFile          string
}

func (s Spec) WithDefaults() Spec {
	if s.FontFile == "" {
		s.FontFile = default_font_file
	}
	if s.FontSize == 0 {
		s.FontSize = default_font_size
	}
	if s.TempFontSize == 0 {
		s.TempFontSize = default_temp_font_size
	}
	if s.SubtitleBorderWidth == 0 {
		s.SubtitleBorderWidth = default_subtitle_border
	}
	if s.CardBorderWidth == 0 {
		s.CardBorderWidth = default_card_border
	}
	if s.ForecastBorderWidth == 0 {
		s.ForecastBorderWidth = default_forecast_border
	}
	if s.LeadInSec == 0 {
		s.LeadInSec = default_lead_in_sec
	}
	if s.TailSec == 0 {
		s.TailSec = default_tail_sec
	}
	if s.FrameRate == 0 {
		s.FrameRate = default_frame_rate
	}
	if s.Width == 0 {
		s.Width = default_width
	}
	if s.Height == 0 {
		s.Height = default_height
	}
	if s.OutputFile == "" {
		s.OutputFile = default_output_file
	}
	if s.AvatarFile == "" {
		s.AvatarFile = default_avatar_file
	}
	return s
}

// Input is everything one render needs: the resolved asset bundle pieces,
// the voice track, the pre-rendered cards and the subtitle cues.
type Input struct {
	Background    string
	Music         string
	Voice         string
	WeatherCard   string
	ForecastCard  string
	Avatar        string
	VoiceDuration float64
	Cues          []captions.Cue
}

// TotalDuration is the fixed duration policy: lead-in, then the voice, then
// a background-only tail. The background never stretches the video.
func TotalDuration(voiceDuration float64, spec Spec) float64 {
	return spec.LeadInSec + voiceDuration + spec.TailSec
}

// Build renders the composition to spec.OutputFile. The encode goes to a
// temp path first and only lands on the output path on full success, so a
// failed render never leaves a corrupt file behind.
func Build(in Input, spec Spec) (string, error) {
	spec = spec.WithDefaults()

	required := []string{in.Background, in.Music, in.Voice, in.WeatherCard, spec.FontFile}
	if in.ForecastCard != "" {
		required = append(required, in.ForecastCard)
	}
	for _, path := range required {
		if _, err := os.Stat(path); err != nil {
			return "", &assets.MissingAssetError{Path: path}
		}
	}

	// The avatar is the one optional visual: present file gets layered in,
	// an absent one just leaves it out.
	if _, err := os.Stat(spec.AvatarFile); err == nil {
		in.Avatar = spec.AvatarFile
	}

	partFile := spec.OutputFile + ".part.mp4"
	if err := compose(in, spec, partFile).OverWriteOutput().Run(); err != nil {
		os.Remove(partFile)
		return "", fmt.Errorf("ffmpeg render failed: %w", err)
	}
	if err := os.Rename(partFile, spec.OutputFile); err != nil {
		os.Remove(partFile)
		return "", err
	}
	return spec.OutputFile, nil
}

func compose(in Input, spec Spec, outPath string) *ffmpeg.Stream {
	total := TotalDuration(in.VoiceDuration, spec)

	// Background: loop to fill, trim to the target duration, soft blur.
	video := ffmpeg.Input(in.Background, ffmpeg.KwArgs{"stream_loop": -1, "t": total}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", spec.Width, spec.Height)}).
		Filter("gblur", ffmpeg.Args{fmt.Sprintf("sigma=%d", background_blur_sigma)})

	if in.Avatar != "" {
		avatar := ffmpeg.Input(in.Avatar).
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", avatar_size, avatar_size)})
		video = video.Overlay(avatar, "repeat", ffmpeg.KwArgs{
			"x": fmt.Sprintf("%d", avatar_margin),
			"y": avatarY(spec.LeadInSec),
		})
	}

	appear := fmt.Sprintf("'gte(t,%.3f)'", spec.LeadInSec+card_appear_delay_sec)
	video = video.Overlay(ffmpeg.Input(in.WeatherCard), "repeat", ffmpeg.KwArgs{
		"x":      "(main_w-overlay_w)/2-250",
		"y":      "(main_h-overlay_h)/2-100",
		"enable": appear,
	})
	if in.ForecastCard != "" {
		video = video.Overlay(ffmpeg.Input(in.ForecastCard), "repeat", ffmpeg.KwArgs{
			"x":      "(main_w-overlay_w)/2+250",
			"y":      "(main_h-overlay_h)/2-100",
			"enable": appear,
		})
	}

	video = drawSubtitles(video, in.Cues, spec)

	// Music under the whole video, voice on top after the lead-in.
	music := ffmpeg.Input(in.Music, ffmpeg.KwArgs{"stream_loop": -1, "t": total}).
		Filter("volume", ffmpeg.Args{music_volume})
	voiceDelayMs := int(spec.LeadInSec * 1000)
	voiceTrack := ffmpeg.Input(in.Voice).
		Filter("adelay", nil, ffmpeg.KwArgs{"delays": fmt.Sprintf("%d", voiceDelayMs), "all": 1})
	mixed := ffmpeg.Filter([]*ffmpeg.Stream{music, voiceTrack}, "amix", nil,
		ffmpeg.KwArgs{"inputs": 2, "duration": "first"})

	return ffmpeg.Output([]*ffmpeg.Stream{video, mixed}, outPath, ffmpeg.KwArgs{
		"c:v":     "libx264",
		"c:a":     "aac",
		"pix_fmt": "yuv420p",
		"r":       spec.FrameRate,
		"t":       total,
	})
}

// avatarY is the avatar's vertical motion: an eased slide up from below the
// frame during the lead-in, then a gentle idle bounce at the rest position.
func avatarY(entrySec float64) string {
	rest := fmt.Sprintf("main_h-overlay_h-%d", avatar_margin)
	entry := fmt.Sprintf("main_h-(overlay_h+%d)*(1-pow(1-t/%.3f,5))", avatar_margin, entrySec)
	bounce := fmt.Sprintf("%s-%d*abs(sin(2*PI*(t-%.3f)/%.3f))",
		rest, avatar_bounce_px, entrySec, avatar_bounce_period)
	return fmt.Sprintf("'if(lt(t,%.3f),%s,%s)'", entrySec, entry, bounce)
}

// escapeFilterText escapes what the filtergraph parser and drawtext text
// expansion treat specially, so narration text cannot corrupt the graph.
func escapeFilterText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `%`, `\%`)
	text = strings.ReplaceAll(text, `'`, `'\''`)
	return text
}

// drawSubtitles adds one boxed drawtext per cue line, window-enabled on the
// cue's start/duration shifted by the lead-in.
func drawSubtitles(video *ffmpeg.Stream, cues []captions.Cue, spec Spec) *ffmpeg.Stream {
	lineHeight := spec.FontSize * 13 / 10
	for _, cue := range cues {
		start := spec.LeadInSec + cue.Start
		end := start + cue.Duration
		enable := fmt.Sprintf("between(t,%.3f,%.3f)", start, end)

		lines := wrapText(cue.Text, subtitle_line_chars)
		for j, line := range lines {
			y := spec.Height - subtitle_bottom_margin - (len(lines)-j)*lineHeight
			video = video.Filter("drawtext", ffmpeg.Args{
				fmt.Sprintf("text='%s'", escapeFilterText(line)),
				fmt.Sprintf("x=%d", subtitle_x),
				fmt.Sprintf("y=%d", y),
				fmt.Sprintf("fontfile=%s", spec.FontFile),
				fmt.Sprintf("fontsize=%d", spec.FontSize),
				"fontcolor=white",
				"box=1",
				"boxcolor=black@0.7",
				fmt.Sprintf("boxborderw=%d", spec.SubtitleBorderWidth*4),
				fmt.Sprintf("enable='%s'", enable),
			})
		}
	}
	return video
}

// wrapText breaks text at word boundaries into lines of at most maxChars
// runes. Words longer than a line stand alone.
func wrapText(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len([]rune(current))+1+len([]rune(word)) <= maxChars {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}
