package voice

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"weervandaag/src/captions"
)

const (
	space_pause_sec    = 0.05
	sentence_pause_sec = 0.6
	min_pitch_factor   = 0.9
	max_pitch_factor   = 1.1
)

// Synth builds a gibberish voice-over: one random short clip per syllable
// token, with a small random pitch shift so repeated clips do not sound
// identical, and pauses at spaces and sentence ends.
type Synth struct {
	ClipsDir string
	rng      *rand.Rand
}

func New(clipsDir string) *Synth {
	return &Synth{
		ClipsDir: clipsDir,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Render writes the voice track for text to outFile and the timing map to
// the matching "_timing.json" side file. It returns the timing map and the
// voice duration in seconds.
func (s *Synth) Render(text string, outFile string) (*captions.TimingMap, float64, error) {
	clips, err := s.listClips()
	if err != nil {
		return nil, 0, err
	}

	tokens := captions.Tokenize(text)
	timing := captions.TimingMap{Tokens: tokens}

	var samples []int
	var format *audio.Format
	bitDepth := 0
	currentTime := 0.0

	appendSilence := func(seconds float64) {
		if format == nil || seconds <= 0 {
			return
		}
		frames := int(float64(format.SampleRate) * seconds)
		samples = append(samples, make([]int, frames*format.NumChannels)...)
	}

	for idx, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			appendSilence(space_pause_sec)
			currentTime += space_pause_sec
			continue
		}

		clip := clips[s.rng.Intn(len(clips))]
		buf, err := loadClip(clip)
		if err != nil {
			return nil, 0, err
		}
		if format == nil {
			format = buf.Format
			bitDepth = buf.SourceBitDepth
		} else if buf.Format.NumChannels != format.NumChannels ||
			buf.Format.SampleRate != format.SampleRate ||
			buf.SourceBitDepth != bitDepth {
			return nil, 0, fmt.Errorf("voice clip %s: all clips must share channels, sample rate and bit depth", clip)
		}

		factor := min_pitch_factor + s.rng.Float64()*(max_pitch_factor-min_pitch_factor)
		data := resample(buf.Data, format.NumChannels, factor)
		samples = append(samples, data...)

		dur := float64(len(data)/format.NumChannels) / float64(format.SampleRate)
		timing.Syllables = append(timing.Syllables, captions.Event{
			TokenIndex: idx,
			Start:      currentTime,
			End:        currentTime + dur,
		})
		currentTime += dur

		if endsSentence(tok) {
			appendSilence(sentence_pause_sec)
			currentTime += sentence_pause_sec
		}
	}

	if format == nil {
		return nil, 0, fmt.Errorf("no voice clips were used, nothing to speak in %q", text)
	}

	if err := writeWav(outFile, samples, format, bitDepth); err != nil {
		return nil, 0, err
	}
	if err := writeTiming(TimingPath(outFile), &timing); err != nil {
		return nil, 0, err
	}
	return &timing, currentTime, nil
}

// TimingPath is the timing side file that belongs to a voice file.
func TimingPath(voiceFile string) string {
	ext := filepath.Ext(voiceFile)
	return strings.TrimSuffix(voiceFile, ext) + "_timing.json"
}

func (s *Synth) listClips() ([]string, error) {
	entries, err := os.ReadDir(s.ClipsDir)
	if err != nil {
		return nil, fmt.Errorf("voice clips directory not found: %s", s.ClipsDir)
	}
	var clips []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			clips = append(clips, filepath.Join(s.ClipsDir, entry.Name()))
		}
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("no .wav clips found in %s", s.ClipsDir)
	}
	return clips, nil
}

func loadClip(path string) (*audio.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open voice clip: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode voice clip %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 || buf.Format.SampleRate == 0 {
		return nil, fmt.Errorf("voice clip %s has no usable format", path)
	}
	return buf, nil
}

// resample stretches or shrinks interleaved PCM by a pitch factor using
// linear interpolation. factor > 1 raises the pitch (fewer frames).
func resample(data []int, channels int, factor float64) []int {
	frames := len(data) / channels
	if frames == 0 || factor == 1.0 {
		return data
	}
	newFrames := int(float64(frames) / factor)
	if newFrames < 1 {
		newFrames = 1
	}
	out := make([]int, newFrames*channels)
	for frame := 0; frame < newFrames; frame++ {
		pos := 0.0
		if newFrames > 1 {
			pos = float64(frame) / float64(newFrames-1) * float64(frames-1)
		}
		lo := int(pos)
		hi := lo + 1
		if hi >= frames {
			hi = frames - 1
		}
		frac := pos - float64(lo)
		for ch := 0; ch < channels; ch++ {
			a := float64(data[lo*channels+ch])
			b := float64(data[hi*channels+ch])
			out[frame*channels+ch] = int(a + (b-a)*frac)
		}
	}
	return out
}

func endsSentence(token string) bool {
	trimmed := strings.TrimSpace(token)
	return strings.HasSuffix(trimmed, ".") ||
		strings.HasSuffix(trimmed, "!") ||
		strings.HasSuffix(trimmed, "?")
}

func writeWav(path string, samples []int, format *audio.Format, bitDepth int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create voice file: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, format.SampleRate, bitDepth, format.NumChannels, 1)
	buf := &audio.IntBuffer{
		Format:         format,
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write voice file: %w", err)
	}
	return enc.Close()
}

func writeTiming(path string, timing *captions.TimingMap) error {
	data, err := json.MarshalIndent(timing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
