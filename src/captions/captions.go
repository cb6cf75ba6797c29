package captions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Event is the timing of one spoken syllable token, in seconds relative to
// the start of the voice track.
type Event struct {
	TokenIndex int     `json:"token_index"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}

// TimingMap is the side file the voice synthesizer writes next to the WAV:
// the token stream plus one event per spoken syllable.
type TimingMap struct {
	Tokens    []string `json:"tokens"`
	Syllables []Event  `json:"syllables"`
}

// Cue is a subtitle window: the accumulated text shown from Start for
// Duration seconds, relative to the start of the voice track.
type Cue struct {
	Text     string
	Start    float64
	Duration float64
}

// LoadTiming reads a timing map. A missing file is not an error: the caller
// falls back to even time division.
func LoadTiming(path string) (*TimingMap, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var timing TimingMap
	if err := json.Unmarshal(data, &timing); err != nil {
		return nil, fmt.Errorf("parse timing map %s: %w", path, err)
	}
	return &timing, nil
}

// Cues builds the subtitle cue list for a narration. With a timing map the
// cues follow the recorded syllable events; without one the voice duration
// is divided evenly over the spoken tokens. Each cue stays up until the
// next one starts, the last one until totalDur.
func Cues(text string, timing *TimingMap, voiceDur float64, totalDur float64) ([]Cue, error) {
	var tokens []string
	var events []Event
	if timing != nil && len(timing.Tokens) > 0 && len(timing.Syllables) > 0 {
		tokens = timing.Tokens
		events = timing.Syllables
	} else {
		tokens = Tokenize(text)
		events = evenDivision(tokens, voiceDur)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens to caption in %q", text)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no spoken syllables to caption in %q", text)
	}

	// The box should not pop up before the first actual word.
	first := 0
	for i, ev := range events {
		if ev.TokenIndex < len(tokens) && isWord(tokens[ev.TokenIndex]) {
			first = i
			break
		}
	}

	cues := make([]Cue, 0, len(events)-first)
	for i := first; i < len(events); i++ {
		ev := events[i]
		if ev.TokenIndex >= len(tokens) {
			continue
		}
		cue := Cue{
			Text:  strings.Join(tokens[:ev.TokenIndex+1], ""),
			Start: ev.Start,
		}
		if i < len(events)-1 {
			cue.Duration = events[i+1].Start - ev.Start
		} else {
			cue.Duration = totalDur - ev.Start
		}
		if cue.Duration < 0.01 {
			cue.Duration = 0.01
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

// evenDivision spreads voiceDur evenly over the word-bearing tokens.
func evenDivision(tokens []string, voiceDur float64) []Event {
	var spoken []int
	for i, tok := range tokens {
		if isWord(tok) {
			spoken = append(spoken, i)
		}
	}
	total := len(spoken)
	events := make([]Event, 0, total)
	for step, idx := range spoken {
		events = append(events, Event{
			TokenIndex: idx,
			Start:      float64(step) / float64(total) * voiceDur,
			End:        float64(step+1) / float64(total) * voiceDur,
		})
	}
	return events
}

func isWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

const vowels = "aeiouáéíóúäëïöü"

func isVowel(r rune) bool {
	return strings.ContainsRune(vowels, unicode.ToLower(r))
}

// Tokenize splits text into syllable-like tokens while keeping spaces and
// punctuation, so that joining all tokens reproduces the input exactly.
// Punctuation attaches to the preceding syllable.
func Tokenize(text string) []string {
	var tokens []string
	var word []rune
	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, splitWord(string(word))...)
			word = word[:0]
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r):
			word = append(word, r)
		default:
			if len(word) > 0 {
				sylls := splitWord(string(word))
				sylls[len(sylls)-1] += string(r)
				tokens = append(tokens, sylls...)
				word = word[:0]
			} else if len(tokens) > 0 && !isSpaceToken(tokens[len(tokens)-1]) {
				tokens[len(tokens)-1] += string(r)
			} else {
				tokens = append(tokens, string(r))
			}
		}
	}
	flush()
	return tokens
}

func isSpaceToken(token string) bool {
	return strings.TrimSpace(token) == ""
}

// splitWord chops a word into chunks that each contain at least one vowel.
// Rough, but it gives usable syllable-sized units for timing.
func splitWord(word string) []string {
	runes := []rune(word)
	n := len(runes)
	var syllables []string
	start := 0
	i := 0
	for i < n {
		hasVowel := false
		for i < n {
			if isVowel(runes[i]) {
				hasVowel = true
			}
			i++
			if hasVowel {
				break
			}
		}
		for i < n && !isVowel(runes[i]) {
			// Swallow a consonant-only tail instead of emitting it alone.
			if allConsonants(runes[i:]) {
				i = n
				break
			}
			i++
		}
		syllables = append(syllables, string(runes[start:i]))
		start = i
	}
	if start < n {
		syllables = append(syllables, string(runes[start:n]))
	}
	if len(syllables) == 0 {
		return []string{word}
	}
	return syllables
}

func allConsonants(runes []rune) bool {
	for _, r := range runes {
		if isVowel(r) {
			return false
		}
	}
	return true
}
