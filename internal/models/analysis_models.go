package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnalysisResult is the report produced for one batch of comments.
type AnalysisResult struct {
	SentimentPercentages SentimentPercentages `json:"sentiment_percentages"`
	Summary              string               `json:"summary"`
	KeyThemes            Themes               `json:"key_themes"`
	LengthAnalysis       LengthStats          `json:"length_analysis"`
	TopComments          TopComments          `json:"top_comments"`
	Suggestions          []string             `json:"suggestions"`
}

type SentimentPercentages struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Total is the sum of the three buckets; 100 (give or take rounding) for a non-empty batch.
func (p SentimentPercentages) Total() float64 {
	return p.Positive + p.Negative + p.Neutral
}

type LengthStats struct {
	AvgLength   float64 `json:"avg_length"`
	PositiveAvg float64 `json:"positive_avg"`
	NegativeAvg float64 `json:"negative_avg"`
	NeutralAvg  float64 `json:"neutral_avg"`
}

type TopComments struct {
	TopPositive string `json:"top_positive"`
	TopNegative string `json:"top_negative"`
}

// Theme is a frequent keyword and the sentiment split of the comments containing it.
type Theme struct {
	Keyword      string
	Distribution SentimentPercentages
}

// Themes keeps keyword order and encodes as a JSON object keyed by keyword.
type Themes []Theme

func (t Themes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, theme := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(theme.Keyword)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(theme.Distribution)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *Themes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("key_themes: expected object, got %v", tok)
	}

	themes := Themes{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("key_themes: expected string key, got %v", keyTok)
		}
		var dist SentimentPercentages
		if err := dec.Decode(&dist); err != nil {
			return fmt.Errorf("key_themes[%s]: %w", key, err)
		}
		themes = append(themes, Theme{Keyword: key, Distribution: dist})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = themes
	return nil
}

// Lookup returns the distribution for keyword.
func (t Themes) Lookup(keyword string) (SentimentPercentages, bool) {
	for _, theme := range t {
		if theme.Keyword == keyword {
			return theme.Distribution, true
		}
	}
	return SentimentPercentages{}, false
}

// Clone returns a deep copy, so cached results can be handed out safely.
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	if r.KeyThemes != nil {
		out.KeyThemes = append(Themes{}, r.KeyThemes...)
	}
	if r.Suggestions != nil {
		out.Suggestions = append([]string{}, r.Suggestions...)
	}
	return out
}
