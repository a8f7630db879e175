// Package models defines the core domain entities for the tradeoracle application.
// These models represent daily price bars, per-ticker indicator rows, option scenarios,
// and the analysis reports that tie them together.
// All models include built-in validation to ensure data integrity throughout the application.
package models

import (
	"errors"
	"time"
)

// Bar is one daily OHLCV candle for a ticker.
type Bar struct {
	Date   time.Time `json:"date" csv:"date"`
	Open   float64   `json:"open" csv:"open"`
	High   float64   `json:"high" csv:"high"`
	Low    float64   `json:"low" csv:"low"`
	Close  float64   `json:"close" csv:"close"`
	Volume float64   `json:"volume" csv:"volume"`
}

// Validate checks that all bar fields are valid
func (b *Bar) Validate() error {
	if b.Date.IsZero() {
		return errors.New("bar date must be set")
	}
	if b.Close <= 0 {
		return errors.New("close must be positive")
	}
	if b.Open < 0 || b.High < 0 || b.Low < 0 {
		return errors.New("open, high and low must not be negative")
	}
	if b.High > 0 && b.Low > b.High {
		return errors.New("low must be <= high")
	}
	if b.Volume < 0 {
		return errors.New("volume must not be negative")
	}
	return nil
}

// Series is a ticker's bars in ascending date order.
type Series []Bar

// Closes returns the closing prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volumes in order.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent bar.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// Validate checks every bar and that dates strictly increase.
func (s Series) Validate() error {
	for i := range s {
		if err := s[i].Validate(); err != nil {
			return err
		}
		if i > 0 && !s[i].Date.After(s[i-1].Date) {
			return errors.New("bars must be in strictly ascending date order")
		}
	}
	return nil
}
