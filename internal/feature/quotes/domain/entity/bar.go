// Package entity defines the domain models for the quotes feature.
package entity

import "time"

// Bar represents one OHLCV (Open, High, Low, Close, Volume) price bar.
// Series of bars are ordered ascending by Time with no duplicates.
type Bar struct {
	Time   time.Time `json:"time"`   // Start of the bar period (calendar day or intraday timestamp)
	Open   float64   `json:"open"`   // Opening price
	High   float64   `json:"high"`   // Highest price during this period
	Low    float64   `json:"low"`    // Lowest price during this period
	Close  float64   `json:"close"`  // Closing price
	Volume float64   `json:"volume"` // Trading volume
}
