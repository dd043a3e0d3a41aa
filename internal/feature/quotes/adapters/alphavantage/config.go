// Package alphavantage provides a client for the Alpha Vantage stock quote API.
package alphavantage

import "time"

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey  string        // API key for authentication; injected from configuration, never hard-coded
	BaseURL string        // Base URL for the API (e.g., "https://www.alphavantage.co")
	Timeout time.Duration // HTTP request timeout
}
