package config

import "time"

// Application defaults
const (
	AppName = "GHO Health Indicators Tracker"

	// Dataset
	DefaultDataPath = "data/health_indicators_bwa.csv"
	DefaultCountry  = "Botswana"
	DefaultGeo      = "BW"

	// Rate limiting for the HTTP API
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100

	// Search-interest lookup
	DefaultTrendsBaseURL   = "https://trends.google.com"
	DefaultTrendsLanguage  = "en-US"
	DefaultTrendsTZOffset  = 120
	DefaultTrendsTimeframe = "2018-01-01 2025-12-31"
	DefaultTrendsTimeout   = 20 * time.Second
	DefaultTrendsCacheSize = 256
	DefaultTrendsRPS       = 0.5
	DefaultUserAgent       = "Mozilla/5.0 (X11; Linux x86_64) ghotracker/0.3"

	// Logging
	DefaultLogFile = "logs/app.log"
)
