// Package trends looks up relative search interest (0-100) for a term over
// a fixed timeframe in one region.
//
// Client talks to the Google Trends web API in two steps: the explore call
// returns a token for the TIMESERIES widget, and the multiline call returns
// the timeline for that token. Lookup wraps any Provider with a per-term LRU
// cache and converts failures into warnings so callers can always render the
// rest of the dashboard.
package trends
