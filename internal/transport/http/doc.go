// Package http implements the HTTP handlers for the health indicators dashboard.
// Handlers stay thin: they parse and validate query parameters, call the
// dashboard service and render JSON, HTML, CSV, XLSX or PNG responses.
//
// # Routes
//
//	GET /                              dashboard page
//	GET /api/indicators?q=             indicator list, fuzzy filtered
//	GET /api/indicators/options        breakdowns and year bounds
//	GET /api/selection/default         the reset selection
//	GET /api/trend                     trend view for a selection
//	GET /api/trend/export?format=      csv or xlsx download
//	GET /api/trend/chart.png           trend line chart
//	GET /api/search-interest           Google Trends interest
//	GET /api/search-interest/chart.png interest line chart
//	GET /api/health[/ready|/live]      health probes
//	GET /metrics                       Prometheus scrape endpoint
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/dataset-unavailable",
//	    "title": "Service Unavailable",
//	    "status": 503,
//	    "detail": "Could not read data file at 'data/botswana.csv': ...",
//	    "instance": "/api/trend"
//	}
//
// A search interest lookup that fails is not an error: the response carries a
// warning and an empty series.
package http
