// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the data pipeline so that handlers
// only translate requests and errors.
//
// # Available Services
//
//   - DashboardService: resolves selections, builds trend views, exports
//     tables and charts, and fetches search interest
//   - HealthService: liveness, readiness (dataset loaded) and version
//
// # Error Handling
//
// Services return sentinel errors that handlers map to status codes:
//
//   - ErrDatasetUnavailable (via *DatasetError) when the dataset cannot be served
//   - ErrNoData when a selection matches no rows
//   - ErrUnknownIndicator for indicator names not in the dataset
//
// Search-interest failures are never returned as errors. They arrive as a
// warning on an empty result.
//
// # Testing
//
// Services are tested by mocking their collaborators:
//
//	loader := new(MockDatasetLoader)
//	loader.On("Load", mock.Anything, "data.csv").Return(dataset, nil)
//	svc := NewDashboardService(loader, nil, DashboardConfig{DataPath: "data.csv"}, nil, logger)
package services
