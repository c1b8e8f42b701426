// Package shared holds helpers used by more than one package of the tracker.
//
// # Structure
//
//   - testutil: log capture and GHO dataset fixtures for tests
//
// Nothing here may import a domain package; the fixtures are plain CSV text so
// that dataprocessing, services, app and the report CLI can all use them.
package shared
