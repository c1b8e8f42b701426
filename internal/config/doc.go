// Package config loads and validates the tracker configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. A YAML configuration file
//  3. Default values (lowest priority)
//
// The file is taken from GHO_CONFIG_FILE or the first of config.yaml,
// configs/config.yaml and ../configs/config.yaml that exists.
//
// # Environment Variables
//
// All environment variables follow the pattern GHO_<SECTION>_<FIELD>:
//
//	GHO_SERVER_PORT=8080
//	GHO_DATA_PATH=data/health_indicators_bwa.csv
//	GHO_DATA_COUNTRY=Botswana
//	GHO_TRENDS_ENABLED=false
//	GHO_LOGGING_LEVEL=debug
//
// Relative paths are resolved with ResolvePath against the working directory
// and then the executable directory.
package config
