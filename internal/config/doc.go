// Package config loads the server settings from defaults, an optional
// config.yaml, a .env file and POCKETDOC_ environment variables, and
// validates the result before anything else starts.
package config
