// Package config provides configuration loading, merging, and validation
// facilities for the dispatch server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Defaults are filled in for fields no source set, and the merged result is
// validated before it is returned. The main entry point is
// [GetStructuredConfig]; [Load] takes the flag arguments explicitly.
package config
