// Package confloader loads layered configuration for the syncx tools.
//
// It wraps koanf. Sources are merged in order, later ones winning:
//
//  1. Defaults supplied by the caller
//  2. A YAML configuration file
//  3. Environment variables (SYNCX_BENCH_ prefix by default)
//  4. Command-line flags, passed in as a map
//
// Watcher reports writes to the configuration file so long-running
// commands can reload it.
package confloader
