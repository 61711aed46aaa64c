// Package config provides user configuration management for the V-ZUG tooling.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for known appliances (nicknames, base URLs,
// basic-auth usernames) and application preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/vzug/config.yaml or $HOME/.config/vzug/config.yaml
//   - macOS: $HOME/.config/vzug/config.yaml
//   - Windows: %LOCALAPPDATA%\vzug\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores device passwords. When a device
// entry carries a username, the matching password is prompted at use time.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	device := registry.EnsureDevice("fc:1b:ff:12:34:56")
//	device.Nickname = "Dishwasher"
//	device.BaseURL = "http://192.168.1.50"
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package config
