// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Correction chart view, gnomon calendar, eclipse events in status bar
// 0.3.0 - Sun-and-moon engine with eclipse-adjusted irradiance
// 0.2.0 - Simplified position engine, clear-sky irradiance, headless modes
// 0.1.0 - Initial release: dial geometry, high-precision engine, TUI dashboard
