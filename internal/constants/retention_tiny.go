//go:build tiny

package constants

// Small retention window so eviction is exercised by short scenarios.
const HistoryRetention = 4
