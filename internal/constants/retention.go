//go:build !tiny

package constants

// HistoryRetention is the default number of transfer records kept per account.
const HistoryRetention = 64
