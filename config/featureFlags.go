package config

import (
	"os"
	"strings"
)

// SyncBalanceRecalc forces balance recomputation to run inline in the request
// instead of being enqueued to the background calculator. Useful for tests and
// debugging; production should leave this off.
//
// Set via env:
// - SYNC_BALANCE_RECALC=true
func SyncBalanceRecalc() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SYNC_BALANCE_RECALC")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
