package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// keyPrefix namespaces all engine entries in the shared Redis instance.
const keyPrefix = "lifelens"

// Computation kinds used as key segments.
const (
	KindCorrelationScan = "correlations"
	KindTrendScan       = "trends"
	KindAnomalyScan     = "anomalies"
	KindForecast        = "forecast"
	KindDashboard       = "dashboard"
	KindWidget          = "widget"
)

// Key builds a deterministic cache key from everything that affects the
// result: the user, the computation kind, and a digest of all remaining
// parameters (metric names, date window, thresholds). Identical inputs
// always map to the same key.
func Key(kind, userID string, params ...string) string {
	digest := sha256.Sum256([]byte(strings.Join(params, "|")))
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, kind, userID, hex.EncodeToString(digest[:])[:16])
}
