package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	PrefixOrder    = "ORD"
	PrefixRFQ      = "RFQ"
	PrefixTracking = "TRK"

	suffixLen = 6
)

var suffixMax = big.NewInt(36 * 36 * 36 * 36 * 36 * 36)

// GenerateReference builds a human-scannable number
// PREFIX-<base36 unix millis>-<random base36 suffix>, uppercased. It is
// practically unique at this scale, not collision-free.
func GenerateReference(prefix string) string {
	return generateReference(prefix, time.Now())
}

func generateReference(prefix string, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)

	n, err := rand.Int(rand.Reader, suffixMax)
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % suffixMax.Int64())
	}
	suffix := strconv.FormatInt(n.Int64(), 36)
	if len(suffix) < suffixLen {
		suffix = strings.Repeat("0", suffixLen-len(suffix)) + suffix
	}

	return strings.ToUpper(prefix + "-" + ts + "-" + suffix)
}
