package services

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const trackingPrefix = "CC"

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTrackingID builds the human-facing issue identifier: a fixed
// prefix, the creation timestamp in base36, and a random disambiguator.
// Two reports created in the same millisecond still differ with
// probability 1 - 36^-5.
func GenerateTrackingID() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = trackingAlphabet[rand.Intn(len(trackingAlphabet))]
	}

	return trackingPrefix + "-" + ts + "-" + string(suffix)
}
