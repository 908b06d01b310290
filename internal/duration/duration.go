// Package duration converts ISO 8601 video durations to minutes and back
// to short human labels.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Matches designator durations like P1DT2H30M45S, PT5M30S, PT45S
var designatorPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// Minutes converts an ISO 8601 designator duration to a minute count.
// Empty, zero and unparseable input all yield 0; this never fails because
// a bad duration must not reject an otherwise good video.
func Minutes(iso string) float64 {
	if iso == "" || iso == "PT0S" || iso == "P0D" {
		return 0
	}

	m := designatorPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}

	days := atoiOrZero(m[1])
	hours := atoiOrZero(m[2])
	mins := atoiOrZero(m[3])
	secs := 0.0
	if m[4] != "" {
		secs, _ = strconv.ParseFloat(m[4], 64)
	}

	return float64(days)*24*60 + float64(hours)*60 + float64(mins) + secs/60
}

// Label formats a minute count as a short human label: "30s", "5m",
// "1h 30m" or "2h". Non-finite or negative input yields "Unknown".
func Label(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		return "Unknown"
	}

	switch {
	case minutes < 1:
		return fmt.Sprintf("%ds", int(minutes*60))
	case minutes < 60:
		return fmt.Sprintf("%dm", int(minutes))
	default:
		hours := int(minutes) / 60
		mins := int(minutes) % 60
		if mins == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
