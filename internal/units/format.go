package units

import (
	"fmt"
	"math"
	"strconv"
)

// FormatDuration renders a span in seconds for summaries:
// "50 seconds", "02:05.80 (MM:SS.ss)" or "01:01:01.20 (HH:MM:SS.ss)".
func FormatDuration(sec float64) string {
	switch {
	case sec < 60:
		return strconv.FormatFloat(sec, 'f', -1, 64) + " seconds"
	case sec < 3600:
		minutes := int(sec / 60)
		rem := round2(sec - float64(minutes)*60)
		return fmt.Sprintf("%02d:%05.2f (MM:SS.ss)", minutes, rem)
	default:
		hours := int(sec / 3600)
		minutes := int(sec/60) % 60
		rem := round2(sec - float64(int(sec/60))*60)
		return fmt.Sprintf("%02d:%02d:%05.2f (HH:MM:SS.ss)", hours, minutes, rem)
	}
}

// FormatDistance renders feet below one mile and miles above it.
func FormatDistance(ft float64) string {
	if ft < FeetPerMile {
		return strconv.FormatFloat(round2(ft), 'f', -1, 64) + " feet"
	}
	return strconv.FormatFloat(round2(ft/FeetPerMile), 'f', -1, 64) + " miles"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
