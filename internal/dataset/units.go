package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const scaleCutoff = 1000

var unitSuffixes = []string{
	" µs", // U+00B5 MICRO SIGN
	" μs", // U+03BC GREEK SMALL LETTER MU
	" ms",
}

var errNotFinite = errors.New("value is not finite")

// NormalizeValue converts one source cell to microseconds.
//
// The unit suffix is only stripped, it does not pick the scale factor:
// values below 1000 are kept and everything else is multiplied by 1000.
// "500 ms" therefore stays 500 and "1500 µs" becomes 1500000. Callers that
// re-normalize already normalized data will scale it a second time.
func NormalizeValue(cell string) (float64, error) {
	v, err := parseCell(cell)
	if err != nil {
		return 0, err
	}
	return scale(v), nil
}

func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func scale(v float64) float64 {
	if v < scaleCutoff {
		return v
	}
	return v * 1000
}
