package trainer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SecondsToHHMMSS renders a second count as HH:MM:SS, rounding to the
// nearest whole second. Negative input is treated as zero.
func SecondsToHHMMSS(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// HHMMSSToSeconds parses an HH:MM:SS string into a second count. Units are
// assigned from the front, so a two-part value like "12:34" reads as hours
// and minutes. The empty string parses as zero.
func HHMMSSToSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parse duration %q: too many parts", s)
	}
	units := []int{3600, 60, 1}
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", s, err)
		}
		total += n * units[i]
	}
	return total, nil
}
