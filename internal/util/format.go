package util

import (
	"fmt"
	"math"
	"time"
)

// Accuracy 返回正确率百分比，保留一位小数（四舍五入），total 为 0 时返回 0
func Accuracy(correct, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Floor(float64(correct)*1000/float64(total)+0.5) / 10
}

// FormatDuration renders seconds the way the practice UI shows time spent:
// "1д 2ч 3м 4с", "2ч 5м 0с", "4м 10с" or "9с". Days are only used past 24 hours.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 24:
		days := hours / 24
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours%24, minutes, secs)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, secs)
	default:
		return fmt.Sprintf("%dс", secs)
	}
}

// DaysSinceJoin 向上取整的注册天数
func DaysSinceJoin(joined, now time.Time) int {
	diff := now.Sub(joined)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}
