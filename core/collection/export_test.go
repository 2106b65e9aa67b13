package collection

import (
	"strconv"
	"time"
)

// Freeze fixes the clock and makes ids sequential, returning a restore func.
func Freeze(now time.Time) func() {
	n := 0
	nowFunc = func() time.Time { return now }
	newIDFunc = func() string {
		n++
		return "id" + strconv.Itoa(n)
	}
	return func() {
		nowFunc = time.Now
		newIDFunc = defaultID
	}
}
