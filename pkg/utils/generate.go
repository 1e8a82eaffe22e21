package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderID creates the human readable confirmation code of a booking.
// Format: BOOK-YYYYMMDD-HHMMSS-NNNN
func GenerateOrderID(now time.Time) string {
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("BOOK-%s-%s-%s", datePart, timePart, randomPart)
}
