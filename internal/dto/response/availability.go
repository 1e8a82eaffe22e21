package response

import "time"

// AvailabilityReport lists the titles each reconciliation rule changed.
type AvailabilityReport struct {
	Timestamp  time.Time `json:"timestamp"`
	Housefull  []string  `json:"housefull"`
	NowShowing []string  `json:"now_showing"`
}
