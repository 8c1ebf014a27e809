package loadtest

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	ProgressInterval     = time.Second
	PercentageMultiplier = 100
)

// Export routes checked at the end of every session.
const (
	exportCSVPath  = "/export/bollywood_filtered.csv"
	exportXLSXPath = "/export/bollywood_filtered.xlsx"
)
