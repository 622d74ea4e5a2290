package worker

// Task type constants
const (
	TaskScanAlerts = "alerts:scan"
)
