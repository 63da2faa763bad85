package shared

// Task types handled by the worker.
const (
	TypeExpireStaleImports = "import:expire_stale_jobs"
)

// Queue names and their weights on the worker.
const (
	QueueCritical    = "critical"
	QueueDefault     = "default"
	QueueMaintenance = "maintenance"
)

var QueueWeights = map[string]int{
	QueueCritical:    6,
	QueueDefault:     3,
	QueueMaintenance: 1,
}
