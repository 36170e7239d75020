package router

import "database/sql"

// InfoResponse is returned by /info/ of the evaluation worker.
type InfoResponse struct {
	Build    BuildInfo    `json:"build"`
	Worker   WorkerInfo   `json:"worker"`
	Runtime  RuntimeInfo  `json:"runtime"`
	Database DatabaseInfo `json:"database"`
	Broker   BrokerInfo   `json:"broker"`
}

type BuildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
}

// WorkerInfo tells which of the replicas runs the periodic pre-existing sync.
type WorkerInfo struct {
	PID           int    `json:"pid"`
	Hostname      string `json:"hostname,omitempty"`
	UptimeSeconds int    `json:"uptimeSeconds"`
	Leader        bool   `json:"leader"`
}

type RuntimeInfo struct {
	GoVersion     string `json:"goVersion,omitempty"`
	NumGoroutines int    `json:"numGoroutines,omitempty"`
	HeapAlloc     uint64 `json:"heapAlloc"`
	Sys           uint64 `json:"sys"`
}

// DatabaseInfo describes db connectivity and the migration state
type DatabaseInfo struct {
	sql.DBStats
	Status string  `json:"status"`
	Error  *string `json:"error,omitempty"`

	MigrationVersion *uint   `json:"migrationVersion,omitempty"`
	MigrationDirty   *bool   `json:"migrationDirty,omitempty"`
	MigrationError   *string `json:"migrationError,omitempty"`
}

type BrokerInfo struct {
	Healthy       bool     `json:"healthy"`
	ActiveTopics  []string `json:"activeTopics"`
	MissingTopics []string `json:"missingTopics"`
}
