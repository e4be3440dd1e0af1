package interfaces

import "time"

// JobStatus describes a registered scheduler job.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	Enabled     bool       `json:"enabled"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	IsRunning   bool       `json:"is_running"`
	LastError   string     `json:"last_error,omitempty"`
}

// SchedulerService runs registered jobs on cron schedules. Jobs never
// execute concurrently with each other.
type SchedulerService interface {
	RegisterJob(name, schedule, description string, handler func() error) error
	EnableJob(name string) error
	DisableJob(name string) error
	TriggerJob(name string) error
	GetJobStatus(name string) (*JobStatus, error)
	GetAllJobStatuses() map[string]*JobStatus
	Start() error
	Stop() error
	IsRunning() bool
}
