package relay

// Status is the visible state of a screen.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusSaving   Status = "saving"
	StatusDone     Status = "done"
	StatusChecking Status = "checking"
	StatusLoading  Status = "loading"
	StatusOK       Status = "ok"
	StatusError    Status = "error"
)
