package embedded

// Status is the embedded print service's readiness code. It is polled
// before committing a job and never cached across calls: paper can run out
// or another process can grab the printer between polls.
type Status int

const (
	StatusNormal   Status = 0
	StatusBusy     Status = 1
	StatusPaperOut Status = 2
	StatusError    Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "NORMAL"
	case StatusBusy:
		return "BUSY"
	case StatusPaperOut:
		return "PAPER_OUT"
	case StatusError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Retryable reports whether polling again can help. BUSY clears on its own;
// PAPER_OUT and ERROR need human intervention and fail the call immediately.
func (s Status) Retryable() bool {
	return s == StatusBusy
}
