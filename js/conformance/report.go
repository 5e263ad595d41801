package conformance

import "time"

// Status is the outcome of running a fixture in one mode.
type Status uint8

// The fixture outcomes.
const (
	Passed Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the outcome of running a fixture in one mode.
type Result struct {
	Name     string
	Strict   bool
	Status   Status
	Reason   string
	Duration time.Duration
}

// Report collects the results of a run.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Count returns the number of results with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the failed results, in order.
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == Failed {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether nothing failed.
func (r *Report) OK() bool {
	return r.Count(Failed) == 0
}
