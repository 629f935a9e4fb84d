package trigger

import "time"

// Status summarises the most recent run for readiness reporting.
type Status struct {
	Runs        int       `json:"runs"`
	LastRunAt   time.Time `json:"lastRunAt,omitempty"`
	LastOutcome Outcome   `json:"lastOutcome,omitempty"`
	LastGameID  string    `json:"lastGameId,omitempty"`
	LastRunID   string    `json:"lastRunId,omitempty"`
}

func (c *Controller) remember(res Result, at time.Time) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.last = res
	c.lastAt = at
	c.runs++
}

// Status returns a snapshot of the last run.
func (c *Controller) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	if c.runs == 0 {
		return Status{}
	}
	return Status{
		Runs:        c.runs,
		LastRunAt:   c.lastAt,
		LastOutcome: c.last.Outcome,
		LastGameID:  c.last.GameID,
		LastRunID:   c.last.RunID,
	}
}
