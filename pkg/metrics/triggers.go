package metrics

import "sync/atomic"

// TriggerCounts is a snapshot of trigger outcomes.
type TriggerCounts struct {
	Answered int64 `json:"answered"`
	Empty    int64 `json:"empty"`
	Missed   int64 `json:"missed"`
	Failed   int64 `json:"failed"`
}

// Total sums every outcome.
func (c TriggerCounts) Total() int64 {
	return c.Answered + c.Empty + c.Missed + c.Failed
}

// IsZero reports whether no trigger was recorded.
func (c TriggerCounts) IsZero() bool {
	return c.Total() == 0
}

// Triggers counts lookup trigger outcomes. The zero value is ready to use.
type Triggers struct {
	answered atomic.Int64
	empty    atomic.Int64
	missed   atomic.Int64
	failed   atomic.Int64
}

func (t *Triggers) Answered() { t.answered.Add(1) }
func (t *Triggers) Empty()    { t.empty.Add(1) }
func (t *Triggers) Missed()   { t.missed.Add(1) }
func (t *Triggers) Failed()   { t.failed.Add(1) }

// Snapshot returns the current counts.
func (t *Triggers) Snapshot() TriggerCounts {
	return TriggerCounts{
		Answered: t.answered.Load(),
		Empty:    t.empty.Load(),
		Missed:   t.missed.Load(),
		Failed:   t.failed.Load(),
	}
}
