package task

// Tick advances every task's countdown by tickMs (spec.md §4.C). A task
// whose remaining time would go to zero or below instead reloads to its
// full period and latches pending — if pending was already set (the
// scheduler missed a previous period, e.g. while sleeping), this is a
// coalesce, not a queue: exactly one run happens no matter how many
// periods were missed, matching spec.md's "pending is a flag, not a
// counter" rule.
//
// Returns true if at least one task became pending as a result of this
// tick, the signal the kernel uses to decide whether to wake the
// foreground loop.
func (t *Table) Tick(tickMs uint16) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	any := false
	for i := range t.statuse {
		s := &t.statuse[i]
		if s.msRemaining > tickMs {
			s.msRemaining -= tickMs
			continue
		}
		s.msRemaining = t.tasks[i].PeriodMs
		s.pending = true
		any = true
	}
	return any
}
