// Package model backs the delayed CV-binary deletion described in spec.md
// §4.8 step 7 and the re-architecture note in §9: instead of a bare
// in-process setTimeout, a cleanup_tasks row is inserted so a restart can
// rebuild the pending-deletion schedule by querying, not by scanning disk.
package model

import "time"

// CleanupTask is one scheduled deletion of a CV binary under uploads/.
type CleanupTask struct {
	ID        string
	FilePath  string
	RemindAt  time.Time
	IsDone    bool
	CreatedAt time.Time
}
