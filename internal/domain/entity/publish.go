package entity

import "time"

// Publish is one orchestration run for a site. At most one publish per site may
// be running at a time; a run is considered running while Finished is unset and
// Started lies within the staleness window.
type Publish struct {
	ID     uint64
	SiteID uint64
	PostID *uint64
	Force  bool
	Purge  bool

	Started  time.Time
	Finished *time.Time
	Success  *bool
	Message  string
}

// Running reports whether this record still blocks a new admission. Records
// older than the window are treated as crashed and no longer count, which is a
// liveness heuristic: a run may in rare cases outlive the window and overlap
// with its successor.
func (p *Publish) Running(window time.Duration) bool {
	return p.Finished == nil && time.Since(p.Started) < window
}

// Finish moves the record into its terminal state. Terminal state is written
// once and never changed afterwards.
func (p *Publish) Finish(runErr error) {
	if p.Finished != nil {
		return
	}
	now := time.Now()
	p.Finished = &now
	success := runErr == nil
	p.Success = &success
	if runErr != nil {
		p.Message = runErr.Error()
	}
}
