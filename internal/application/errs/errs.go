package errs

import "fmt"

// AlreadyRunningError rejects a publish admission because one is in flight for
// the same site. Callers may treat it as "poll the running record" rather than
// a hard failure.
type AlreadyRunningError struct {
	SiteURN string
}

func (e AlreadyRunningError) Error() string {
	return fmt.Sprintf("publish is already running for site %v", e.SiteURN)
}

// EngineNotFoundError means the site references an engine id that was never
// registered at startup.
type EngineNotFoundError struct {
	Engine string
}

func (e EngineNotFoundError) Error() string {
	return fmt.Sprintf("no render engine registered under %q", e.Engine)
}

// DeployerNotFoundError means the site references a deployer id that was never
// registered at startup.
type DeployerNotFoundError struct {
	Deployer string
}

func (e DeployerNotFoundError) Error() string {
	return fmt.Sprintf("no deployer registered under %q", e.Deployer)
}

// RenderError wraps any failure while producing source or output files.
type RenderError struct {
	Err error
}

func (e RenderError) Error() string {
	return fmt.Sprintf("render failed: %v", e.Err)
}

func (e RenderError) Unwrap() error { return e.Err }

// DeployError wraps any failure while syncing output to its destination.
type DeployError struct {
	Err error
}

func (e DeployError) Error() string {
	return fmt.Sprintf("deploy failed: %v", e.Err)
}

func (e DeployError) Unwrap() error { return e.Err }

// StaleEditError rejects a content save whose base revision is older than the
// persisted one.
type StaleEditError struct {
	Slug string
}

func (e StaleEditError) Error() string {
	return fmt.Sprintf("content %q was changed by someone else, reload and edit again", e.Slug)
}

// PermissionError rejects a content write by a user who is neither the site
// admin nor staff.
type PermissionError struct {
	SiteURN string
}

func (e PermissionError) Error() string {
	return fmt.Sprintf("no edit rights on site %v", e.SiteURN)
}
