// Package models defines the data objects shared across lazyfossil packages.
package models

import "time"

// FileState is the semantic state of a checkout file as understood by the
// front-end. The set is closed: every raw fossil status token maps to exactly
// one member, falling back to StateUnknown for vocabulary we do not know.
type FileState string

const (
	// StateUnregistered marks files fossil does not track.
	StateUnregistered FileState = "unregistered"
	// StateUpToDate marks tracked files with no local changes.
	StateUpToDate FileState = "up-to-date"
	// StateEdited marks locally modified files, including conflicted ones.
	StateEdited FileState = "edited"
	// StateAdded marks files scheduled for addition in the next commit.
	StateAdded FileState = "added"
	// StateNeedsUpdate marks files a pending add or update would change.
	StateNeedsUpdate FileState = "needs-update"
	// StateRemoved marks files scheduled for removal.
	StateRemoved FileState = "removed"
	// StateNeedsMerge marks files with an outstanding merge.
	StateNeedsMerge FileState = "needs-merge"
	// StateUnknown is the forward-compatible fallback for new fossil vocabulary.
	StateUnknown FileState = "unknown"
)

// FileStatus pairs a file path with its semantic state. Paths are relative to
// the directory a scan was asked about, not to the repository root. A scan
// result is immutable; the next scan supersedes it.
type FileStatus struct {
	Path  string
	State FileState
}

// RevisionLogEntry is one line of a per-file branch log. Entries keep the
// emission order of the tool, newest first.
type RevisionLogEntry struct {
	Revision string // opaque id, hash or tag; compared by exact string match
	Raw      string // the full log line as emitted
}

// RepoInfo captures the fields extracted from `fossil info`. It is derived
// fresh on every query because the working checkout can change between calls.
type RepoInfo struct {
	CheckoutID   string // full checkout hash
	CheckoutTime time.Time
	Tags         string
	LocalRoot    string // absolute path of the checkout root
}

// Result is the normalized outcome of one fossil invocation.
type Result struct {
	ExitOK bool // exit code matched the expected status
	Output string
}
