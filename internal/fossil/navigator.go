package fossil

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/chmouel/lazyfossil/internal/models"
)

// The navigator walks the per-file branch log, which fossil emits newest
// first. The method names follow the historical front-end contract:
// PreviousRevision steps to the entry just above rev in the newest-first list
// (the chronologically later revision) and NextRevision to the entry just
// below it. Callers depend on exactly that orientation, so it is kept even
// though the names read inverted against chronological intuition.

// PreviousRevision returns the revision immediately preceding rev in the
// newest-first log of file. An empty rev means "before the beginning" and
// yields the newest entry. Empty result when file is missing, the log is
// empty, or rev never appears.
func (s *Service) PreviousRevision(ctx context.Context, file, rev string) (string, error) {
	entries, err := s.fileLog(ctx, file)
	if err != nil {
		return "", err
	}
	return pickPreviousRevision(entries, rev), nil
}

// NextRevision returns the revision immediately following rev in the
// newest-first log of file. An empty rev yields the oldest entry. Empty
// result under the same conditions as PreviousRevision.
func (s *Service) NextRevision(ctx context.Context, file, rev string) (string, error) {
	entries, err := s.fileLog(ctx, file)
	if err != nil {
		return "", err
	}
	return pickNextRevision(entries, rev), nil
}

// FileState reports the semantic state of a single file per `finfo -s`.
func (s *Service) FileState(ctx context.Context, file string) (models.FileState, error) {
	fields, err := s.fileStatusFields(ctx, file)
	if err != nil {
		return models.StateUnknown, err
	}
	if len(fields) == 0 {
		return models.StateUnregistered, nil
	}
	return translateFileStatusToken(fields[0]), nil
}

// WorkingRevision returns the revision id file is checked out at, or "" for
// unregistered files.
func (s *Service) WorkingRevision(ctx context.Context, file string) (string, error) {
	fields, err := s.fileStatusFields(ctx, file)
	if err != nil {
		return "", err
	}
	if len(fields) < 2 || strings.HasPrefix(fields[0], "unknown") {
		return "", nil
	}
	return fields[1], nil
}

// fileStatusFields runs `finfo -s` and splits its first line.
func (s *Service) fileStatusFields(ctx context.Context, file string) ([]string, error) {
	if file == "" {
		return nil, nil
	}
	raw, err := RunOrEmpty(ctx, s.inv, filepath.Dir(file), "finfo", "-s", filepath.Base(file))
	if err != nil {
		return nil, err
	}
	first, _, _ := strings.Cut(raw, "\n")
	return strings.Fields(first), nil
}

// fileLog fetches and parses the branch log for one file. Results are only
// meaningful within that file's log; comparing revisions across files is
// undefined.
func (s *Service) fileLog(ctx context.Context, file string) ([]models.RevisionLogEntry, error) {
	if file == "" {
		return nil, nil
	}
	raw, err := RunOrEmpty(ctx, s.inv, filepath.Dir(file), "finfo", "-l", "-b", filepath.Base(file))
	if err != nil {
		return nil, err
	}
	return parseRevisionLog(raw), nil
}

// parseRevisionLog splits branch-log output into entries, first token per
// line being the revision id. Emission order is preserved.
func parseRevisionLog(raw string) []models.RevisionLogEntry {
	var entries []models.RevisionLogEntry
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, models.RevisionLogEntry{Revision: fields[0], Raw: line})
	}
	return entries
}

func pickPreviousRevision(entries []models.RevisionLogEntry, rev string) string {
	if len(entries) == 0 {
		return ""
	}
	if rev == "" {
		return entries[0].Revision
	}
	seen := ""
	for _, e := range entries {
		if e.Revision == rev {
			return seen
		}
		seen = e.Revision
	}
	return ""
}

func pickNextRevision(entries []models.RevisionLogEntry, rev string) string {
	if len(entries) == 0 {
		return ""
	}
	if rev == "" {
		return entries[len(entries)-1].Revision
	}
	matched := false
	for _, e := range entries {
		if matched {
			return e.Revision
		}
		if e.Revision == rev {
			matched = true
		}
	}
	return ""
}
