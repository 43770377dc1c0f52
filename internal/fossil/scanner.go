package fossil

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/chmouel/lazyfossil/internal/models"
)

type changedFile struct {
	code string
	path string // repository-root-relative, as fossil reports it
}

// Scan returns the status of every file under dir, tracked and untracked,
// relative to dir. A nil or empty files slice means the whole directory;
// scoping to specific files requires naming them.
//
// Tracked results come first in emission order, then untracked ones. A file
// showing up in both listings is a contract violation of the tool and is kept
// twice rather than deduplicated.
func (s *Service) Scan(ctx context.Context, dir string, files []string) ([]models.FileStatus, error) {
	root, err := s.LocalRoot(ctx, dir)
	if err != nil {
		return nil, err
	}

	args := append([]string{"update", "-n", "-v", "current"}, files...)
	changedRaw, err := RunOrEmpty(ctx, s.inv, dir, args...)
	if err != nil {
		return nil, err
	}

	result := []models.FileStatus{}
	for _, cf := range parseChangedFiles(changedRaw) {
		result = append(result, models.FileStatus{
			Path:  rerootPath(root, dir, cf.path),
			State: TranslateStatus(cf.code),
		})
	}

	args = append([]string{"extras", "--dotfiles"}, files...)
	extrasRaw, err := RunOrEmpty(ctx, s.inv, dir, args...)
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(extrasRaw, "\n") {
		path := strings.TrimSpace(line)
		if path == "" {
			continue
		}
		result = append(result, models.FileStatus{
			Path:  rerootPath(root, dir, path),
			State: TranslateStatus(""),
		})
	}

	return result, nil
}

// parseChangedFiles parses `update -n -v current` output. Each line carries a
// status token, one delimiting space, and a repository-relative path. A token
// containing a dash run is the section separator and ends the file listing.
func parseChangedFiles(raw string) []changedFile {
	var out []changedFile
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		code, rest, _ := strings.Cut(line, " ")
		if strings.Contains(code, "---") {
			break
		}
		path := strings.TrimLeft(rest, " ")
		if path == "" {
			continue
		}
		out = append(out, changedFile{code: code, path: path})
	}
	return out
}

// rerootPath turns a repository-root-relative path into one relative to dir,
// the directory the caller asked about.
func rerootPath(root, dir, repoRel string) string {
	abs := filepath.Join(root, repoRel)
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return repoRel
	}
	return rel
}
