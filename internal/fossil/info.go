package fossil

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chmouel/lazyfossil/internal/models"
)

// `fossil info` output is a stable contract of the tool; a missing field here
// is a hard failure for the call since there is no partial-result fallback.
var (
	checkoutRE  = regexp.MustCompile(`(?m)^checkout:\s+([0-9a-fA-F]+)\s+(.+?)\s+UTC`)
	tagsRE      = regexp.MustCompile(`(?m)^tags:\s+(.*)`)
	localRootRE = regexp.MustCompile(`(?m)^local-root:\s+(.*)`)
)

const checkoutTimeLayout = "2006-01-02 15:04:05"

// shortIDLen is the short-id convention used for checkout hashes.
const shortIDLen = 9

// Info runs `fossil info` in dir and extracts the checkout id, checkout time,
// and tags. Nothing is cached across calls because the working checkout can
// change between them.
func (s *Service) Info(ctx context.Context, dir string) (models.RepoInfo, error) {
	raw, err := RunOrEmpty(ctx, s.inv, dir, "info")
	if err != nil {
		return models.RepoInfo{}, err
	}

	m := checkoutRE.FindStringSubmatch(raw)
	if m == nil {
		return models.RepoInfo{}, fmt.Errorf("%w: no checkout line in info output", ErrParseMismatch)
	}
	ts, err := time.ParseInLocation(checkoutTimeLayout, strings.TrimSpace(m[2]), time.UTC)
	if err != nil {
		return models.RepoInfo{}, fmt.Errorf("%w: checkout timestamp %q: %v", ErrParseMismatch, m[2], err)
	}

	tm := tagsRE.FindStringSubmatch(raw)
	if tm == nil {
		return models.RepoInfo{}, fmt.Errorf("%w: no tags line in info output", ErrParseMismatch)
	}

	info := models.RepoInfo{
		CheckoutID:   m[1],
		CheckoutTime: ts,
		Tags:         strings.TrimSpace(tm[1]),
	}
	if rm := localRootRE.FindStringSubmatch(raw); rm != nil {
		info.LocalRoot = filepath.Clean(strings.TrimSpace(rm[1]))
	}
	return info, nil
}

// CheckoutID returns the short id of the revision dir is checked out at.
func (s *Service) CheckoutID(ctx context.Context, dir string) (string, error) {
	info, err := s.Info(ctx, dir)
	if err != nil {
		return "", err
	}
	id := info.CheckoutID
	if len(id) > shortIDLen {
		id = id[:shortIDLen]
	}
	return id, nil
}

// LocalRoot returns the absolute checkout root for dir, used to re-root the
// repository-relative paths fossil reports.
func (s *Service) LocalRoot(ctx context.Context, dir string) (string, error) {
	raw, err := RunOrEmpty(ctx, s.inv, dir, "info")
	if err != nil {
		return "", err
	}
	m := localRootRE.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("%w: no local-root line in info output", ErrParseMismatch)
	}
	return filepath.Clean(strings.TrimSpace(m[1])), nil
}
