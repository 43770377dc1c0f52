package fossil

import (
	"strings"

	"github.com/chmouel/lazyfossil/internal/models"
)

// TranslateStatus maps a raw fossil status token to its semantic file state.
// Pure function, case-sensitive, total: the empty token means the file is not
// registered and anything outside the table degrades to StateUnknown so that
// new fossil vocabulary never turns into a hard failure.
//
// The table is deliberately lossy: fossil's CONFLICT collapses into edited,
// and the pending ADD/UPDATE pair both land on needs-update while ADDED maps
// to added. Front-end callers rely on exactly this collapse.
func TranslateStatus(token string) models.FileState {
	switch token {
	case "", "UNKNOWN":
		return models.StateUnregistered
	case "UNCHANGED":
		return models.StateUpToDate
	case "CONFLICT":
		return models.StateEdited
	case "ADDED":
		return models.StateAdded
	case "ADD":
		return models.StateNeedsUpdate
	case "EDITED":
		return models.StateEdited
	case "REMOVE":
		return models.StateRemoved
	case "UPDATE":
		return models.StateNeedsUpdate
	case "MERGE":
		return models.StateNeedsMerge
	default:
		return models.StateUnknown
	}
}

// translateFileStatusToken normalizes the lowercase vocabulary of
// `finfo -s` onto the same table used for `update -n -v` tokens.
func translateFileStatusToken(token string) models.FileState {
	if strings.HasPrefix(token, "unknown") {
		return models.StateUnregistered
	}
	return TranslateStatus(strings.ToUpper(token))
}
