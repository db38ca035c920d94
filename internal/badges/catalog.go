// Package badges holds the fixed achievement catalog the client renders
// locked/unlocked state against, plus the per-user bookkeeping of which
// unlock notifications have already been shown.
package badges

import (
	"github.com/cinequest/cinequest-go/internal/types"
)

// CatalogEntry is one possible badge and the cumulative activity count
// that unlocks it.
type CatalogEntry struct {
	BadgeName   string
	BadgeType   types.BadgeType
	BadgeLevel  types.BadgeLevel
	Description string
	Threshold   int64
}

// Catalog lists every badge the backend can award, in ascending threshold
// order per type. The backend computes unlocks; this table only drives the
// locked/unlocked display.
var Catalog = []CatalogEntry{
	{"Sign Novice", types.BadgeTypeSign, types.BadgeLevelBronze, "Signed in 1 day", 1},
	{"Sign Regular", types.BadgeTypeSign, types.BadgeLevelSilver, "Signed in 10 days", 10},
	{"Sign Master", types.BadgeTypeSign, types.BadgeLevelGold, "Signed in 50 days", 50},
	{"Sign God", types.BadgeTypeSign, types.BadgeLevelPlatinum, "Signed in 100 days", 100},
	{"Commentator", types.BadgeTypeRating, types.BadgeLevelBronze, "Posted 1 rating", 1},
	{"Critic", types.BadgeTypeRating, types.BadgeLevelSilver, "Posted 10 ratings", 10},
	{"Opinion Leader", types.BadgeTypeRating, types.BadgeLevelGold, "Posted 50 ratings", 50},
}

// Status pairs a catalog entry with its unlock state for one user.
type Status struct {
	CatalogEntry
	Unlocked bool
	Badge    *types.Badge // backend record when unlocked
}

// Merge overlays a user's unlocked badges onto the catalog. Every catalog
// entry appears exactly once; unlocked entries carry the backend record
// (with EarnedAt), locked ones do not.
func Merge(unlocked []types.Badge) []Status {
	byName := make(map[string]*types.Badge, len(unlocked))
	for i := range unlocked {
		byName[unlocked[i].BadgeName] = &unlocked[i]
	}
	out := make([]Status, 0, len(Catalog))
	for _, entry := range Catalog {
		s := Status{CatalogEntry: entry}
		if b, ok := byName[entry.BadgeName]; ok {
			s.Unlocked = true
			s.Badge = b
		}
		out = append(out, s)
	}
	return out
}
