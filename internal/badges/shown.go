package badges

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cinequest/cinequest-go/internal/types"
)

// ShownTracker remembers which badge unlocks have already been announced
// to a user, so the same unlock notification never fires twice. State is a
// per-user JSON file of badge names, a client-side convenience only.
type ShownTracker struct {
	mu  sync.Mutex
	dir string
}

// NewShownTracker stores per-user shown lists under dir. An empty dir
// defaults to cinequest/shown under the user config dir.
func NewShownTracker(dir string) (*ShownTracker, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "cinequest", "shown")
	}
	return &ShownTracker{dir: dir}, nil
}

func (t *ShownTracker) path(userID string) string {
	return filepath.Join(t.dir, userID+".json")
}

func (t *ShownTracker) load(userID string) map[string]bool {
	shown := make(map[string]bool)
	data, err := os.ReadFile(t.path(userID))
	if err != nil {
		return shown
	}
	var names []string
	if json.Unmarshal(data, &names) != nil {
		return shown
	}
	for _, n := range names {
		shown[n] = true
	}
	return shown
}

// Unseen filters a user's unlocked badges down to the ones not yet shown.
func (t *ShownTracker) Unseen(userID string, unlocked []types.Badge) []types.Badge {
	t.mu.Lock()
	defer t.mu.Unlock()
	shown := t.load(userID)
	var out []types.Badge
	for _, b := range unlocked {
		if !shown[b.BadgeName] {
			out = append(out, b)
		}
	}
	return out
}

// MarkShown records badge names as announced. Already-marked names are
// kept; the write is atomic per file.
func (t *ShownTracker) MarkShown(userID string, badgeNames ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	shown := t.load(userID)
	for _, n := range badgeNames {
		shown[n] = true
	}
	names := make([]string, 0, len(shown))
	for n := range shown {
		names = append(names, n)
	}
	if err := os.MkdirAll(t.dir, 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	tmp := t.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, t.path(userID))
}
