// Package garden reconciles watering state with the configured plants and
// implements the nag and water commands.
package garden

import (
	"sort"

	"github.com/nibzard/plant-paladin/internal/config"
	"github.com/nibzard/plant-paladin/internal/state"
)

// Changes lists the plants Sync added to or removed from the state.
type Changes struct {
	Added   []string
	Removed []string
}

// Empty reports whether Sync left the key set unchanged.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Sync makes the key set of st equal to the configured plants. Entries for
// plants no longer configured are dropped; newly configured plants start as
// never watered. Existing timestamps are not touched.
func Sync(cfg config.Config, st *state.State) Changes {
	var changes Changes
	if st.Plants == nil {
		st.Plants = make(map[string]state.PlantStatus, len(cfg.Plants))
	}

	for name := range st.Plants {
		if !cfg.Has(name) {
			delete(st.Plants, name)
			changes.Removed = append(changes.Removed, name)
		}
	}
	for name := range cfg.Plants {
		if _, ok := st.Plants[name]; !ok {
			st.Plants[name] = state.NewPlantStatus()
			changes.Added = append(changes.Added, name)
		}
	}

	sort.Strings(changes.Added)
	sort.Strings(changes.Removed)
	return changes
}
