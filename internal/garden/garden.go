package garden

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/plant-paladin/internal/config"
	"github.com/nibzard/plant-paladin/internal/logging"
	"github.com/nibzard/plant-paladin/internal/plantdir"
	"github.com/nibzard/plant-paladin/internal/state"
)

// Garden is one invocation's view of the plant directory: the loaded config
// and the state reconciled against it.
type Garden struct {
	Dir     string
	Config  config.Config
	State   *state.State
	Changes Changes

	logger *log.Logger
}

// Open loads config and state from dir and reconciles them.
func Open(dir string, logger *log.Logger) (*Garden, error) {
	cfg, err := config.Load(dir, logger)
	if err != nil {
		return nil, err
	}
	st, err := state.Load(dir)
	if err != nil {
		return nil, err
	}

	changes := Sync(cfg, st)
	if len(changes.Added) > 0 {
		logger.Debug("tracking new plants", "plants", changes.Added)
	}
	if len(changes.Removed) > 0 {
		logger.Debug("dropping removed plants", "plants", changes.Removed)
	}

	return &Garden{
		Dir:     dir,
		Config:  cfg,
		State:   st,
		Changes: changes,
		logger:  logger,
	}, nil
}

// Nag returns the overdue plants at now.
func (g *Garden) Nag(now time.Time) []Reminder {
	return Nag(g.Config, g.State, now)
}

// Water applies req at now, saves the state and records the watering in the
// history file. g.State is only replaced once the save succeeds, so a
// rejected request or a failed save leaves it unchanged.
func (g *Garden) Water(req WaterRequest, now time.Time) ([]string, error) {
	next := g.State.Clone()
	watered, err := Water(g.Config, next, req, now)
	if err != nil {
		return nil, err
	}
	if err := state.Save(g.Dir, next); err != nil {
		return nil, err
	}
	g.State = next
	g.logger.Debug("saved state", "path", plantdir.StatePath(g.Dir), "watered", watered)

	if len(watered) > 0 {
		ev := logging.WaterEvent{
			Time:   state.NewTimestamp(now).Time,
			Mode:   modeOf(req),
			Plants: watered,
		}
		if err := logging.AppendHistory(plantdir.HistoryPath(g.Dir), ev); err != nil {
			g.logger.Warn("could not record watering history", "err", err)
		}
	}
	return watered, nil
}

// Reload re-reads config and state from disk.
func (g *Garden) Reload() error {
	fresh, err := Open(g.Dir, g.logger)
	if err != nil {
		return err
	}
	*g = *fresh
	return nil
}

// PlantInfo describes one configured plant at a point in time.
type PlantInfo struct {
	Name             string
	WateringInterval int
	LastWatered      state.Timestamp
	Days             int64
	Overdue          bool
}

// Never reports whether the plant has no recorded watering.
func (p PlantInfo) Never() bool {
	return p.LastWatered.IsNever()
}

// DueIn returns the days left until the plant is overdue, or 0 if it already is.
func (p PlantInfo) DueIn() int64 {
	if p.Overdue {
		return 0
	}
	return int64(p.WateringInterval) - p.Days
}

// Plants returns every configured plant sorted by name.
func (g *Garden) Plants(now time.Time) []PlantInfo {
	return Plants(g.Config, g.State, now)
}

// Plants describes every configured plant at now, sorted by name.
func Plants(cfg config.Config, st *state.State, now time.Time) []PlantInfo {
	names := cfg.Names()
	infos := make([]PlantInfo, 0, len(names))
	for _, name := range names {
		plant := cfg.Plants[name]
		status, ok := st.Plants[name]
		if !ok {
			status = state.NewPlantStatus()
		}
		infos = append(infos, PlantInfo{
			Name:             name,
			WateringInterval: plant.WateringInterval,
			LastWatered:      status.LastWatered,
			Days:             DaysSince(status.LastWatered.Time, now),
			Overdue:          IsOverdue(plant, status.LastWatered, now),
		})
	}
	return infos
}

func modeOf(req WaterRequest) string {
	switch req.(type) {
	case AllOverdue:
		return logging.ModeAll
	case Targeted:
		return logging.ModeTargeted
	default:
		return fmt.Sprintf("%T", req)
	}
}
