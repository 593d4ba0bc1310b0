package garden

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nibzard/plant-paladin/internal/config"
	"github.com/nibzard/plant-paladin/internal/state"
)

// ErrNoSuchPlant is returned when a water request names an unconfigured plant.
var ErrNoSuchPlant = errors.New("no such plant")

const secondsPerDay = 24 * 60 * 60

// DaysSince returns the whole days between the wall clocks of last and now,
// truncated toward zero. DST transitions do not move day boundaries and the
// result does not saturate for timestamps centuries apart.
func DaysSince(last, now time.Time) int64 {
	lastDay, lastClock := wallClock(last)
	nowDay, nowClock := wallClock(now)

	days := nowDay - lastDay
	switch {
	case days > 0 && nowClock < lastClock:
		days--
	case days < 0 && nowClock > lastClock:
		days++
	}
	return days
}

// wallClock splits the local calendar reading of t into a day number and the
// time elapsed since that day's midnight.
func wallClock(t time.Time) (int64, time.Duration) {
	t = t.Local()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	clock := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return midnight.Unix() / secondsPerDay, clock
}

// IsOverdue reports whether a plant watered at last needs water at now.
// The boundary is inclusive.
func IsOverdue(plant config.Plant, last state.Timestamp, now time.Time) bool {
	return DaysSince(last.Time, now) >= int64(plant.WateringInterval)
}

// Reminder names a plant that needs watering.
type Reminder struct {
	Name string
	Days int64
}

func (r Reminder) String() string {
	return fmt.Sprintf("Plant needs watering: %s (%d days since last watered)", r.Name, r.Days)
}

// Nag returns a reminder for every overdue plant, sorted by name. It reads
// st and never modifies it.
func Nag(cfg config.Config, st *state.State, now time.Time) []Reminder {
	var reminders []Reminder
	for _, name := range st.Names() {
		plant, ok := cfg.Plants[name]
		if !ok {
			continue
		}
		status := st.Plants[name]
		days := DaysSince(status.LastWatered.Time, now)
		if days >= int64(plant.WateringInterval) {
			reminders = append(reminders, Reminder{Name: name, Days: days})
		}
	}
	return reminders
}

// WaterRequest selects which plants a water command applies to. It is
// either Targeted or AllOverdue.
type WaterRequest interface {
	waterRequest()
}

// Targeted waters exactly the named plants, due or not.
type Targeted struct {
	Names []string
}

// AllOverdue waters every configured plant that is currently overdue.
type AllOverdue struct{}

func (Targeted) waterRequest()   {}
func (AllOverdue) waterRequest() {}

// Water marks plants as watered at now according to req and returns the
// sorted names it updated. For Targeted requests every name is validated
// before any update; an unknown name leaves st untouched.
func Water(cfg config.Config, st *state.State, req WaterRequest, now time.Time) ([]string, error) {
	ts := state.NewTimestamp(now)
	if st.Plants == nil {
		st.Plants = make(map[string]state.PlantStatus)
	}

	var watered []string
	switch req := req.(type) {
	case Targeted:
		for _, name := range req.Names {
			if !cfg.Has(name) {
				return nil, fmt.Errorf("%w: no plant named %q in config", ErrNoSuchPlant, name)
			}
		}
		seen := make(map[string]bool, len(req.Names))
		for _, name := range req.Names {
			st.Plants[name] = state.PlantStatus{LastWatered: ts}
			if !seen[name] {
				seen[name] = true
				watered = append(watered, name)
			}
		}
	case AllOverdue:
		for _, name := range cfg.Names() {
			status, ok := st.Plants[name]
			if !ok {
				status = state.NewPlantStatus()
			}
			if IsOverdue(cfg.Plants[name], status.LastWatered, now) {
				st.Plants[name] = state.PlantStatus{LastWatered: ts}
				watered = append(watered, name)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported water request %T", req)
	}

	sort.Strings(watered)
	return watered, nil
}
