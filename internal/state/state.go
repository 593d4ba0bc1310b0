// Package state loads and saves the automatically maintained watering state.
package state

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/plant-paladin/internal/plantdir"
)

// ErrInvalidState is wrapped by every state parse failure.
var ErrInvalidState = errors.New("invalid state")

// PlantStatus is the recorded status of a single plant.
type PlantStatus struct {
	LastWatered Timestamp `toml:"last_watered"`
}

// NewPlantStatus returns a status for a plant that was never watered.
func NewPlantStatus() PlantStatus {
	return PlantStatus{LastWatered: NeverWatered}
}

// State maps plant names to their status.
type State struct {
	Plants map[string]PlantStatus `toml:"plants"`
}

// New returns an empty state.
func New() *State {
	return &State{Plants: make(map[string]PlantStatus)}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := &State{Plants: make(map[string]PlantStatus, len(s.Plants))}
	for name, status := range s.Plants {
		c.Plants[name] = status
	}
	return c
}

// Names returns the plant names in sorted order.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.Plants))
	for name := range s.Plants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode renders s as a TOML document.
func (s *State) Encode() ([]byte, error) {
	var buf bytes.Buffer
	doc := s
	if doc.Plants == nil {
		doc = New()
	}
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a state document.
func Parse(data []byte) (*State, error) {
	st := New()
	if _, err := toml.Decode(string(data), st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if st.Plants == nil {
		st.Plants = make(map[string]PlantStatus)
	}
	for name, status := range st.Plants {
		if status.LastWatered.IsZero() {
			st.Plants[name] = NewPlantStatus()
		}
	}
	return st, nil
}

// Load reads state.toml from dir. A missing file yields an empty state.
func Load(dir string) (*State, error) {
	path := plantdir.StatePath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}

	st, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize %s: %w", path, err)
	}
	return st, nil
}

// Save overwrites state.toml in dir with s.
func Save(dir string, s *State) error {
	path := plantdir.StatePath(dir)
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state %s: %w", path, err)
	}
	return nil
}
