package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/plant-paladin/internal/config"
	"github.com/nibzard/plant-paladin/internal/garden"
	"github.com/nibzard/plant-paladin/internal/logging"
	"github.com/nibzard/plant-paladin/internal/plantdir"
	"github.com/nibzard/plant-paladin/internal/state"
)

// ErrDoctorFailed is returned when doctor finds at least one problem.
var ErrDoctorFailed = errors.New("doctor found problems")

// doctorCommand checks the config dir, config, state and history files
// without creating or modifying anything.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("plant-paladin doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	w := a.stdout
	fmt.Fprintln(w, "Plant Paladin Doctor")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintf(w, "Config dir: %s\n", a.dir)
	if info, err := os.Stat(a.dir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first run)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	configPath := plantdir.ConfigPath(a.dir)
	fmt.Fprintf(w, "Config file: %s\n", configPath)
	var cfg config.Config
	cfgOK := false
	if data, err := os.ReadFile(configPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (default config will be created on first run)")
			cfg = config.Default()
			cfgOK = true
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		parsed, unknown, err := config.Parse(data)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Invalid: %v\n", err)
			allOK = false
		} else {
			cfg = parsed
			cfgOK = true
			for _, key := range unknown {
				fmt.Fprintf(w, "  ⚠️  Unknown key ignored: %s\n", key)
			}
			fmt.Fprintf(w, "  ✅ Valid (%d plants)\n", len(cfg.Plants))
		}
	}
	fmt.Fprintln(w)

	statePath := plantdir.StatePath(a.dir)
	fmt.Fprintf(w, "State file: %s\n", statePath)
	st, err := state.Load(a.dir)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Invalid: %v\n", err)
		allOK = false
	default:
		if _, statErr := os.Stat(statePath); os.IsNotExist(statErr) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first water)")
		} else {
			fmt.Fprintf(w, "  ✅ Valid (%d plants)\n", len(st.Plants))
		}
		if cfgOK {
			changes := garden.Sync(cfg, st.Clone())
			if len(changes.Added) > 0 {
				fmt.Fprintf(w, "  ⚠️  Not yet tracked: %s\n", strings.Join(changes.Added, ", "))
			}
			if len(changes.Removed) > 0 {
				fmt.Fprintf(w, "  ⚠️  No longer configured: %s\n", strings.Join(changes.Removed, ", "))
			}
		}
	}
	fmt.Fprintln(w)

	historyPath := plantdir.HistoryPath(a.dir)
	fmt.Fprintf(w, "History file: %s\n", historyPath)
	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first water)")
	} else if events, err := logging.ReadHistory(historyPath, 0); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ OK (%d entries)\n", len(events))
	}
	fmt.Fprintln(w)

	if !allOK {
		fmt.Fprintln(w, "Some checks failed.")
		return ErrDoctorFailed
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
