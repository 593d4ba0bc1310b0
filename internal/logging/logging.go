// Package logging provides the console logger and the JSONL watering history.
package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Water modes recorded in history.
const (
	ModeTargeted = "targeted"
	ModeAll      = "all"
)

// WaterEvent is a single history record.
type WaterEvent struct {
	Time   time.Time `json:"time"`
	Mode   string    `json:"mode"`
	Plants []string  `json:"plants"`
}

// AppendHistory appends ev as one JSON line to the file at path, creating it
// if needed.
func AppendHistory(path string, ev WaterEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal history event: %w", err)
	}
	data = append(data, '\n')

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("write history file: %w", err)
	}
	return file.Close()
}

// ReadHistory returns the last n events from path, oldest first.
// n <= 0 returns every event. A missing file yields no events.
func ReadHistory(path string, n int) ([]WaterEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	var events []WaterEvent
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var ev WaterEvent
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return nil, fmt.Errorf("parse history line %d: %w", line, err)
		}
		events = append(events, ev)
		if n > 0 && len(events) > n {
			events = events[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return events, nil
}

// TailHistory writes the last n events from path to w, one per line.
func TailHistory(w io.Writer, path string, n int) error {
	events, err := ReadHistory(path, n)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if _, err := fmt.Fprintln(w, FormatEvent(ev)); err != nil {
			return err
		}
	}
	return nil
}

// FormatEvent renders an event for humans.
func FormatEvent(ev WaterEvent) string {
	mode := ""
	if ev.Mode == ModeAll {
		mode = " (--all)"
	}
	return fmt.Sprintf("%s  watered%s: %s",
		ev.Time.Local().Format("2006-01-02 15:04"), mode, strings.Join(ev.Plants, ", "))
}
