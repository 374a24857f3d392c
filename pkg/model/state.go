package model

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Update is a set of new values for one packet category.
type Update map[string]any

// State is the telemetry record shared by the ingestion loop and the
// broadcaster. Values are replaced on merge, never mutated in place, so a
// snapshot may share slices with the state.
type State struct {
	mu     sync.RWMutex
	keys   map[string]Category
	values map[string]any
}

func NewState() *State {
	return &State{
		keys:   Keys(),
		values: defaults(),
	}
}

// Merge overwrites the declared keys present in u and leaves every other key
// untouched. Undeclared keys are skipped and returned.
func (s *State) Merge(u Update) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ignored []string
	for k, v := range u {
		if _, ok := s.keys[k]; !ok {
			ignored = append(ignored, k)
			continue
		}
		s.values[k] = v
	}
	sort.Strings(ignored)
	return ignored
}

func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *State) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]any, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return snapshot
}

// Table renders the current values grouped by category, own car next to the
// car ahead.
func (s *State) Table() string {
	snapshot := s.Snapshot()

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Category", "Metric", "Player", "Ahead"})
	for _, k := range declared {
		ahead := "-"
		if k.Mirrored {
			ahead = fmt.Sprint(snapshot[Ahead(k.Name)])
		}
		t.AppendRow(table.Row{k.Category, k.Name, fmt.Sprint(snapshot[k.Name]), ahead})
	}
	t.Render()
	return b.String()
}
