package resolver

import "time"

// Statistics is a read-only view of the registry.
type Statistics struct {
	Root             string         `json:"root"`
	LogicalMappings  int            `json:"logical_mappings"`
	Built            bool           `json:"built"`
	Collisions       int            `json:"collisions"`
	CollisionDetails []Collision    `json:"collision_details,omitempty"`
	FilesScanned     int            `json:"files_scanned"`
	Kinds            map[string]int `json:"kinds,omitempty"`
	BuildID          string         `json:"build_id,omitempty"`
	BuildDuration    time.Duration  `json:"build_duration_ns,omitempty"`
	BuiltAt          *time.Time     `json:"built_at,omitempty"`
	LastError        string         `json:"last_error,omitempty"`
}

// Statistics reports the registry's counters. It never triggers a build.
func (e *Engine) Statistics() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Statistics{
		Root:            e.root,
		LogicalMappings: len(e.reg.byAddress),
		Built:           e.reg.built,
		Collisions:      len(e.reg.collisions),
		FilesScanned:    e.reg.scanned,
		BuildID:         e.reg.buildID,
		BuildDuration:   e.reg.duration,
	}
	if len(e.reg.collisions) > 0 {
		st.CollisionDetails = append([]Collision(nil), e.reg.collisions...)
	}
	if len(e.reg.kinds) > 0 {
		st.Kinds = make(map[string]int, len(e.reg.kinds))
		for k, n := range e.reg.kinds {
			st.Kinds[k] = n
		}
	}
	if !e.reg.builtAt.IsZero() {
		t := e.reg.builtAt
		st.BuiltAt = &t
	}
	if e.reg.lastErr != nil {
		st.LastError = e.reg.lastErr.Error()
	}
	return st
}
