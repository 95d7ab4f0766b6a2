package intel

// State is a serializable snapshot of the engine's trending table and
// preference profile. Neither survives a restart unless a caller saves and
// restores one of these.
type State struct {
	Trending    map[string]int `json:"trending"`
	Preferences map[string]int `json:"preferences"`
}

// Snapshot copies the current tables.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State{
		Trending:    make(map[string]int, len(e.trending)),
		Preferences: make(map[string]int, len(e.preferences)),
	}
	for kw, count := range e.trending {
		s.Trending[kw] = count
	}
	for key, weight := range e.preferences {
		s.Preferences[key] = weight
	}
	return s
}

// Restore replaces the engine's tables with a previously taken snapshot.
// Nil maps in the snapshot leave the corresponding table empty.
func (e *Engine) Restore(s State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.trending = make(map[string]int, len(s.Trending))
	for kw, count := range s.Trending {
		e.trending[kw] = count
	}
	e.preferences = make(map[string]int, len(s.Preferences))
	for key, weight := range s.Preferences {
		e.preferences[key] = weight
	}
}
