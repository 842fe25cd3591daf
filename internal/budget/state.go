package budget

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State is the persisted view of the action budget.
type State struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoadState reads the budget state from a JSON file. Returns a zero state if the
// file doesn't exist or no path is configured.
func LoadState(filePath string) (*State, error) {
	if filePath == "" {
		return &State{}, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Count < 0 {
		state.Count = 0
	}
	return &state, nil
}

// SaveState writes the budget state through a temp file and rename.
func SaveState(filePath string, state *State) error {
	if filePath == "" {
		return nil
	}
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
