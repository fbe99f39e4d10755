// pkg/extract/state.go
package extract

import (
	"encoding/json"
	"fmt"
	"os"
)

// StateFileName is the name of the persisted state file inside the
// extraction directory. The JSON schema is stable: a resumed process from a
// different implementation can interoperate if it honors the same keys.
const StateFileName = ".zip_iter_state.json"

// state is the single serialized representation of a run. Resume logic is
// deserialize, validate, adopt; live fields are never patched piecemeal.
type state struct {
	ZipPath     string   `json:"zip_path"`
	BaseAtInit  string   `json:"base_at_init"`
	Order       []string `json:"order"`
	Cursor      int      `json:"cursor"`
	BatchSize   int      `json:"batch_size"`
	ExtractDir  string   `json:"extract_dir"`
	Seed        int64    `json:"seed"`
	Extensions  []string `json:"extensions"`
	Exclude     []string `json:"exclude_patterns,omitempty"`
	Failed      []string `json:"failed"`
	OnError     string   `json:"on_error"`
	MaxRetries  int      `json:"max_retries"`
	ValidateCRC bool     `json:"validate_crc"`
}

// saveState writes the state file atomically: the JSON is written to a
// sibling temp path and renamed over the canonical one, so a reader never
// observes a partial file.
func saveState(path string, st *state) error {
	if st.Extensions == nil {
		st.Extensions = []string{}
	}
	if st.Failed == nil {
		st.Failed = []string{}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func loadState(path string) (*state, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}
