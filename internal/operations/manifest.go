package operations

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"surveycli/internal/files"
)

// RunManifest is the on-disk record of one pipeline run
type RunManifest struct {
	OperationID string           `json:"operation_id"`
	Status      string           `json:"status"`
	CacheHit    bool             `json:"cache_hit"`
	Duration    string           `json:"duration"`
	Steps       []StageExecution `json:"steps"`
	Outputs     []string         `json:"outputs"`
	Error       string           `json:"error,omitempty"`
	ErrorType   string           `json:"error_type,omitempty"`
	WrittenAt   time.Time        `json:"written_at"`
}

// StageExecution records how a single step ended
type StageExecution struct {
	StageID   string                 `json:"stage_id"`
	StageName string                 `json:"stage_name"`
	Status    string                 `json:"status"`
	Duration  string                 `json:"duration"`
	Message   string                 `json:"message,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewRunManifest summarizes an operation response in step order
func NewRunManifest(resp *OperationResponse) *RunManifest {
	m := &RunManifest{
		OperationID: resp.ID,
		Status:      string(resp.Status),
		CacheHit:    resp.CacheHit,
		Duration:    resp.Duration.String(),
		Steps:       make([]StageExecution, 0, len(resp.StepOrder)),
		Outputs:     append([]string{}, resp.Outputs...),
		Error:       resp.Error,
		WrittenAt:   time.Now().UTC(),
	}

	for _, id := range resp.StepOrder {
		s, ok := resp.Steps[id]
		if !ok {
			continue
		}
		s.mu.RLock()
		exec := StageExecution{
			StageID:   s.ID,
			StageName: s.Name,
			Status:    string(s.Status),
			Message:   s.Message,
		}
		if len(s.Metadata) > 0 {
			exec.Metadata = make(map[string]interface{}, len(s.Metadata))
			for k, v := range s.Metadata {
				exec.Metadata[k] = v
			}
		}
		s.mu.RUnlock()
		exec.Duration = s.Duration().String()
		m.Steps = append(m.Steps, exec)
	}
	return m
}

// Save writes the manifest as indented JSON, replacing any previous file
func (m *RunManifest) Save(path string) error {
	err := files.WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	})
	if err != nil {
		return fmt.Errorf("failed to save run manifest: %w", err)
	}
	return nil
}

// LoadRunManifest reads a manifest written by Save
func LoadRunManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run manifest: %w", err)
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse run manifest: %w", err)
	}
	return &m, nil
}
