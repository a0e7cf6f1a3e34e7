package genex

import (
	"encoding/json"
	"fmt"
)

// Snapshot is a point-in-time capture of the simulation state: species
// copy numbers plus the per-gene transcript and bound-ribosome counts.
type Snapshot struct {
	Time        float64        `json:"time"`
	Iterations  int            `json:"iterations"`
	Species     map[string]int `json:"species"`
	Transcripts map[string]int `json:"transcripts,omitempty"`
	Ribosomes   map[string]int `json:"ribosomes,omitempty"`
}

// EncodeSnapshotJSON encodes a snapshot to JSON.
func EncodeSnapshotJSON(snapshot Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
