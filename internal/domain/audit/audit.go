// Package audit defines the change log written alongside definition mutations.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"clinicstats/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one audited change.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	UserID     string
	Changes    map[string]any
}

// Recorder persists audit entries. Implementations must join the transaction
// carried by ctx, if any.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Fields flattens an entity into its JSON field map.
func Fields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal entity: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal entity: %w", err)
	}
	return out, nil
}

// Diff calculates the difference between old and new entity states.
// Each changed key maps to {"old": ..., "new": ...}.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !equal(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

// equal compares JSON-decoded values.
func equal(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
