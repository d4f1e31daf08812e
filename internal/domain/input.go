package domain

import "encoding/json"

// StatusInput is the session snapshot handed to us on stdin by the editor.
// Every field is optional; absent fields leave their zero value so segments
// can fall back to their placeholder states.
type StatusInput struct {
	SessionID     string            `json:"session_id"`
	Model         ModelInfo         `json:"model"`
	Workspace     WorkspaceInfo     `json:"workspace"`
	Git           GitInfo           `json:"git"`
	ContextWindow ContextWindowInfo `json:"context_window"`
}

// ModelInfo identifies the active model.
type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// WorkspaceInfo carries the directories the session operates in.
type WorkspaceInfo struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

// GitInfo is the branch state as reported by the caller, if it reports one.
type GitInfo struct {
	Branch string `json:"branch"`
	Dirty  bool   `json:"dirty"`
	Ahead  int    `json:"ahead"`
	Behind int    `json:"behind"`
}

// ContextWindowInfo carries context-window consumption percentages.
type ContextWindowInfo struct {
	UsedPercentage      float64 `json:"used_percentage"`
	RemainingPercentage float64 `json:"remaining_percentage"`
}

// ParseStatusInput decodes the stdin payload. Malformed or empty input is not
// an error: the zero-value input stands in and every segment renders its
// placeholder.
func ParseStatusInput(raw []byte) StatusInput {
	var in StatusInput
	if len(raw) == 0 {
		return in
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return StatusInput{}
	}
	return in
}
