// Package prompts manages named instruction overrides for the parse and
// classify stages of the analysis pipeline.
package prompts

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Stage identifies the pipeline step a prompt override replaces.
type Stage string

const (
	StageParse    Stage = "parse"
	StageClassify Stage = "classify"
)

// Stages lists every stage that accepts an override.
func Stages() []Stage {
	return []Stage{StageParse, StageClassify}
}

// ParseStage rejects anything but a known stage.
func ParseStage(s string) (Stage, error) {
	switch st := Stage(s); st {
	case StageParse, StageClassify:
		return st, nil
	}
	return "", ErrInvalidStage
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Prompt is a named instruction override. At most one prompt per stage is
// active, and only the active one reaches the model.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Command is the body of both create and update requests. Updating never
// changes whether a prompt is active.
type Command struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Stage        Stage   `json:"stage" validate:"required"`
	Instructions string  `json:"instructions" validate:"required,max=20000"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
}

// StageContent pairs a stage with resolved prompt text.
type StageContent struct {
	Stage   Stage  `json:"stage"`
	Content string `json:"content"`
}
