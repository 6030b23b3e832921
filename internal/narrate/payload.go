// ABOUTME: Narration request payload sent to hosted model collaborators.
// ABOUTME: Bundles profile, goals, targets and summary with a fixed disclaimer.
package narrate

import (
	"encoding/json"
	"fmt"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/targets"
)

// PayloadNote travels with every payload.
const PayloadNote = "User-provided diet log aggregated. Targets estimated; not medical advice."

// Payload is the JSON object handed to a collaborator.
type Payload struct {
	Profile models.Profile      `json:"profile"`
	Goals   models.GoalSettings `json:"goals"`
	Targets targets.Targets     `json:"targets"`
	Summary *analysis.Summary   `json:"summary"`
	Note    string              `json:"note"`
}

// NewPayload assembles a payload with the standard note.
func NewPayload(p models.Profile, g models.GoalSettings, t targets.Targets, s *analysis.Summary) Payload {
	return Payload{Profile: p, Goals: g, Targets: t, Summary: s, Note: PayloadNote}
}

// JSON renders the payload indented, with dates as YYYY-MM-DD.
func (p Payload) JSON() (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}
