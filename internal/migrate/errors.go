package migrate

import "fmt"

// Unmatched reasons.
const (
	ReasonNoTargetTalent      = "no-target-talent"
	ReasonTalentRecordMissing = "talent-record-missing"
)

// UnmatchedTalent describes one source talent that could not be resolved to
// a target identity.
type UnmatchedTalent struct {
	SourceTalentID string `json:"sourceTalentId"`
	DisplayName    string `json:"displayName,omitempty"`
	SecondaryID    string `json:"secondaryId,omitempty"`
	Reason         string `json:"reason"`
}

// UnmatchedError blocks collaboration migration when any talent is
// unresolved. Migration is all-or-nothing per project: partial migration at
// the talent level would silently drop financial records.
type UnmatchedError struct {
	Unmatched []UnmatchedTalent
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("migrate: %d unmatched talents block collaboration migration", len(e.Unmatched))
}

// NotFoundError reports a missing required record as a structured failure.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("migrate: %s %s not found", e.Kind, e.ID)
}

// ValidationError reports a missing or invalid parameter before any work is
// attempted.
type ValidationError struct {
	Param  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("migrate: invalid parameter %s: %s", e.Param, e.Detail)
}
