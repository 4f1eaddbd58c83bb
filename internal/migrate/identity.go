package migrate

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MatchedTalent is one resolved source→target talent correspondence.
type MatchedTalent struct {
	SourceTalentID    string `json:"sourceTalentId"`
	TargetTalentOneID string `json:"targetTalentOneId"`
	DisplayName       string `json:"displayName"`
	SecondaryID       string `json:"secondaryId"`
	Platform          string `json:"platform,omitempty"`
}

// MatchResult partitions a project's talents into matched and unmatched.
// CanProceed is true only when every talent resolved.
type MatchResult struct {
	Matched    []MatchedTalent   `json:"matched"`
	Unmatched  []UnmatchedTalent `json:"unmatched"`
	CanProceed bool              `json:"canProceed"`
}

// IdentityMapping returns the sourceTalentId → targetTalentOneId table.
func (r *MatchResult) IdentityMapping() map[string]string {
	m := make(map[string]string, len(r.Matched))
	for _, t := range r.Matched {
		m[t.SourceTalentID] = t.TargetTalentOneID
	}
	return m
}

// ValidateTalents resolves every talent referenced by the source project's
// collaborations to a target identity via the platform account id. Read-only;
// a missing source talent record is reported as unmatched, never as a fault.
func (p *Pipeline) ValidateTalents(ctx context.Context, sourceProjectID string) (*MatchResult, error) {
	if sourceProjectID == "" {
		return nil, &ValidationError{Param: "sourceProjectId", Detail: "required"}
	}

	log := zap.L().With(zap.String("component", "migrate.identity"), zap.String("sourceProjectId", sourceProjectID))

	collabs, err := p.source.ListCollaborations(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}

	// Distinct talent ids, first-seen order.
	seen := make(map[string]bool)
	var talentIDs []string
	for _, c := range collabs {
		if c.TalentID != "" && !seen[c.TalentID] {
			seen[c.TalentID] = true
			talentIDs = append(talentIDs, c.TalentID)
		}
	}

	type talentInfo struct {
		id        string
		name      string
		secondary string
		platform  string
		missing   bool
	}

	infos := make([]talentInfo, len(talentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanout)
	for i, id := range talentIDs {
		g.Go(func() error {
			t, err := p.source.GetTalent(gctx, id)
			if err != nil {
				return err
			}
			if t == nil {
				infos[i] = talentInfo{id: id, missing: true}
				return nil
			}
			infos[i] = talentInfo{id: id, name: t.Name, secondary: t.PlatformAccountID, platform: t.Platform}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var secondaryIDs []string
	for _, info := range infos {
		if !info.missing && info.secondary != "" {
			secondaryIDs = append(secondaryIDs, info.secondary)
		}
	}

	targets, err := p.target.ListTalentsByAccountIDs(ctx, secondaryIDs)
	if err != nil {
		return nil, err
	}
	bySecondary := make(map[string]string, len(targets))
	for _, t := range targets {
		bySecondary[t.PlatformAccountID] = t.ID
	}

	result := &MatchResult{}
	for _, info := range infos {
		if info.missing {
			result.Unmatched = append(result.Unmatched, UnmatchedTalent{
				SourceTalentID: info.id,
				Reason:         ReasonTalentRecordMissing,
			})
			continue
		}
		targetID, ok := bySecondary[info.secondary]
		if !ok || info.secondary == "" {
			result.Unmatched = append(result.Unmatched, UnmatchedTalent{
				SourceTalentID: info.id,
				DisplayName:    info.name,
				SecondaryID:    info.secondary,
				Reason:         ReasonNoTargetTalent,
			})
			continue
		}
		result.Matched = append(result.Matched, MatchedTalent{
			SourceTalentID:    info.id,
			TargetTalentOneID: targetID,
			DisplayName:       info.name,
			SecondaryID:       info.secondary,
			Platform:          info.platform,
		})
	}
	result.CanProceed = len(result.Unmatched) == 0

	log.Info("talent validation complete",
		zap.Int("matched", len(result.Matched)),
		zap.Int("unmatched", len(result.Unmatched)),
	)
	return result, nil
}
