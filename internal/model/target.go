package model

import "time"

// Target-side documents in the redesigned campaign database. All monetary
// fields are integer minor currency units.

// Target project statuses.
const (
	ProjectExecuting         = "executing"
	ProjectPendingSettlement = "pendingSettlement"
	ProjectSettled           = "settled"
	ProjectClosed            = "closed"
)

// Order modes.
const (
	OrderModeOriginal = "original"
	OrderModeAdjusted = "adjusted"
)

// Tracking statuses selectable when migrating daily stats.
const (
	TrackingActive   = "active"
	TrackingArchived = "archived"
	TrackingDisabled = "disabled"
)

// ProjectProvenance records where a migrated project came from.
type ProjectProvenance struct {
	SourceProjectID string    `bson:"sourceProjectId" json:"sourceProjectId"`
	SourceDatabase  string    `bson:"sourceDatabase" json:"sourceDatabase"`
	MigratedAt      time.Time `bson:"migratedAt" json:"migratedAt"`
}

// CollabProvenance records where a migrated collaboration came from. The
// sourceCollabId doubles as a join key for phases that run after the
// in-memory collaboration mapping is gone.
type CollabProvenance struct {
	SourceCollabID string    `bson:"sourceCollabId" json:"sourceCollabId"`
	SourceTalentID string    `bson:"sourceTalentId" json:"sourceTalentId"`
	MigratedAt     time.Time `bson:"migratedAt" json:"migratedAt"`
}

// AuditEntry is one append-only audit log line on a target project.
type AuditEntry struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	User      string    `bson:"user" json:"user"`
	Action    string    `bson:"action" json:"action"`
}

// TrackingConfig describes whether and how ongoing daily performance
// tracking continues after migration.
type TrackingConfig struct {
	Status    string    `bson:"status" json:"status"`
	StartDate string    `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   string    `bson:"endDate,omitempty" json:"endDate,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Adjustment is a manual financial adjustment on a target project. Migration
// never creates these; the field exists so migrated projects round-trip
// through the general editing UI.
type Adjustment struct {
	Label  string    `bson:"label" json:"label"`
	Amount int64     `bson:"amount" json:"amount"`
	Added  time.Time `bson:"added" json:"added"`
}

// TargetProject is a project document in the redesigned schema.
type TargetProject struct {
	ID                            string             `bson:"_id" json:"id"`
	Name                          string             `bson:"name" json:"name"`
	Status                        string             `bson:"status" json:"status"`
	BusinessType                  []string           `bson:"businessType" json:"businessType"`
	CustomerID                    string             `bson:"customerId" json:"customerId"`
	FinancialYear                 int                `bson:"financialYear" json:"financialYear"`
	FinancialMonth                int                `bson:"financialMonth" json:"financialMonth"`
	Budget                        int64              `bson:"budget" json:"budget"`
	Platforms                     []string           `bson:"platforms" json:"platforms"`
	PlatformDiscounts             map[string]float64 `bson:"platformDiscounts" json:"platformDiscounts"`
	PlatformPricingModes          map[string]string  `bson:"platformPricingModes" json:"platformPricingModes"`
	PlatformQuotationCoefficients map[string]float64 `bson:"platformQuotationCoefficients" json:"platformQuotationCoefficients"`
	Adjustments                   []Adjustment       `bson:"adjustments" json:"adjustments"`
	AuditLog                      []AuditEntry       `bson:"auditLog" json:"auditLog"`
	Tracking                      *TrackingConfig    `bson:"tracking,omitempty" json:"tracking,omitempty"`
	MigratedFrom                  *ProjectProvenance `bson:"migratedFrom,omitempty" json:"migratedFrom,omitempty"`
}

// EffectData holds the three aggregate windows on a target collaboration.
type EffectData struct {
	T7  EffectWindow `bson:"t7" json:"t7"`
	T21 EffectWindow `bson:"t21" json:"t21"`
	T30 EffectWindow `bson:"t30" json:"t30"`
}

// DailyStat is one migrated day of raw view counts. Derived cost metrics are
// recomputed downstream from these raw counts and are never copied.
type DailyStat struct {
	Date       string    `bson:"date" json:"date"`
	TotalViews int64     `bson:"totalViews" json:"totalViews"`
	Solution   string    `bson:"solution,omitempty" json:"solution,omitempty"`
	Source     string    `bson:"source" json:"source"`
	MigratedAt time.Time `bson:"migratedAt" json:"migratedAt"`
}

// TargetCollaboration is a collaboration document in the redesigned schema.
type TargetCollaboration struct {
	ID                 string            `bson:"_id" json:"id"`
	ProjectID          string            `bson:"projectId" json:"projectId"`
	TalentOneID        string            `bson:"talentOneId" json:"talentOneId"`
	TalentPlatform     string            `bson:"talentPlatform" json:"talentPlatform"`
	Amount             int64             `bson:"amount" json:"amount"`
	RebateRate         float64           `bson:"rebateRate" json:"rebateRate"`
	ActualRebate       *int64            `bson:"actualRebate,omitempty" json:"actualRebate,omitempty"`
	Status             string            `bson:"status" json:"status"`
	VideoID            string            `bson:"videoId,omitempty" json:"videoId,omitempty"`
	PlannedReleaseDate string            `bson:"plannedReleaseDate,omitempty" json:"plannedReleaseDate,omitempty"`
	ActualReleaseDate  string            `bson:"actualReleaseDate,omitempty" json:"actualReleaseDate,omitempty"`
	OrderMode          string            `bson:"orderMode" json:"orderMode"`
	EffectData         *EffectData       `bson:"effectData,omitempty" json:"effectData,omitempty"`
	DailyStats         []DailyStat       `bson:"dailyStats,omitempty" json:"dailyStats,omitempty"`
	MigratedFrom       *CollabProvenance `bson:"migratedFrom,omitempty" json:"migratedFrom,omitempty"`
}

// TargetTalent is a talent document in the redesigned schema.
type TargetTalent struct {
	ID                string `bson:"_id" json:"id"`
	Name              string `bson:"name" json:"name"`
	Platform          string `bson:"platform" json:"platform"`
	PlatformAccountID string `bson:"platformAccountId" json:"platformAccountId"`
}

// Run statuses for the migration run log.
const (
	RunRunning  = "running"
	RunComplete = "complete"
	RunFailed   = "failed"
)

// RunEntry is one phase invocation in the migration_runs collection.
type RunEntry struct {
	ID              string           `bson:"_id" json:"id"`
	SourceProjectID string           `bson:"sourceProjectId" json:"sourceProjectId"`
	Phase           string           `bson:"phase" json:"phase"`
	Status          string           `bson:"status" json:"status"`
	StartedAt       time.Time        `bson:"startedAt" json:"startedAt"`
	CompletedAt     *time.Time       `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Counts          map[string]int64 `bson:"counts,omitempty" json:"counts,omitempty"`
	Error           string           `bson:"error,omitempty" json:"error,omitempty"`
}
