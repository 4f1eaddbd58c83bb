package model

// Source-side documents from the legacy campaign database. Read-only: the
// pipeline never writes back to these collections.

// SourceProject is a legacy project document.
type SourceProject struct {
	ID             string     `bson:"_id" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Status         string     `bson:"status" json:"status"` // source-language label
	CustomerID     string     `bson:"customerId" json:"customerId"`
	FinancialYear  int        `bson:"financialYear" json:"financialYear"`
	FinancialMonth FlexMonth  `bson:"financialMonth" json:"financialMonth"`
	Discount       FlexFloat  `bson:"discount" json:"discount"`
	Budget         FlexAmount `bson:"budget" json:"budget"`
	Platform       string     `bson:"platform" json:"platform"`
	BusinessType   string     `bson:"businessType" json:"businessType"`
}

// SourceCollaboration is a legacy talent collaboration document.
type SourceCollaboration struct {
	ID                 string   `bson:"_id" json:"id"`
	ProjectID          string   `bson:"projectId" json:"projectId"`
	TalentID           string   `bson:"talentId" json:"talentId"`
	Amount             float64  `bson:"amount" json:"amount"` // major units
	RebateRate         float64  `bson:"rebateRate" json:"rebateRate"`
	ActualRebate       *float64 `bson:"actualRebate,omitempty" json:"actualRebate,omitempty"` // major units
	Status             string   `bson:"status" json:"status"`
	VideoID            string   `bson:"videoId,omitempty" json:"videoId,omitempty"`
	OrderType          string   `bson:"orderType" json:"orderType"`
	PlannedReleaseDate string   `bson:"plannedReleaseDate,omitempty" json:"plannedReleaseDate,omitempty"`
	ActualReleaseDate  string   `bson:"actualReleaseDate,omitempty" json:"actualReleaseDate,omitempty"`
}

// SourceTalent is a legacy talent document. PlatformAccountID is the
// secondary identifier used to match talents across the two databases.
type SourceTalent struct {
	ID                string `bson:"_id" json:"id"`
	Name              string `bson:"name" json:"name"`
	Platform          string `bson:"platform" json:"platform"`
	PlatformAccountID string `bson:"platformAccountId" json:"platformAccountId"`
}

// EffectWindow holds aggregate metrics for one observation window.
type EffectWindow struct {
	Views    int64 `bson:"views" json:"views"`
	Likes    int64 `bson:"likes" json:"likes"`
	Comments int64 `bson:"comments" json:"comments"`
	Shares   int64 `bson:"shares" json:"shares"`
}

// SourceEffectRecord carries the three aggregate windows for one delivered
// video.
type SourceEffectRecord struct {
	ID        string       `bson:"_id" json:"id"`
	ProjectID string       `bson:"projectId" json:"projectId"`
	CollabID  string       `bson:"collabId,omitempty" json:"collabId,omitempty"`
	VideoID   string       `bson:"videoId" json:"videoId"`
	T7        EffectWindow `bson:"t7" json:"t7"`
	T21       EffectWindow `bson:"t21" json:"t21"`
	T30       EffectWindow `bson:"t30" json:"t30"`
}

// SourceDailyStat is one day of granular stats for a delivered video. The
// cost-per-impression fields are derived values and are never migrated.
type SourceDailyStat struct {
	ID           string  `bson:"_id" json:"id"`
	ProjectID    string  `bson:"projectId" json:"projectId"`
	CollabID     string  `bson:"collabId,omitempty" json:"collabId,omitempty"`
	VideoID      string  `bson:"videoId,omitempty" json:"videoId,omitempty"`
	Date         string  `bson:"date" json:"date"` // YYYY-MM-DD
	TotalViews   int64   `bson:"totalViews" json:"totalViews"`
	Solution     string  `bson:"solution,omitempty" json:"solution,omitempty"`
	CPM          float64 `bson:"cpm,omitempty" json:"cpm,omitempty"`
	CPMDelta     float64 `bson:"cpmDelta,omitempty" json:"cpmDelta,omitempty"`
	TrackingNote string  `bson:"trackingNote,omitempty" json:"trackingNote,omitempty"`
}
