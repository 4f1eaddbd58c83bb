package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kolmedia/talentsync/internal/config"
	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/pricing"
)

// Collection names shared by both logical databases.
const (
	colProjects       = "projects"
	colCollaborations = "collaborations"
	colTalents        = "talents"
	colEffectRecords  = "effect_records"
	colDailyStats     = "daily_stats"
	colCustomers      = "customers"
	colMigrationRuns  = "migration_runs"
)

// Mongo binds the two logical databases on one connection and hands out
// per-database facades. The caller that opens it owns its lifetime; there is
// no package-level handle.
type Mongo struct {
	client *mongo.Client
	source *mongo.Database
	target *mongo.Database
}

// Open connects to MongoDB and binds the two logical databases.
func Open(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, eris.Wrap(err, "store: connect")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, eris.Wrap(err, "store: ping")
	}
	return &Mongo{
		client: client,
		source: client.Database(cfg.SourceDB),
		target: client.Database(cfg.TargetDB),
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return eris.Wrap(err, "store: disconnect")
	}
	return nil
}

// Source returns the read-only legacy database facade.
func (m *Mongo) Source() Source { return &mongoSource{db: m.source} }

// Target returns the redesigned database facade.
func (m *Mongo) Target() Target { return &mongoTarget{db: m.target} }

// Customers returns the pricing configuration reader.
func (m *Mongo) Customers() CustomerConfigs { return &mongoCustomers{db: m.target} }

// Runs returns the migration run log.
func (m *Mongo) Runs() RunLog { return &mongoRunLog{db: m.target} }

// --- Source ---

type mongoSource struct {
	db *mongo.Database
}

func (s *mongoSource) ListProjects(ctx context.Context) ([]model.SourceProject, error) {
	var out []model.SourceProject
	if err := findAll(ctx, s.db.Collection(colProjects), bson.M{}, &out); err != nil {
		return nil, eris.Wrap(err, "store: list source projects")
	}
	return out, nil
}

func (s *mongoSource) GetProject(ctx context.Context, id string) (*model.SourceProject, error) {
	var p model.SourceProject
	err := s.db.Collection(colProjects).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get source project %s", id)
	}
	return &p, nil
}

func (s *mongoSource) ListCollaborations(ctx context.Context, projectID string) ([]model.SourceCollaboration, error) {
	var out []model.SourceCollaboration
	if err := findAll(ctx, s.db.Collection(colCollaborations), bson.M{"projectId": projectID}, &out); err != nil {
		return nil, eris.Wrapf(err, "store: list source collaborations for %s", projectID)
	}
	return out, nil
}

func (s *mongoSource) GetTalent(ctx context.Context, id string) (*model.SourceTalent, error) {
	var t model.SourceTalent
	err := s.db.Collection(colTalents).FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get source talent %s", id)
	}
	return &t, nil
}

func (s *mongoSource) ListEffectRecords(ctx context.Context, projectID string) ([]model.SourceEffectRecord, error) {
	var out []model.SourceEffectRecord
	if err := findAll(ctx, s.db.Collection(colEffectRecords), bson.M{"projectId": projectID}, &out); err != nil {
		return nil, eris.Wrapf(err, "store: list effect records for %s", projectID)
	}
	return out, nil
}

func (s *mongoSource) ListDailyStats(ctx context.Context, projectID string) ([]model.SourceDailyStat, error) {
	var out []model.SourceDailyStat
	if err := findAll(ctx, s.db.Collection(colDailyStats), bson.M{"projectId": projectID}, &out); err != nil {
		return nil, eris.Wrapf(err, "store: list daily stats for %s", projectID)
	}
	return out, nil
}

func (s *mongoSource) SumCollaborationAmounts(ctx context.Context, projectID string) (float64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"projectId": projectID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := aggregateAll(ctx, s.db.Collection(colCollaborations), pipe, &rows); err != nil {
		return 0, eris.Wrapf(err, "store: sum source amounts for %s", projectID)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// --- Target ---

type mongoTarget struct {
	db *mongo.Database
}

func (t *mongoTarget) GetProject(ctx context.Context, id string) (*model.TargetProject, error) {
	return t.findProject(ctx, bson.M{"_id": id})
}

func (t *mongoTarget) FindProjectBySourceID(ctx context.Context, sourceProjectID string) (*model.TargetProject, error) {
	return t.findProject(ctx, bson.M{"migratedFrom.sourceProjectId": sourceProjectID})
}

func (t *mongoTarget) FindProjectByName(ctx context.Context, name string) (*model.TargetProject, error) {
	return t.findProject(ctx, bson.M{"name": name})
}

func (t *mongoTarget) findProject(ctx context.Context, filter bson.M) (*model.TargetProject, error) {
	var p model.TargetProject
	err := t.db.Collection(colProjects).FindOne(ctx, filter).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: find target project")
	}
	return &p, nil
}

func (t *mongoTarget) InsertProject(ctx context.Context, p *model.TargetProject) error {
	if _, err := t.db.Collection(colProjects).InsertOne(ctx, p); err != nil {
		return eris.Wrapf(err, "store: insert target project %s", p.ID)
	}
	return nil
}

func (t *mongoTarget) SetProjectTracking(ctx context.Context, projectID string, tc *model.TrackingConfig) error {
	_, err := t.db.Collection(colProjects).UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$set": bson.M{"tracking": tc}},
	)
	if err != nil {
		return eris.Wrapf(err, "store: set tracking on %s", projectID)
	}
	return nil
}

func (t *mongoTarget) DeleteProject(ctx context.Context, id string) (int64, error) {
	res, err := t.db.Collection(colProjects).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, eris.Wrapf(err, "store: delete target project %s", id)
	}
	return res.DeletedCount, nil
}

func (t *mongoTarget) ListTalentsByAccountIDs(ctx context.Context, accountIDs []string) ([]model.TargetTalent, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	var out []model.TargetTalent
	filter := bson.M{"platformAccountId": bson.M{"$in": accountIDs}}
	if err := findAll(ctx, t.db.Collection(colTalents), filter, &out); err != nil {
		return nil, eris.Wrap(err, "store: list target talents by account id")
	}
	return out, nil
}

func (t *mongoTarget) InsertCollaborations(ctx context.Context, collabs []model.TargetCollaboration) (int, error) {
	if len(collabs) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(collabs))
	for i := range collabs {
		docs[i] = collabs[i]
	}
	res, err := t.db.Collection(colCollaborations).InsertMany(ctx, docs)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		// Partial batch failures surface the exact inserted count.
		return inserted, eris.Wrap(err, "store: insert collaborations")
	}
	return inserted, nil
}

func (t *mongoTarget) ListCollaborations(ctx context.Context, projectID string) ([]model.TargetCollaboration, error) {
	var out []model.TargetCollaboration
	if err := findAll(ctx, t.db.Collection(colCollaborations), bson.M{"projectId": projectID}, &out); err != nil {
		return nil, eris.Wrapf(err, "store: list target collaborations for %s", projectID)
	}
	return out, nil
}

func (t *mongoTarget) GetCollaboration(ctx context.Context, id string) (*model.TargetCollaboration, error) {
	return t.findCollab(ctx, bson.M{"_id": id})
}

func (t *mongoTarget) FindCollaborationByVideoID(ctx context.Context, projectID, videoID string) (*model.TargetCollaboration, error) {
	return t.findCollab(ctx, bson.M{"projectId": projectID, "videoId": videoID})
}

func (t *mongoTarget) FindCollaborationBySourceID(ctx context.Context, projectID, sourceCollabID string) (*model.TargetCollaboration, error) {
	return t.findCollab(ctx, bson.M{"projectId": projectID, "migratedFrom.sourceCollabId": sourceCollabID})
}

func (t *mongoTarget) findCollab(ctx context.Context, filter bson.M) (*model.TargetCollaboration, error) {
	var c model.TargetCollaboration
	err := t.db.Collection(colCollaborations).FindOne(ctx, filter).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: find target collaboration")
	}
	return &c, nil
}

func (t *mongoTarget) SetCollaborationEffectData(ctx context.Context, collabID string, data *model.EffectData) error {
	_, err := t.db.Collection(colCollaborations).UpdateOne(ctx,
		bson.M{"_id": collabID},
		bson.M{"$set": bson.M{"effectData": data}},
	)
	if err != nil {
		return eris.Wrapf(err, "store: set effect data on %s", collabID)
	}
	return nil
}

func (t *mongoTarget) SetCollaborationDailyStats(ctx context.Context, collabID string, stats []model.DailyStat) error {
	_, err := t.db.Collection(colCollaborations).UpdateOne(ctx,
		bson.M{"_id": collabID},
		bson.M{"$set": bson.M{"dailyStats": stats}},
	)
	if err != nil {
		return eris.Wrapf(err, "store: set daily stats on %s", collabID)
	}
	return nil
}

func (t *mongoTarget) DeleteCollaborationsByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := t.db.Collection(colCollaborations).DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, eris.Wrapf(err, "store: delete collaborations for %s", projectID)
	}
	return res.DeletedCount, nil
}

func (t *mongoTarget) CountCollaborations(ctx context.Context, projectID string) (int64, error) {
	n, err := t.db.Collection(colCollaborations).CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, eris.Wrapf(err, "store: count collaborations for %s", projectID)
	}
	return n, nil
}

func (t *mongoTarget) CountCollaborationsWithEffects(ctx context.Context, projectID string) (int64, error) {
	filter := bson.M{"projectId": projectID, "effectData": bson.M{"$ne": nil}}
	n, err := t.db.Collection(colCollaborations).CountDocuments(ctx, filter)
	if err != nil {
		return 0, eris.Wrapf(err, "store: count collaborations with effects for %s", projectID)
	}
	return n, nil
}

func (t *mongoTarget) SumCollaborationAmounts(ctx context.Context, projectID string) (int64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"projectId": projectID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := aggregateAll(ctx, t.db.Collection(colCollaborations), pipe, &rows); err != nil {
		return 0, eris.Wrapf(err, "store: sum target amounts for %s", projectID)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (t *mongoTarget) CountDailyStatEntries(ctx context.Context, projectID string) (int64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"projectId": projectID}}},
		{{Key: "$project", Value: bson.M{"n": bson.M{"$size": bson.M{"$ifNull": []interface{}{"$dailyStats", []interface{}{}}}}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$n"}}}},
	}
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := aggregateAll(ctx, t.db.Collection(colCollaborations), pipe, &rows); err != nil {
		return 0, eris.Wrapf(err, "store: count daily stat entries for %s", projectID)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// --- CustomerConfigs ---

type mongoCustomers struct {
	db *mongo.Database
}

func (c *mongoCustomers) PricingConfigs(ctx context.Context, customerID string) ([]pricing.Config, error) {
	var doc struct {
		PricingConfigs []pricing.Config `bson:"pricingConfigs"`
	}
	err := c.db.Collection(colCustomers).FindOne(ctx, bson.M{"_id": customerID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: pricing configs for customer %s", customerID)
	}
	return doc.PricingConfigs, nil
}

// --- RunLog ---

type mongoRunLog struct {
	db *mongo.Database
}

func (r *mongoRunLog) Start(ctx context.Context, sourceProjectID, phase string) (string, error) {
	entry := model.RunEntry{
		ID:              uuid.NewString(),
		SourceProjectID: sourceProjectID,
		Phase:           phase,
		Status:          model.RunRunning,
		StartedAt:       time.Now().UTC(),
	}
	if _, err := r.db.Collection(colMigrationRuns).InsertOne(ctx, entry); err != nil {
		return "", eris.Wrapf(err, "store: start run for %s/%s", sourceProjectID, phase)
	}
	return entry.ID, nil
}

func (r *mongoRunLog) Complete(ctx context.Context, runID string, counts map[string]int64) error {
	now := time.Now().UTC()
	_, err := r.db.Collection(colMigrationRuns).UpdateOne(ctx,
		bson.M{"_id": runID},
		bson.M{"$set": bson.M{"status": model.RunComplete, "completedAt": now, "counts": counts}},
	)
	if err != nil {
		return eris.Wrapf(err, "store: complete run %s", runID)
	}
	return nil
}

func (r *mongoRunLog) Fail(ctx context.Context, runID string, runErr error) error {
	now := time.Now().UTC()
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := r.db.Collection(colMigrationRuns).UpdateOne(ctx,
		bson.M{"_id": runID},
		bson.M{"$set": bson.M{"status": model.RunFailed, "completedAt": now, "error": msg}},
	)
	if err != nil {
		return eris.Wrapf(err, "store: fail run %s", runID)
	}
	return nil
}

func (r *mongoRunLog) History(ctx context.Context, sourceProjectID string) ([]model.RunEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: 1}})
	cur, err := r.db.Collection(colMigrationRuns).Find(ctx, bson.M{"sourceProjectId": sourceProjectID}, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "store: run history for %s", sourceProjectID)
	}
	var out []model.RunEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, eris.Wrap(err, "store: decode run history")
	}
	return out, nil
}

// --- helpers ---

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func aggregateAll(ctx context.Context, coll *mongo.Collection, pipe mongo.Pipeline, out interface{}) error {
	cur, err := coll.Aggregate(ctx, pipe)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
