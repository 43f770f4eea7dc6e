package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/internal/domain/normalize"
	"github.com/okian/skillsync/internal/domain/profile"
	"github.com/okian/skillsync/pkg/logger"
)

const (
	payloadSchemaVersion = 1
	keySchemaVersion     = "schemaVersion"
	keySource            = "source"
)

// recommendationRow is the persisted form. List fields live in one JSON
// payload so the row is written in a single insert. Creation time is kept
// as UTC microseconds so ordering does not depend on driver time formats.
type recommendationRow struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement"`
	UserID    uint64         `gorm:"not null;index:idx_career_recommendations_user_created,priority:1"`
	CreatedUS int64          `gorm:"column:created_at_us;not null;index:idx_career_recommendations_user_created,priority:2"`
	Payload   datatypes.JSON `gorm:"not null"`
}

func (recommendationRow) TableName() string { return "career_recommendations" }

// payloadV1 is schema version 1 of the payload column.
type payloadV1 struct {
	SchemaVersion      int      `json:"schemaVersion"`
	RecommendedRoles   []string `json:"recommendedRoles"`
	MissingSkills      []string `json:"missingSkills"`
	RecommendedCourses []string `json:"recommendedCourses"`
	ProjectIdeas       []string `json:"projectIdeas"`
	Insights           string   `json:"insights"`
	ConfidenceScore    float64  `json:"confidenceScore"`
	Source             string   `json:"source"`
}

// GormStore persists history in a SQL database through gorm.
type GormStore struct {
	db     *gorm.DB
	users  profile.Directory
	logger logger.Logger
}

var _ Store = (*GormStore)(nil)

// NewGormStore returns a store over db. Call Migrate first.
func NewGormStore(db *gorm.DB, users profile.Directory, opts ...Option) *GormStore {
	s := &GormStore{db: db, users: users, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormStore) Append(ctx context.Context, userID uint64, rec model.Recommendation) (id uint64, err error) {
	defer func(start time.Time) { observe(opAppend, start, err) }(time.Now())

	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("lookup user %d: %w", userID, err)
	}
	if !ok {
		return 0, ErrUserNotFound
	}

	payload, err := encodePayload(rec)
	if err != nil {
		return 0, err
	}
	row := recommendationRow{
		UserID:    userID,
		CreatedUS: rec.CreatedAt.UTC().UnixMicro(),
		Payload:   payload,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert recommendation: %w", err)
	}
	return row.ID, nil
}

func (s *GormStore) Latest(ctx context.Context, userID uint64) (rec model.Recommendation, err error) {
	defer func(start time.Time) { observe(opLatest, start, err) }(time.Now())

	var rows []recommendationRow
	err = s.newestFirst(ctx, userID).Limit(1).Find(&rows).Error
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("query latest recommendation: %w", err)
	}
	if len(rows) == 0 {
		return model.Recommendation{}, ErrNoRecommendations
	}
	return s.decode(ctx, rows[0])
}

func (s *GormStore) History(ctx context.Context, userID uint64) (out []model.Recommendation, err error) {
	defer func(start time.Time) { observe(opHistory, start, err) }(time.Now())

	var rows []recommendationRow
	if err := s.newestFirst(ctx, userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	out = make([]model.Recommendation, 0, len(rows))
	for _, row := range rows {
		rec, err := s.decode(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *GormStore) newestFirst(ctx context.Context, userID uint64) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at_us DESC").
		Order("id DESC")
}

func (s *GormStore) decode(ctx context.Context, row recommendationRow) (model.Recommendation, error) {
	rec, err := decodePayload(row.Payload)
	if err != nil {
		s.logger.Warn(ctx, "unreadable recommendation record",
			logger.Uint64("id", row.ID),
			logger.Uint64("user_id", row.UserID),
			logger.Error(err),
		)
		return model.Recommendation{}, fmt.Errorf("record %d: %w", row.ID, err)
	}
	rec.ID = row.ID
	rec.UserID = row.UserID
	rec.CreatedAt = time.UnixMicro(row.CreatedUS).UTC()
	return rec, nil
}

func encodePayload(rec model.Recommendation) (datatypes.JSON, error) {
	rec = rec.Clone()
	b, err := json.Marshal(payloadV1{
		SchemaVersion:      payloadSchemaVersion,
		RecommendedRoles:   rec.RecommendedRoles,
		MissingSkills:      rec.MissingSkills,
		RecommendedCourses: rec.RecommendedCourses,
		ProjectIdeas:       rec.ProjectIdeas,
		Insights:           rec.AIInsights,
		ConfidenceScore:    rec.ConfidenceScore,
		Source:             string(rec.Source),
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return datatypes.JSON(b), nil
}

// decodePayload reads a stored payload through the same rules applied to
// classifier output. Any failure is ErrCorruptRecord.
func decodePayload(raw datatypes.JSON) (model.Recommendation, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if fields == nil {
		return model.Recommendation{}, fmt.Errorf("%w: empty payload", ErrCorruptRecord)
	}
	if v, ok := fields[keySchemaVersion].(float64); !ok || v != payloadSchemaVersion {
		return model.Recommendation{}, fmt.Errorf("%w: unsupported schema version %v", ErrCorruptRecord, fields[keySchemaVersion])
	}

	rec, err := normalize.Content(fields)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if rec.ConfidenceScore, err = normalize.Score(fields[model.KeyConfidenceScore]); err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	source, _ := fields[keySource].(string)
	switch model.Source(source) {
	case model.SourceRemote, model.SourceHeuristic:
		rec.Source = model.Source(source)
	default:
		return model.Recommendation{}, fmt.Errorf("%w: unknown source %q", ErrCorruptRecord, source)
	}
	return rec, nil
}
