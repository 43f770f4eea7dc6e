package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/okian/skillsync/internal/domain/model"
)

type knownUsers map[uint64]bool

func (k knownUsers) UserExists(_ context.Context, id uint64) (bool, error) {
	return k[id], nil
}

type failingUsers struct{}

func (failingUsers) UserExists(context.Context, uint64) (bool, error) {
	return false, errors.New("directory down")
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sample(roles string, at time.Time, source model.Source) model.Recommendation {
	return model.Recommendation{
		RecommendedRoles:   []string{roles},
		MissingSkills:      []string{"Kafka"},
		RecommendedCourses: []string{"Course"},
		ProjectIdeas:       []string{},
		AIInsights:         "insight",
		ConfidenceScore:    0.85,
		Source:             source,
		CreatedAt:          at,
	}
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared", WithSilentSQL())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// storeContract exercises the behaviour shared by every Store.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := newStore(t)

		Convey("Latest reports no recommendations", func() {
			_, err := s.Latest(ctx, 1)
			So(errors.Is(err, ErrNoRecommendations), ShouldBeTrue)
		})

		Convey("History is empty without error", func() {
			recs, err := s.History(ctx, 1)
			So(err, ShouldBeNil)
			So(recs, ShouldBeEmpty)
		})

		Convey("Append for an unknown user fails", func() {
			_, err := s.Append(ctx, 404, sample("Engineer", t0, model.SourceHeuristic))
			So(errors.Is(err, ErrUserNotFound), ShouldBeTrue)

			recs, err := s.History(ctx, 404)
			So(err, ShouldBeNil)
			So(recs, ShouldBeEmpty)
		})

		Convey("When records are appended", func() {
			id1, err := s.Append(ctx, 1, sample("First", t0, model.SourceHeuristic))
			So(err, ShouldBeNil)
			id2, err := s.Append(ctx, 1, sample("Second", t0.Add(time.Minute), model.SourceRemote))
			So(err, ShouldBeNil)
			_, err = s.Append(ctx, 2, sample("Other user", t0.Add(time.Hour), model.SourceHeuristic))
			So(err, ShouldBeNil)

			Convey("Then ids increase", func() {
				So(id2, ShouldBeGreaterThan, id1)
			})

			Convey("Then Latest returns the newest record for that user", func() {
				rec, err := s.Latest(ctx, 1)
				So(err, ShouldBeNil)
				So(rec.ID, ShouldEqual, id2)
				So(rec.UserID, ShouldEqual, uint64(1))
				So(rec.RecommendedRoles, ShouldResemble, []string{"Second"})
				So(rec.Source, ShouldEqual, model.SourceRemote)
				So(rec.CreatedAt.Equal(t0.Add(time.Minute)), ShouldBeTrue)
			})

			Convey("Then History is newest first and scoped to the user", func() {
				recs, err := s.History(ctx, 1)
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 2)
				So(recs[0].ID, ShouldEqual, id2)
				So(recs[1].ID, ShouldEqual, id1)
				So(recs[1].MissingSkills, ShouldResemble, []string{"Kafka"})
				So(recs[1].ProjectIdeas, ShouldNotBeNil)
				So(recs[1].ConfidenceScore, ShouldEqual, 0.85)
				So(recs[1].AIInsights, ShouldEqual, "insight")
			})
		})

		Convey("When two records share a timestamp", func() {
			first, err := s.Append(ctx, 1, sample("A", t0, model.SourceHeuristic))
			So(err, ShouldBeNil)
			second, err := s.Append(ctx, 1, sample("B", t0, model.SourceHeuristic))
			So(err, ShouldBeNil)

			Convey("Then the higher id is newer", func() {
				rec, err := s.Latest(ctx, 1)
				So(err, ShouldBeNil)
				So(rec.ID, ShouldEqual, second)

				recs, err := s.History(ctx, 1)
				So(err, ShouldBeNil)
				So(recs[1].ID, ShouldEqual, first)
			})
		})

		Convey("When a record is appended with an older timestamp", func() {
			_, err := s.Append(ctx, 1, sample("Newer", t0.Add(time.Hour), model.SourceHeuristic))
			So(err, ShouldBeNil)
			_, err = s.Append(ctx, 1, sample("Older", t0, model.SourceHeuristic))
			So(err, ShouldBeNil)

			Convey("Then ordering follows the timestamp", func() {
				rec, err := s.Latest(ctx, 1)
				So(err, ShouldBeNil)
				So(rec.RecommendedRoles, ShouldResemble, []string{"Newer"})
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(*testing.T) Store {
		return NewMemoryStore(knownUsers{1: true, 2: true})
	})
}

func TestGormStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		return NewGormStore(openSQLite(t), knownUsers{1: true, 2: true})
	})
}

func TestMemoryStore_Isolation(t *testing.T) {
	Convey("Stored records are not aliased by callers", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(knownUsers{1: true})
		rec := sample("Engineer", t0, model.SourceHeuristic)
		_, err := s.Append(ctx, 1, rec)
		So(err, ShouldBeNil)

		rec.RecommendedRoles[0] = "mutated"
		got, err := s.Latest(ctx, 1)
		So(err, ShouldBeNil)
		So(got.RecommendedRoles[0], ShouldEqual, "Engineer")

		got.RecommendedRoles[0] = "mutated again"
		again, _ := s.Latest(ctx, 1)
		So(again.RecommendedRoles[0], ShouldEqual, "Engineer")
	})
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	Convey("Concurrent appends for one user all land with unique ids", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(knownUsers{1: true})

		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.Append(ctx, 1, sample("Engineer", t0, model.SourceHeuristic))
			}()
		}
		wg.Wait()

		recs, err := s.History(ctx, 1)
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, n)
		seen := map[uint64]bool{}
		for _, r := range recs {
			seen[r.ID] = true
		}
		So(seen, ShouldHaveLength, n)
	})
}

func TestStore_DirectoryFailure(t *testing.T) {
	Convey("Directory failures are not reported as a missing user", t, func() {
		_, err := NewMemoryStore(failingUsers{}).Append(context.Background(), 1, sample("x", t0, model.SourceHeuristic))
		So(err, ShouldNotBeNil)
		So(errors.Is(err, ErrUserNotFound), ShouldBeFalse)
	})
}

func TestGormStore_CorruptRecords(t *testing.T) {
	Convey("Given a database with unreadable payloads", t, func() {
		ctx := context.Background()
		db := openSQLite(t)
		s := NewGormStore(db, knownUsers{1: true})

		insert := func(payload string) {
			So(db.Create(&recommendationRow{UserID: 1, CreatedUS: t0.UnixMicro(), Payload: datatypes.JSON(payload)}).Error, ShouldBeNil)
		}

		cases := map[string]string{
			"unknown schema version": `{"schemaVersion":2,"recommendedRoles":["x"],"confidenceScore":0.5,"source":"remote"}`,
			"missing roles":          `{"schemaVersion":1,"confidenceScore":0.5,"source":"remote"}`,
			"bad confidence":         `{"schemaVersion":1,"recommendedRoles":["x"],"confidenceScore":7,"source":"remote"}`,
			"unknown source":         `{"schemaVersion":1,"recommendedRoles":["x"],"confidenceScore":0.5,"source":"oracle"}`,
			"not an object":          `[1,2,3]`,
		}
		for name, payload := range cases {
			Convey("Then "+name+" is reported as corrupt", func() {
				insert(payload)
				_, err := s.Latest(ctx, 1)
				So(errors.Is(err, ErrCorruptRecord), ShouldBeTrue)
				So(errors.Is(err, ErrNoRecommendations), ShouldBeFalse)

				_, err = s.History(ctx, 1)
				So(errors.Is(err, ErrCorruptRecord), ShouldBeTrue)
			})
		}
	})
}

func TestOpen_UnknownDriver(t *testing.T) {
	Convey("Unknown drivers are rejected", t, func() {
		_, err := Open("oracle", "dsn")
		So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)
	})
}
