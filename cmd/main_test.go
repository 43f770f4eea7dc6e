package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillsync/internal/config"
	"github.com/okian/skillsync/pkg/logger"
	"github.com/okian/skillsync/pkg/metrics"
)

func intPtr(v int) *int { return &v }

func testConfig() *config.Config {
	cfg := config.New()
	cfg.SeedProfiles = []config.SeedProfile{
		{UserID: 1, CareerGoal: "ops", Skills: []string{"docker", "kubernetes"}, YearsOfExperience: intPtr(2)},
		{UserID: 2, NoProfile: true},
	}
	return cfg
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given seeded configuration", t, func() {
		for _, driver := range []string{"memory", "sqlite"} {
			convey.Convey("When the "+driver+" driver is wired", func() {
				cfg := testConfig()
				cfg.Storage.Driver = driver
				if driver == "sqlite" {
					cfg.Storage.DSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
				}

				svc, closeFn, err := build(ctx, cfg, logger.Discard())
				convey.So(err, convey.ShouldBeNil)
				defer closeFn()

				handler := newHTTPServer(cfg, svc, logger.Discard()).Handler

				convey.Convey("Then a seeded user gets a DevOps recommendation", func() {
					rr := httptest.NewRecorder()
					handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/career/recommendations/1", nil))
					convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
					convey.So(rr.Body.String(), convey.ShouldContainSubstring, "DevOps Engineer")

					latest := httptest.NewRecorder()
					handler.ServeHTTP(latest, httptest.NewRequest(http.MethodGet, "/api/career/recommendations/1/latest", nil))
					convey.So(latest.Code, convey.ShouldEqual, http.StatusOK)
				})

				convey.Convey("Then a user without a profile gets 404", func() {
					rr := httptest.NewRecorder()
					handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/career/recommendations/2", nil))
					convey.So(rr.Code, convey.ShouldEqual, http.StatusNotFound)
					convey.So(rr.Body.String(), convey.ShouldContainSubstring, "profile_not_found")
				})

				convey.Convey("Then reads for an unknown user report no history", func() {
					all := httptest.NewRecorder()
					handler.ServeHTTP(all, httptest.NewRequest(http.MethodGet, "/api/career/recommendations/42/all", nil))
					convey.So(all.Code, convey.ShouldEqual, http.StatusOK)
					convey.So(strings.TrimSpace(all.Body.String()), convey.ShouldEqual, "[]")

					latest := httptest.NewRecorder()
					handler.ServeHTTP(latest, httptest.NewRequest(http.MethodGet, "/api/career/recommendations/42/latest", nil))
					convey.So(latest.Code, convey.ShouldEqual, http.StatusNotFound)
					convey.So(latest.Body.String(), convey.ShouldContainSubstring, "recommendation_not_found")
				})

				convey.Convey("Then the API docs are mounted", func() {
					rr := httptest.NewRecorder()
					handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
					convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
				})
			})
		}
	})

	convey.Convey("Given a storage driver that cannot connect", t, func() {
		cfg := testConfig()
		cfg.Storage.Driver = "oracle"
		cfg.Storage.DSN = "x"

		_, closeFn, err := build(ctx, cfg, logger.Discard())
		closeFn()
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestClassifierSettings(t *testing.T) {
	convey.Convey("AI config maps onto classifier settings", t, func() {
		cfg := config.New()
		s := classifierSettings(cfg.AI)

		convey.So(s.Endpoint, convey.ShouldEqual, "https://api.openai.com/v1/chat/completions")
		convey.So(s.Model, convey.ShouldEqual, "gpt-3.5-turbo")
		convey.So(s.Timeout, convey.ShouldEqual, 30*time.Second)
		convey.So(s.BreakerCooldown, convey.ShouldEqual, time.Minute)
		convey.So(s.BreakerFailures, convey.ShouldEqual, uint32(5))
	})
}

func TestMetricsOptions(t *testing.T) {
	convey.Convey("Metrics config renames the served series", t, func() {
		cfg := config.New()
		cfg.Metrics.Namespace = "careers"
		cfg.Metrics.HTTPBucketsMS = []float64{5, 50}

		opts := metricsOptions(cfg.Metrics)
		convey.So(opts, convey.ShouldHaveLength, 3)

		metrics.Configure(opts...)
		defer metrics.Configure()
		metrics.RecordMalformedResponse()

		families, err := metrics.GetRegistry().Gather()
		convey.So(err, convey.ShouldBeNil)
		var found bool
		for _, f := range families {
			if f.GetName() == "careers_recommendations_malformed_responses_total" {
				found = true
			}
		}
		convey.So(found, convey.ShouldBeTrue)
	})
}

func TestSeedRecord(t *testing.T) {
	convey.Convey("Seed profiles become directory records", t, func() {
		r := seedRecord(config.SeedProfile{UserID: 3, Interests: "Figma", Skills: []string{"Sketch"}})
		convey.So(r.UserID, convey.ShouldEqual, uint64(3))
		convey.So(r.Profile, convey.ShouldNotBeNil)
		convey.So(r.Profile.Interests, convey.ShouldEqual, "Figma")

		convey.So(seedRecord(config.SeedProfile{UserID: 4, NoProfile: true}).Profile, convey.ShouldBeNil)
	})
}

func TestNewHTTPServer(t *testing.T) {
	convey.Convey("The write timeout outlives the provider timeout", t, func() {
		cfg := testConfig()
		svc, closeFn, err := build(context.Background(), cfg, logger.Discard())
		convey.So(err, convey.ShouldBeNil)
		defer closeFn()

		srv := newHTTPServer(cfg, svc, logger.Discard())
		convey.So(srv.WriteTimeout, convey.ShouldBeGreaterThan, 30*time.Second)
		convey.So(srv.Addr, convey.ShouldEqual, ":8080")

		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		convey.So(strings.Contains(rr.Body.String(), `"ok"`), convey.ShouldBeTrue)
	})
}
