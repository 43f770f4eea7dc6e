package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/internal/domain/profile"
	"github.com/okian/skillsync/internal/domain/prompt"
)

type stubCaller struct {
	out   model.RawOutput
	err   error
	calls int
}

func (s *stubCaller) Call(context.Context, string) (model.RawOutput, error) {
	s.calls++
	return s.out, s.err
}

func TestSelector(t *testing.T) {
	ctx := context.Background()
	p := profile.Profile{Skills: []string{"Docker"}}
	text := prompt.Build(p)

	Convey("Given no credential", t, func() {
		sel := New(ctx, Settings{APIKey: PlaceholderAPIKey})

		Convey("Then only the heuristic is used", func() {
			So(sel.RemoteEnabled(), ShouldBeFalse)
			out := sel.Classify(ctx, text, p)
			So(out.Source, ShouldEqual, model.SourceHeuristic)
			So(out.Fields[model.KeyRecommendedRoles].([]string)[0], ShouldEqual, "DevOps Engineer")
		})
	})

	Convey("Given a credential with unusable settings", t, func() {
		sel := New(ctx, Settings{APIKey: "sk-test", Endpoint: "::bad::"})

		Convey("Then the remote strategy is disabled", func() {
			So(sel.RemoteEnabled(), ShouldBeFalse)
			So(sel.Classify(ctx, text, p).Source, ShouldEqual, model.SourceHeuristic)
		})
	})

	Convey("Given a remote strategy that succeeds", t, func() {
		stub := &stubCaller{out: model.RawOutput{
			Source: model.SourceRemote,
			Fields: map[string]any{model.KeyInsights: "remote"},
		}}
		sel := New(ctx, Settings{}, WithCaller(stub))

		Convey("Then its output is returned", func() {
			out := sel.Classify(ctx, text, p)
			So(out.Source, ShouldEqual, model.SourceRemote)
			So(stub.calls, ShouldEqual, 1)
		})
	})

	Convey("Given a remote strategy that fails", t, func() {
		stub := &stubCaller{err: &ProviderError{Reason: ReasonTimeout}}
		sel := New(ctx, Settings{}, WithCaller(stub))

		Convey("Then the heuristic answers after exactly one attempt", func() {
			out := sel.Classify(ctx, text, p)
			So(out.Source, ShouldEqual, model.SourceHeuristic)
			So(out.Fields[model.KeyRecommendedRoles].([]string)[0], ShouldEqual, "DevOps Engineer")
			So(stub.calls, ShouldEqual, 1)
		})
	})

	Convey("Given a real provider endpoint returning errors", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		sel := New(ctx, Settings{
			APIKey:    "sk-test",
			Endpoint:  srv.URL,
			Model:     "gpt-3.5-turbo",
			MaxTokens: 1000,
			Timeout:   time.Second,
		})

		Convey("Then the selector degrades to the heuristic", func() {
			So(sel.RemoteEnabled(), ShouldBeTrue)
			So(sel.Classify(ctx, text, p).Source, ShouldEqual, model.SourceHeuristic)
		})
	})
}
