package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tomotrip/internal/core/guidefilter"
	perr "tomotrip/internal/platform/errors"
	"tomotrip/internal/platform/testkit"
	"tomotrip/internal/services/api/guides/domain"
	"tomotrip/internal/services/api/guides/repo"
)

var fixedNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func catalog() repo.Static {
	return repo.Static{
		{ID: "g1", Name: "Aiko", Location: "Tokyo Shibuya", Languages: []string{"Japanese", "English"}, HourlyFee: 5000, Keywords: []string{"night", "food"}, Verification: guidefilter.VerificationVerified},
		{ID: "g2", Name: "Ken", Location: "Osaka", Languages: []string{"Japanese"}, HourlyFee: 3000, Keywords: []string{"culture"}},
		{ID: "g3", Name: "Mina", Location: "Tokyo Asakusa", Languages: []string{"English"}, HourlyFee: 8000, Keywords: []string{"temples"}},
	}
}

type fakeSink struct {
	mu   sync.Mutex
	evs  []repo.SearchEvent
	fail error
}

func (f *fakeSink) Record(_ context.Context, ev repo.SearchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evs = append(f.evs, ev)
	return f.fail
}

type flakySource struct {
	mu      sync.Mutex
	records []guidefilter.GuideRecord
	err     error
	calls   int
}

func (f *flakySource) Load(context.Context) ([]guidefilter.GuideRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (*flakySource) Name() string { return "flaky" }

func loaded(t *testing.T, sink repo.EventSink) *Svc {
	t.Helper()
	s := New(catalog(), sink, Options{Now: func() time.Time { return fixedNow }})
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return s
}

func ids(gs []domain.Guide) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}

func eq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_PanicsWithoutSource(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, nil, Options{}) })
}

func TestSearch_BeforeReload_Unavailable(t *testing.T) {
	t.Parallel()
	s := New(catalog(), nil, Options{})
	_, err := s.Search(context.Background(), domain.SearchInput{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if _, err := s.List(context.Background(), 1, 0); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("list want unavailable, got %v", err)
	}
	if _, err := s.Get(context.Background(), "g1"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("get want unavailable, got %v", err)
	}
	if info := s.Catalog(); info.Loaded || info.Source != "static" {
		t.Fatalf("catalog info before load: %+v", info)
	}
}

func TestSearch_Filters(t *testing.T) {
	t.Parallel()

	fee := domain.FeeOf
	cases := []struct {
		name string
		in   domain.SearchInput
		want []string
		text string
	}{
		{"empty form shows all", domain.SearchInput{}, []string{"g1", "g2", "g3"}, "全3件のガイドを表示中"},
		{"location", domain.SearchInput{Location: " tokyo "}, []string{"g1", "g3"}, "2件のガイドが見つかりました（全3件中）"},
		{"language", domain.SearchInput{Language: "english"}, []string{"g1", "g3"}, "2件のガイドが見つかりました（全3件中）"},
		{"fee inclusive", domain.SearchInput{MaxFee: fee(5000)}, []string{"g1", "g2"}, "2件のガイドが見つかりました（全3件中）"},
		{"checked keyword", domain.SearchInput{Keywords: []string{"Culture"}}, []string{"g2"}, "1件のガイドが見つかりました（全3件中）"},
		{"custom keywords", domain.SearchInput{CustomKeywords: "temples, food"}, []string{"g1", "g3"}, "2件のガイドが見つかりました（全3件中）"},
		{"keyword matches location", domain.SearchInput{CustomKeywords: "osaka"}, []string{"g2"}, "1件のガイドが見つかりました（全3件中）"},
		{"anded", domain.SearchInput{Location: "Tokyo", Language: "Japanese", MaxFee: fee(6000)}, []string{"g1"}, "1件のガイドが見つかりました（全3件中）"},
		{"nothing", domain.SearchInput{Location: "Kyoto"}, []string{}, "0件のガイドが見つかりました（全3件中）"},
		{"zero fee is no limit", domain.SearchInput{MaxFee: fee(0)}, []string{"g1", "g2", "g3"}, "全3件のガイドを表示中"},
		{"any location", domain.SearchInput{Location: "すべて"}, []string{"g1", "g2", "g3"}, "全3件のガイドを表示中"},
		{"any language", domain.SearchInput{Language: "すべて", MaxFee: fee(5000)}, []string{"g1", "g2"}, "2件のガイドが見つかりました（全3件中）"},
	}
	s := loaded(t, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.Search(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if got := ids(res.Guides); !eq(got, tc.want) {
				t.Fatalf("ids = %v want %v", got, tc.want)
			}
			if res.Summary.Text != tc.text {
				t.Fatalf("summary = %q want %q", res.Summary.Text, tc.text)
			}
			if res.Summary.NoResults != (len(tc.want) == 0) {
				t.Fatalf("no results flag = %v", res.Summary.NoResults)
			}
		})
	}
}

func TestSearch_NoResultsMessage(t *testing.T) {
	t.Parallel()
	s := loaded(t, nil)
	res, err := s.Search(context.Background(), domain.SearchInput{Language: "French"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Message != guidefilter.NoResultsMessage {
		t.Fatalf("message = %q", res.Summary.Message)
	}
	if res.Guides == nil {
		t.Fatal("guides must be an empty slice, not nil")
	}
}

func TestSearch_EffectiveQuery(t *testing.T) {
	t.Parallel()
	s := loaded(t, nil)
	res, err := s.Search(context.Background(), domain.SearchInput{
		Language:       "English",
		Keywords:       []string{"night", " "},
		CustomKeywords: "food,NIGHT",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !eq(res.Query.Keywords, []string{"night", "food"}) {
		t.Fatalf("keywords = %v", res.Query.Keywords)
	}
	if !eq(res.Query.Active, []string{"language", "keywords"}) {
		t.Fatalf("active = %v", res.Query.Active)
	}
}

func TestSearch_Paginates(t *testing.T) {
	t.Parallel()
	s := loaded(t, nil)
	res, err := s.Search(context.Background(), domain.SearchInput{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !eq(ids(res.Guides), []string{"g3"}) {
		t.Fatalf("page 2 = %v", ids(res.Guides))
	}
	if res.Page.Pages != 2 || res.Page.Total != 3 || res.Page.HasNext() {
		t.Fatalf("page info = %+v", res.Page)
	}
	// summary counts all matches, not the window
	if res.Summary.Matched != 3 {
		t.Fatalf("matched = %d", res.Summary.Matched)
	}
}

func TestSearch_DefaultPerPage(t *testing.T) {
	t.Parallel()
	s := New(catalog(), nil, Options{PerPage: 1})
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	res, err := s.Search(context.Background(), domain.SearchInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Guides) != 1 || res.Page.PerPage != 1 {
		t.Fatalf("per page default not applied: %+v", res.Page)
	}
}

func TestSearch_RecordsEvent(t *testing.T) {
	t.Parallel()
	sink := &fakeSink{}
	s := loaded(t, sink)
	if _, err := s.Search(context.Background(), domain.SearchInput{Location: "Osaka", MaxFee: domain.FeeOf(4000), CustomKeywords: "culture"}); err != nil {
		t.Fatal(err)
	}
	if len(sink.evs) != 1 {
		t.Fatalf("events = %d", len(sink.evs))
	}
	ev := sink.evs[0]
	if ev.Location != "Osaka" || ev.Matched != 1 || ev.Total != 3 || !ev.At.Equal(fixedNow) {
		t.Fatalf("event = %+v", ev)
	}
	if ev.MaxFee == nil || *ev.MaxFee != 4000 || !eq(ev.Keywords, []string{"culture"}) {
		t.Fatalf("event query = %+v", ev)
	}
}

func TestSearch_SinkFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	s := loaded(t, &fakeSink{fail: errors.New("clickhouse down")})
	res, err := s.Search(context.Background(), domain.SearchInput{})
	if err != nil {
		t.Fatalf("sink errors must not surface: %v", err)
	}
	if len(res.Guides) != 3 {
		t.Fatalf("guides = %d", len(res.Guides))
	}
}

func TestList_IsResetViewWithoutEvents(t *testing.T) {
	t.Parallel()
	sink := &fakeSink{}
	s := loaded(t, sink)
	res, err := s.List(context.Background(), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !eq(ids(res.Guides), []string{"g1", "g2"}) || !res.Page.HasNext() {
		t.Fatalf("list = %v %+v", ids(res.Guides), res.Page)
	}
	if res.Summary.Text != "全3件のガイドを表示中" || len(res.Query.Active) != 0 {
		t.Fatalf("list summary/query = %+v %+v", res.Summary, res.Query)
	}
	if len(sink.evs) != 0 {
		t.Fatal("list must not record search events")
	}
}

func TestGet(t *testing.T) {
	t.Parallel()
	s := loaded(t, nil)

	g, err := s.Get(context.Background(), " g1 ")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "Aiko" || g.VerificationStatus != "verified" {
		t.Fatalf("guide = %+v", g)
	}
	if g, _ := s.Get(context.Background(), "g2"); g.VerificationStatus != "unverified" {
		t.Fatalf("default status = %q", g.VerificationStatus)
	}
	if _, err := s.Get(context.Background(), "nope"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if _, err := s.Get(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("want validation, got %v", err)
	}
}

func TestResetQuery(t *testing.T) {
	t.Parallel()
	q := New(catalog(), nil, Options{}).ResetQuery()
	if q.Location != "" || q.Language != "" || q.MaxFee != nil || len(q.Keywords) != 0 || len(q.Active) != 0 {
		t.Fatalf("reset query = %+v", q)
	}
	if q.Keywords == nil || q.Active == nil {
		t.Fatal("reset query slices must encode as []")
	}
}

func TestReload_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	t.Parallel()
	src := &flakySource{records: catalog()}
	s := New(src, nil, Options{Now: func() time.Time { return fixedNow }})
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.err = errors.New("pg down")
	if err := s.Reload(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	info := s.Catalog()
	if !info.Loaded || info.Size != 3 || info.Source != "flaky" || info.LoadedAt != "2026-04-01T09:30:00Z" {
		t.Fatalf("catalog info = %+v", info)
	}

	src.err = nil
	src.records = []guidefilter.GuideRecord{{ID: "g1", Name: "Aiko", Languages: nil, HourlyFee: 1}}
	if err := s.Reload(context.Background()); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("want validation, got %v", err)
	}
	if s.Catalog().Size != 3 {
		t.Fatal("invalid catalog must not replace the served one")
	}
}

func TestReload_SwapsSnapshot(t *testing.T) {
	t.Parallel()
	src := &flakySource{records: catalog()}
	s := New(src, nil, Options{})
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	src.records = catalog()[:1]
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	res, err := s.List(context.Background(), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !eq(ids(res.Guides), []string{"g1"}) {
		t.Fatalf("after swap = %v", ids(res.Guides))
	}
}

func TestRun_RefreshesUntilCancelled(t *testing.T) {
	t.Parallel()
	src := &flakySource{records: catalog()}
	s := New(src, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 5*time.Millisecond) }()

	deadline := time.After(2 * time.Second)
	for {
		src.mu.Lock()
		n := src.calls
		src.mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("refresher made %d calls", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned %v", err)
	}
	if !s.Catalog().Loaded {
		t.Fatal("refresher should have loaded the catalog")
	}
}

func TestRun_DisabledReturnsImmediately(t *testing.T) {
	t.Parallel()
	if err := New(catalog(), nil, Options{}).Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
}

func TestSearch_ConcurrentWithReload(t *testing.T) {
	t.Parallel()
	s := loaded(t, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			res, err := s.Search(context.Background(), domain.SearchInput{Location: "Tokyo"})
			if err != nil || len(res.Guides) != 2 {
				t.Errorf("search during reload: %v %d", err, len(res.Guides))
			}
		}()
		go func() {
			defer wg.Done()
			_ = s.Reload(context.Background())
		}()
	}
	wg.Wait()
}
