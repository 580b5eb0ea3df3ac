package collection

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/store"
	"github.com/MrSnakeDoc/marks/internal/store/memory"
)

var baseTime = time.Date(2024, 3, 5, 10, 4, 5, 123_000_000, time.UTC)

// fixedClock returns base and never advances, forcing id collisions
func fixedClock() time.Time { return baseTime }

func newTestManager(t *testing.T, seed []domain.Bookmark) (*Manager, *memory.Slot) {
	t.Helper()

	slot := memory.NewSlot()
	if seed != nil {
		data, err := store.EncodeRecords(seed)
		if err != nil {
			t.Fatalf("EncodeRecords() error = %v", err)
		}
		if err := slot.Write(context.Background(), data); err != nil {
			t.Fatalf("seed Write() error = %v", err)
		}
	}

	m := NewManager(slot, logger.NewNop(), WithClock(fixedClock))
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m, slot
}

func ids(records []domain.Bookmark) []int64 {
	out := make([]int64, 0, len(records))
	for _, b := range records {
		out = append(out, b.ID)
	}
	return out
}

func slotRecords(t *testing.T, slot store.Slot) []domain.Bookmark {
	t.Helper()

	data, err := slot.Read(context.Background())
	if err != nil {
		t.Fatalf("slot Read() error = %v", err)
	}
	records, err := store.DecodeRecords(data)
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	return records
}

func TestLoadEmptySlot(t *testing.T) {
	m, _ := newTestManager(t, nil)

	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	if got := m.Search(""); got == nil || len(got) != 0 {
		t.Errorf("Search(\"\") = %v, want empty non-nil", got)
	}
}

func TestLoadMalformedSlotIsEmpty(t *testing.T) {
	slot := memory.NewSlot()
	_ = slot.Write(context.Background(), []byte(`{"not":"an array"}`))

	m := NewManager(slot, logger.NewNop())
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

type brokenSlot struct{ err error }

func (s brokenSlot) Read(context.Context) ([]byte, error) { return nil, s.err }
func (s brokenSlot) Write(context.Context, []byte) error  { return s.err }

func TestLoadSurfacesTransportErrors(t *testing.T) {
	boom := errors.New("connection refused")
	m := NewManager(brokenSlot{err: boom}, logger.NewNop())

	if err := m.Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want %v", err, boom)
	}
}

func TestInsertPrependsAndPersists(t *testing.T) {
	m, slot := newTestManager(t, []domain.Bookmark{
		{ID: 1, Title: "old", URL: "https://old.example", Tags: []string{}, Timestamp: "t"},
	})

	got, err := m.Insert(context.Background(), "https://www.github.com/facebook/react", "A cool repo", "")
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	wantTags := []string{"github", "code", "dev", "react", "repo"}
	if !reflect.DeepEqual(got.Tags, wantTags) {
		t.Errorf("Insert() tags = %v, want %v", got.Tags, wantTags)
	}
	if got.ID != baseTime.UnixMilli() {
		t.Errorf("Insert() id = %d, want %d", got.ID, baseTime.UnixMilli())
	}
	if got.Timestamp != "2024-03-05T10:04:05.123Z" {
		t.Errorf("Insert() timestamp = %q", got.Timestamp)
	}

	all := m.Search("")
	if len(all) != 2 || all[0].ID != got.ID {
		t.Errorf("Search(\"\") ids = %v, want new record first", ids(all))
	}

	persisted := slotRecords(t, slot)
	if !reflect.DeepEqual(persisted, all) {
		t.Errorf("slot = %+v, want %+v", persisted, all)
	}
}

func TestInsertManualTagsWin(t *testing.T) {
	m, _ := newTestManager(t, nil)

	got, err := m.Insert(context.Background(), "https://github.com/golang/go", "Go", " Work, TODO ,, ")
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if want := []string{"work", "todo"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("Insert() tags = %v, want %v", got.Tags, want)
	}
}

func TestInsertUsesInjectedClassifier(t *testing.T) {
	slot := memory.NewSlot()
	m := NewManager(slot, logger.NewNop(), WithClassifier(func(string, string) []string {
		return []string{"stub"}
	}))

	got, err := m.Insert(context.Background(), "u", "t", "")
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"stub"}) {
		t.Errorf("Insert() tags = %v, want [stub]", got.Tags)
	}
}

func TestInsertIDsAreUniqueWithinSameMillisecond(t *testing.T) {
	m, _ := newTestManager(t, nil)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		b, err := m.Insert(ctx, "https://example.com", "", "x")
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if seen[b.ID] {
			t.Fatalf("duplicate id %d", b.ID)
		}
		seen[b.ID] = true
	}

	got := ids(m.Search(""))
	for i := 1; i < len(got); i++ {
		if got[i-1] <= got[i] {
			t.Errorf("ids not decreasing newest-first: %v", got)
		}
	}
}

func TestInsertIDsStayUniqueAfterMaxID(t *testing.T) {
	m, _ := newTestManager(t, nil)
	ctx := context.Background()

	payload := []byte(`[{"id":9223372036854775807,"title":"top","url":"u","tags":[],"timestamp":"t"}]`)
	if _, err := m.ImportMerge(ctx, payload); err != nil {
		t.Fatalf("ImportMerge() error = %v", err)
	}

	a, err := m.Insert(ctx, "https://a.example.com", "a", "x")
	if err != nil {
		t.Fatalf("Insert(a) error = %v", err)
	}
	b, err := m.Insert(ctx, "https://b.example.com", "b", "x")
	if err != nil {
		t.Fatalf("Insert(b) error = %v", err)
	}
	added, err := m.InsertBatch(ctx, []Draft{{URL: "https://c.example.com"}, {URL: "https://d.example.com"}})
	if err != nil || added != 2 {
		t.Fatalf("InsertBatch() = %d, %v, want 2", added, err)
	}

	seen := make(map[int64]bool)
	for _, id := range ids(m.ExportAll()) {
		if id < 0 {
			t.Errorf("id %d wrapped around", id)
		}
		if seen[id] {
			t.Errorf("duplicate id %d in %v", id, ids(m.ExportAll()))
		}
		seen[id] = true
	}
	if a.ID != baseTime.UnixMilli() {
		t.Errorf("a.ID = %d, want capture time %d", a.ID, baseTime.UnixMilli())
	}

	if err := m.DeleteByID(ctx, b.ID); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}
	if got := m.Len(); got != 4 {
		t.Errorf("Len() after delete = %d, want 4", got)
	}
}

func TestNextIDBlockBelowClockIsFree(t *testing.T) {
	now := baseTime.UnixMilli()
	current := []domain.Bookmark{{ID: math.MaxInt64 - 1}, {ID: now}, {ID: now - 2}}

	base := nextID(current, baseTime, 2)
	for k := int64(0); k < 2; k++ {
		for _, b := range current {
			if b.ID == base+k {
				t.Fatalf("nextID() block starting at %d reuses %d", base, b.ID)
			}
		}
	}
	if base != now-4 {
		t.Errorf("nextID() = %d, want %d", base, now-4)
	}

	if got := nextID([]domain.Bookmark{{ID: now + 5}}, baseTime, 3); got != now+6 {
		t.Errorf("nextID() = %d, want %d", got, now+6)
	}
}

func TestInsertAcceptsUnparseableURL(t *testing.T) {
	m, _ := newTestManager(t, nil)

	got, err := m.Insert(context.Background(), "not a url", "Python basics", "")
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if got.URL != "not a url" {
		t.Errorf("URL = %q, want verbatim", got.URL)
	}
	if !reflect.DeepEqual(got.Tags, []string{"python"}) {
		t.Errorf("tags = %v, want [python]", got.Tags)
	}
}

func TestInsertPersistFailureKeepsState(t *testing.T) {
	m, slot := newTestManager(t, []domain.Bookmark{
		{ID: 1, Title: "kept", URL: "u", Tags: []string{"a"}, Timestamp: "t"},
	})
	boom := errors.New("quota exceeded")
	slot.FailWrites(boom)

	if _, err := m.Insert(context.Background(), "https://x", "x", ""); !errors.Is(err, boom) {
		t.Fatalf("Insert() error = %v, want %v", err, boom)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d after failed write, want 1", m.Len())
	}
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	seed := []domain.Bookmark{
		{ID: 3, Title: "c", URL: "u3", Tags: []string{}, Timestamp: "t"},
		{ID: 2, Title: "b", URL: "u2", Tags: []string{}, Timestamp: "t"},
		{ID: 1, Title: "a", URL: "u1", Tags: []string{}, Timestamp: "t"},
	}
	m, slot := newTestManager(t, seed)
	ctx := context.Background()

	if err := m.DeleteByID(ctx, 2); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}
	once := m.ExportAll()

	if err := m.DeleteByID(ctx, 2); err != nil {
		t.Fatalf("second DeleteByID() error = %v", err)
	}
	twice := m.ExportAll()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second delete changed state: %v vs %v", ids(once), ids(twice))
	}
	if want := []int64{3, 1}; !reflect.DeepEqual(ids(twice), want) {
		t.Errorf("ids = %v, want %v", ids(twice), want)
	}
	if !reflect.DeepEqual(slotRecords(t, slot), twice) {
		t.Error("slot differs from memory after delete")
	}

	if err := m.DeleteByID(ctx, 999); err != nil {
		t.Errorf("DeleteByID(absent) error = %v, want nil", err)
	}
}

func TestEditTags(t *testing.T) {
	seed := []domain.Bookmark{
		{ID: 2, Title: "b", URL: "u2", Tags: []string{"go"}, Timestamp: "t"},
		{ID: 1, Title: "a", URL: "u1", Tags: []string{"go", "web"}, Timestamp: "t"},
	}
	ctx := context.Background()

	t.Run("replaces tags wholesale", func(t *testing.T) {
		m, _ := newTestManager(t, seed)

		got, found, err := m.EditTags(ctx, 1, "Rust, CLI")
		if err != nil || !found {
			t.Fatalf("EditTags() = (%v, %v)", found, err)
		}
		if want := []string{"rust", "cli"}; !reflect.DeepEqual(got.Tags, want) {
			t.Errorf("tags = %v, want %v", got.Tags, want)
		}
	})

	t.Run("empty text clears tags and removes from filter", func(t *testing.T) {
		m, _ := newTestManager(t, seed)

		if _, _, err := m.EditTags(ctx, 1, ""); err != nil {
			t.Fatalf("EditTags() error = %v", err)
		}
		b, err := m.Get(1)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if b.Tags == nil || len(b.Tags) != 0 {
			t.Errorf("tags = %#v, want empty non-nil", b.Tags)
		}
		if got := ids(m.FilterByTag("go")); !reflect.DeepEqual(got, []int64{2}) {
			t.Errorf("FilterByTag(go) = %v, want [2]", got)
		}
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		m, _ := newTestManager(t, seed)
		before := m.ExportAll()

		_, found, err := m.EditTags(ctx, 42, "x")
		if err != nil || found {
			t.Fatalf("EditTags(absent) = (%v, %v), want (false, nil)", found, err)
		}
		if !reflect.DeepEqual(before, m.ExportAll()) {
			t.Error("EditTags(absent) changed state")
		}
	})
}

func TestSearch(t *testing.T) {
	m, _ := newTestManager(t, []domain.Bookmark{
		{ID: 3, Title: "Kubernetes Docs", URL: "https://kubernetes.io", Tags: []string{"k8s"}, Timestamp: "t"},
		{ID: 2, Title: "Go blog", URL: "https://go.dev/blog", Tags: []string{"golang"}, Timestamp: "t"},
		{ID: 1, Title: "Misc", URL: "https://example.com", Tags: []string{"GoLand"}, Timestamp: "t"},
	})

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "empty returns all", query: "", want: []int64{3, 2, 1}},
		{name: "title case-insensitive", query: "KUBER", want: []int64{3}},
		{name: "url substring", query: "go.dev", want: []int64{2}},
		{name: "tag substring", query: "lang", want: []int64{2}},
		{name: "tags are lowercased before compare", query: "goland", want: []int64{1}},
		{name: "no match", query: "zzz", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(m.Search(tt.query)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterByTag(t *testing.T) {
	m, _ := newTestManager(t, []domain.Bookmark{
		{ID: 2, Title: "a", URL: "u", Tags: []string{"go", "web"}, Timestamp: "t"},
		{ID: 1, Title: "b", URL: "u", Tags: []string{"gopher"}, Timestamp: "t"},
	})

	tests := []struct {
		tag  string
		want []int64
	}{
		{tag: "", want: []int64{2, 1}},
		{tag: "go", want: []int64{2}},
		{tag: "  GO ", want: []int64{2}},
		{tag: "goph", want: []int64{}},
	}

	for _, tt := range tests {
		if got := ids(m.FilterByTag(tt.tag)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FilterByTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestTagFrequencies(t *testing.T) {
	m, _ := newTestManager(t, []domain.Bookmark{
		{ID: 3, Tags: []string{"a", "b"}},
		{ID: 2, Tags: []string{"a", "c"}},
		{ID: 1, Tags: []string{"c", "c"}},
	})

	got := m.TagFrequencies(3)
	want := []domain.TagCount{{Tag: "c", Count: 3}, {Tag: "a", Count: 2}, {Tag: "b", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TagFrequencies(3) = %v, want %v", got, want)
	}

	if got := m.TagFrequencies(1); len(got) != 1 || got[0].Tag != "c" {
		t.Errorf("TagFrequencies(1) = %v", got)
	}
}

func TestTagFrequenciesTiesAndDefaultLimit(t *testing.T) {
	var seed []domain.Bookmark
	tags := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		tags = append(tags, string(rune('a'+i)))
	}
	seed = append(seed, domain.Bookmark{ID: 1, Tags: tags})
	m, _ := newTestManager(t, seed)

	got := m.TagFrequencies(0)
	if len(got) != DefaultTagLimit {
		t.Fatalf("TagFrequencies(0) len = %d, want %d", len(got), DefaultTagLimit)
	}
	for i, tc := range got {
		if tc.Tag != tags[i] {
			t.Errorf("entry %d = %q, want %q (first-encountered order)", i, tc.Tag, tags[i])
		}
	}
}

func TestImportMergeRejectsNonArray(t *testing.T) {
	seed := []domain.Bookmark{{ID: 1, Title: "a", URL: "u", Tags: []string{"x"}, Timestamp: "t"}}
	m, slot := newTestManager(t, seed)
	before, _ := slot.Read(context.Background())
	writes := slot.Writes()

	for _, payload := range []string{`{"id":1}`, `"text"`, `null`, `42`, `[1,2]`, `not json`} {
		n, err := m.ImportMerge(context.Background(), []byte(payload))
		if !errors.Is(err, domain.ErrInvalidImportFormat) {
			t.Errorf("ImportMerge(%s) error = %v, want ErrInvalidImportFormat", payload, err)
		}
		if n != 0 {
			t.Errorf("ImportMerge(%s) = %d, want 0", payload, n)
		}
	}

	after, _ := slot.Read(context.Background())
	if string(before) != string(after) || slot.Writes() != writes {
		t.Error("rejected import touched the slot")
	}
	if !reflect.DeepEqual(m.ExportAll(), seed) {
		t.Error("rejected import changed the collection")
	}
}

func TestImportMergePrependsInGivenOrder(t *testing.T) {
	m, _ := newTestManager(t, []domain.Bookmark{
		{ID: 1, Title: "existing", URL: "u", Tags: []string{}, Timestamp: "t"},
	})

	payload := []byte(`[{"id":10,"title":"x","url":"ux","tags":["a"],"timestamp":"t1"},{"id":20,"title":"y","url":"uy","timestamp":"t2"}]`)
	n, err := m.ImportMerge(context.Background(), payload)
	if err != nil {
		t.Fatalf("ImportMerge() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ImportMerge() = %d, want 2", n)
	}

	all := m.ExportAll()
	if want := []int64{10, 20, 1}; !reflect.DeepEqual(ids(all), want) {
		t.Errorf("ids = %v, want %v", ids(all), want)
	}
	if all[1].Tags == nil {
		t.Error("missing tags should decode as an empty list")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source, _ := newTestManager(t, nil)
	ctx := context.Background()
	for _, u := range []string{"https://github.com/a", "https://stackoverflow.com/q/1", "https://example.com"} {
		if _, err := source.Insert(ctx, u, "Some title about golang", ""); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	exported, err := source.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	target, _ := newTestManager(t, nil)
	if _, err := target.ImportMerge(ctx, exported); err != nil {
		t.Fatalf("ImportMerge() error = %v", err)
	}

	if !reflect.DeepEqual(source.ExportAll(), target.ExportAll()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", target.ExportAll(), source.ExportAll())
	}
}

func TestMutationsRereadSlot(t *testing.T) {
	m, slot := newTestManager(t, nil)
	ctx := context.Background()

	// another writer replaces the slot behind the manager's back
	data, _ := store.EncodeRecords([]domain.Bookmark{{ID: 7, Title: "external", URL: "u", Tags: []string{}, Timestamp: "t"}})
	_ = slot.Write(ctx, data)

	if _, err := m.Insert(ctx, "https://example.com", "", "x"); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if got := ids(m.ExportAll()); len(got) != 2 || got[1] != 7 {
		t.Errorf("ids = %v, want new record then 7", got)
	}
}

func TestGet(t *testing.T) {
	m, _ := newTestManager(t, []domain.Bookmark{{ID: 5, Title: "five", Tags: []string{"a"}}})

	b, err := m.Get(5)
	if err != nil || b.Title != "five" {
		t.Fatalf("Get(5) = (%+v, %v)", b, err)
	}

	b.Tags[0] = "mutated"
	again, _ := m.Get(5)
	if again.Tags[0] != "a" {
		t.Error("Get() leaked internal tag slice")
	}

	if _, err := m.Get(6); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Get(6) error = %v, want ErrRecordNotFound", err)
	}
}

func TestExportFilename(t *testing.T) {
	if got := ExportFilename(baseTime); got != "bookmarks-1709633045123.json" {
		t.Errorf("ExportFilename() = %q", got)
	}
}

func TestInsertBatch(t *testing.T) {
	m, _ := newTestManager(t, []domain.Bookmark{
		{ID: baseTime.UnixMilli() + 10, Title: "existing", URL: "https://a.example", Tags: []string{}, Timestamp: "t"},
	})
	ctx := context.Background()

	drafts := []Draft{
		{URL: "https://b.example", Title: "B", Tags: []string{"b"}},
		{URL: "https://a.example", Title: "dup of existing"},
		{URL: "https://c.example", Title: "C"},
		{URL: "https://b.example", Title: "dup inside batch"},
		{URL: "", Title: "no url"},
	}

	n, err := m.InsertBatch(ctx, drafts)
	if err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}
	if n != 2 {
		t.Errorf("InsertBatch() = %d, want 2", n)
	}

	all := m.ExportAll()
	if len(all) != 3 || all[0].URL != "https://b.example" || all[1].URL != "https://c.example" {
		t.Fatalf("order = %+v, want b, c, existing", all)
	}
	if !(all[0].ID > all[1].ID && all[1].ID > all[2].ID) {
		t.Errorf("ids = %v, want strictly decreasing", ids(all))
	}
	if all[1].Tags == nil {
		t.Error("nil draft tags should be stored as an empty list")
	}

	again, err := m.InsertBatch(ctx, drafts)
	if err != nil || again != 0 {
		t.Errorf("second InsertBatch() = (%d, %v), want (0, nil)", again, err)
	}
}
