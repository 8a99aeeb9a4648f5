package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"building_scheduler/internal/models"
)

// fakeJournal is a minimal stub that satisfies the repository.Journal interface.
type fakeJournal struct {
	// captured inputs
	gotFilter models.ChangeFilter
	appended  []models.ChangeEntry

	// configured outputs
	entries   []models.ChangeEntry
	err       error
	appendErr error

	calls int
}

func (f *fakeJournal) List(_ context.Context, filter models.ChangeFilter) ([]models.ChangeEntry, error) {
	f.calls++
	f.gotFilter = filter
	return f.entries, f.err
}

func (f *fakeJournal) Append(_ context.Context, e models.ChangeEntry) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeJournal) types() []string {
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

// normalizeToUTC

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want func(time.Time) bool
	}{
		{
			name: "zero time remains zero",
			in:   time.Time{},
			want: func(out time.Time) bool { return out.IsZero() },
		},
		{
			name: "non-UTC converted to UTC preserving instant",
			in:   mustTimeIn(fixedZone("UTC+3", 3*3600), 2025, time.August, 1, 12, 34, 56),
			want: func(out time.Time) bool {
				exp := time.Date(2025, time.August, 1, 9, 34, 56, 0, time.UTC) // 12:34:56+03 == 09:34:56Z
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeToUTC(tc.in)
			if !tc.want(got) {
				t.Fatalf("unexpected normalizeToUTC result: %v (loc=%v)", got, got.Location())
			}
		})
	}
}

func Test_normalizeChangeType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		exp  string
	}{
		{name: "empty stays empty", in: "", exp: ""},
		{name: "trim spaces", in: "  EVENT_CREATED ", exp: "EVENT_CREATED"},
		{name: "uppercase", in: "zone_created", exp: "ZONE_CREATED"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeChangeType(c.in); got != c.exp {
				t.Fatalf("normalizeChangeType(%q) = %q; want %q", c.in, got, c.exp)
			}
		})
	}
}

func TestJournalService_ListChanges_DelegatesNormalizedFilter(t *testing.T) {
	t.Parallel()

	frepo := &fakeJournal{entries: []models.ChangeEntry{{ID: "1"}}}
	svc := NewJournalService(frepo)

	fromLocal := mustTimeIn(fixedZone("UTC+5", 5*3600), 2025, time.October, 1, 10, 0, 0)
	toLocal := mustTimeIn(fixedZone("UTC-2", -2*3600), 2025, time.October, 1, 12, 30, 0)

	out, err := svc.ListChanges(context.Background(), models.ChangeFilter{
		From:     fromLocal,
		To:       toLocal,
		Type:     "  event_deleted ",
		Schedule: " HQ ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "1" || frepo.calls != 1 {
		t.Fatalf("unexpected result: %+v calls=%d", out, frepo.calls)
	}

	got := frepo.gotFilter
	if !got.From.Equal(time.Date(2025, time.October, 1, 5, 0, 0, 0, time.UTC)) || got.From.Location() != time.UTC {
		t.Fatalf("from = %v", got.From)
	}
	if !got.To.Equal(time.Date(2025, time.October, 1, 14, 30, 0, 0, time.UTC)) {
		t.Fatalf("to = %v", got.To)
	}
	if got.Type != "EVENT_DELETED" || got.Schedule != "HQ" {
		t.Fatalf("filter = %+v", got)
	}
}

func TestJournalService_ListChanges_InvalidRange(t *testing.T) {
	t.Parallel()

	frepo := &fakeJournal{}
	_, err := NewJournalService(frepo).ListChanges(context.Background(), models.ChangeFilter{
		From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !models.IsValidation(err, models.ReasonInvalidTimeRange) {
		t.Fatalf("expected InvalidTimeRange; got %v", err)
	}
	if frepo.calls != 0 {
		t.Fatalf("repo should not be called on validation error, calls=%d", frepo.calls)
	}
}

func TestJournalService_ListChanges_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	frepo := &fakeJournal{err: errors.New("db down")}
	_, err := NewJournalService(frepo).ListChanges(context.Background(), models.ChangeFilter{})
	if !errors.Is(err, frepo.err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
}
