package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shelf/internal/book"
	"shelf/internal/platform/openlibrary"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) SubjectWorks(ctx context.Context, subject string, limit int) (*openlibrary.SubjectResponse, error) {
	args := m.Called(ctx, subject, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.SubjectResponse), args.Error(1)
}

func (m *mockSource) Work(ctx context.Context, workID string) (*openlibrary.WorkDetails, error) {
	args := m.Called(ctx, workID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.WorkDetails), args.Error(1)
}

func (m *mockSource) Edition(ctx context.Context, editionKey string) (*openlibrary.Edition, error) {
	args := m.Called(ctx, editionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.Edition), args.Error(1)
}

// memStore is an in-memory Store that can be told to reject titles.
type memStore struct {
	titles  map[string]bool
	created []book.Input
	reject  map[string]error
}

func newMemStore() *memStore {
	return &memStore{titles: map[string]bool{}, reject: map[string]error{}}
}

func (s *memStore) ExistsByTitle(_ context.Context, title string) (bool, error) {
	return s.titles[title], nil
}

func (s *memStore) Create(_ context.Context, in book.Input) (book.Book, error) {
	if err := s.reject[in.Title]; err != nil {
		return book.Book{}, err
	}
	s.titles[in.Title] = true
	s.created = append(s.created, in)
	return book.Book{ID: fmt.Sprintf("id-%d", len(s.created)), Title: in.Title}, nil
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(context.Context) error {
	p.waits++
	return nil
}

func intPtr(i int) *int { return &i }

func work(key, title string) openlibrary.Work {
	return openlibrary.Work{
		Key:     key,
		Title:   title,
		Authors: []openlibrary.Author{{Name: "Author of " + strings.TrimSpace(title)}},
	}
}

func subjectResp(works ...openlibrary.Work) *openlibrary.SubjectResponse {
	return &openlibrary.SubjectResponse{Works: works}
}

func newTestSeeder(src WorkSource, store Store, pacer Pacer, subjects ...string) (*Seeder, *bytes.Buffer) {
	cfg := DefaultConfig()
	if len(subjects) > 0 {
		cfg.Subjects = subjects
	}
	var buf bytes.Buffer
	return NewSeeder(src, store, pacer, cfg, log.New(&buf, "", 0)), &buf
}

func TestSeeder_Run_StopsAtTarget(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	store := newMemStore()
	pacer := &countingPacer{}

	// target 3 over 15 subjects asks for 3/15+1 = 1 work per subject
	for i, subject := range DefaultSubjects[:3] {
		key := fmt.Sprintf("/works/OL%dW", i)
		src.On("SubjectWorks", mock.Anything, subject, 1).
			Return(subjectResp(work(key, "Book "+subject)), nil).Once()
		src.On("Work", mock.Anything, fmt.Sprintf("OL%dW", i)).
			Return(&openlibrary.WorkDetails{Description: "d"}, nil).Once()
	}

	s, logs := newTestSeeder(src, store, pacer)
	created := s.Run(ctx, 3)

	assert.Equal(t, 3, created)
	assert.Len(t, store.created, 3)
	assert.Equal(t, 3, pacer.waits)
	src.AssertExpectations(t)
	for _, subject := range DefaultSubjects[3:] {
		src.AssertNotCalled(t, "SubjectWorks", mock.Anything, subject, mock.Anything)
	}
	assert.Contains(t, logs.String(), "[3/3] Book "+DefaultSubjects[2])
	assert.Contains(t, logs.String(), "Done! Created 3 books.")
}

func TestSeeder_Run_SubjectFailureIsSkipped(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	store := newMemStore()

	src.On("SubjectWorks", mock.Anything, "fiction", 3).
		Return(nil, context.DeadlineExceeded).Once()
	src.On("SubjectWorks", mock.Anything, "horror", 3).
		Return(subjectResp(work("", "It"), work("", "Carrie")), nil).Once()

	s, logs := newTestSeeder(src, store, NoPacer{}, "fiction", "horror")
	created := s.Run(ctx, 5)

	assert.Equal(t, 2, created)
	for _, in := range store.created {
		assert.Equal(t, []string{"Horror"}, in.Genres)
	}
	assert.Contains(t, logs.String(), "Failed to fetch fiction: context deadline exceeded")
	assert.Contains(t, logs.String(), "Done! Created 2 books.")
	src.AssertExpectations(t)
}

func TestSeeder_Run_TrimsAndDeduplicatesTitles(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	store := newMemStore()
	pacer := &countingPacer{}

	src.On("SubjectWorks", mock.Anything, "science_fiction", mock.Anything).
		Return(subjectResp(work("", "  Dune  "), work("", "   ")), nil).Once()
	src.On("SubjectWorks", mock.Anything, "classic_literature", mock.Anything).
		Return(subjectResp(work("", "Dune")), nil).Once()

	s, logs := newTestSeeder(src, store, pacer, "science_fiction", "classic_literature")
	created := s.Run(ctx, 10)

	require.Equal(t, 1, created)
	assert.Equal(t, "Dune", store.created[0].Title)
	assert.Equal(t, []string{"Science Fiction"}, store.created[0].Genres)
	assert.Equal(t, 1, pacer.waits, "skips do not pause")
	assert.NotContains(t, logs.String(), "Skipped")
}

func TestSeeder_Run_Description(t *testing.T) {
	ctx := context.Background()
	long := strings.Repeat("é", 2500)

	tests := []struct {
		name string
		desc any
		want string
	}{
		{"structured", map[string]any{"type": "/type/text", "value": "A story."}, "A story."},
		{"plain", "Plain text", "Plain text"},
		{"missing", nil, ""},
		{"truncated", long, strings.Repeat("é", 2000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(mockSource)
			store := newMemStore()
			src.On("SubjectWorks", mock.Anything, "fiction", mock.Anything).
				Return(subjectResp(work("/works/OL1W", "Book")), nil)
			src.On("Work", mock.Anything, "OL1W").
				Return(&openlibrary.WorkDetails{Description: tt.desc}, nil)

			s, _ := newTestSeeder(src, store, NoPacer{}, "fiction")
			require.Equal(t, 1, s.Run(ctx, 1))

			assert.Equal(t, tt.want, store.created[0].Description)
		})
	}
}

func TestSeeder_Run_EditionDetails(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	store := newMemStore()

	w := work("/works/OL893415W", "Dune")
	w.CoverID = intPtr(11481354)
	w.CoverEditionKey = "OL26242482M"
	w.Authors = []openlibrary.Author{{Name: "Frank Herbert"}, {Key: "/authors/OL1A"}}

	src.On("SubjectWorks", mock.Anything, "science_fiction", mock.Anything).Return(subjectResp(w), nil)
	src.On("Work", mock.Anything, "OL893415W").Return(&openlibrary.WorkDetails{Description: "Spice."}, nil)
	src.On("Edition", mock.Anything, "OL26242482M").Return(&openlibrary.Edition{
		NumberOfPages: intPtr(412),
		ISBN13:        []string{"9780441172719", "9780000000000"},
		Publishers:    []string{"Ace", "Chilton"},
		PublishDate:   "1990",
	}, nil)

	s, _ := newTestSeeder(src, store, NoPacer{}, "science_fiction")
	require.Equal(t, 1, s.Run(ctx, 1))

	got := store.created[0]
	assert.Equal(t, []string{"Frank Herbert", ""}, got.Authors)
	require.NotNil(t, got.CoverURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/11481354-L.jpg", *got.CoverURL)
	require.NotNil(t, got.PageCount)
	assert.Equal(t, 412, *got.PageCount)
	require.NotNil(t, got.ISBN13)
	assert.Equal(t, "9780441172719", *got.ISBN13)
	assert.Nil(t, got.ISBN10)
	assert.Equal(t, "Ace", got.Publisher)
	assert.Equal(t, "1990", got.PublishDate)
	assert.Equal(t, "Spice.", got.Description)
}

func TestSeeder_Run_DetailFailureStillCreates(t *testing.T) {
	ctx := context.Background()

	t.Run("work lookup fails", func(t *testing.T) {
		src := new(mockSource)
		store := newMemStore()
		w := work("/works/OL1W", "Emma")
		w.CoverEditionKey = "OL1M"
		src.On("SubjectWorks", mock.Anything, "fiction", mock.Anything).Return(subjectResp(w), nil)
		src.On("Work", mock.Anything, "OL1W").Return(nil, errors.New("timeout"))

		s, logs := newTestSeeder(src, store, NoPacer{}, "fiction")
		require.Equal(t, 1, s.Run(ctx, 1))

		assertNoDetails(t, store.created[0])
		src.AssertNotCalled(t, "Edition", mock.Anything, mock.Anything)
		assert.NotContains(t, logs.String(), "timeout")
	})

	t.Run("edition lookup fails after work succeeded", func(t *testing.T) {
		src := new(mockSource)
		store := newMemStore()
		w := work("/works/OL1W", "Emma")
		w.CoverEditionKey = "OL1M"
		src.On("SubjectWorks", mock.Anything, "fiction", mock.Anything).Return(subjectResp(w), nil)
		src.On("Work", mock.Anything, "OL1W").Return(&openlibrary.WorkDetails{Description: "kept?"}, nil)
		src.On("Edition", mock.Anything, "OL1M").Return(nil, errors.New("bad json"))

		s, _ := newTestSeeder(src, store, NoPacer{}, "fiction")
		require.Equal(t, 1, s.Run(ctx, 1))

		assertNoDetails(t, store.created[0])
	})

	t.Run("no work key", func(t *testing.T) {
		src := new(mockSource)
		store := newMemStore()
		src.On("SubjectWorks", mock.Anything, "fiction", mock.Anything).Return(subjectResp(work("", "Emma")), nil)

		s, _ := newTestSeeder(src, store, NoPacer{}, "fiction")
		require.Equal(t, 1, s.Run(ctx, 1))

		assertNoDetails(t, store.created[0])
		src.AssertNotCalled(t, "Work", mock.Anything, mock.Anything)
	})
}

func assertNoDetails(t *testing.T, in book.Input) {
	t.Helper()
	assert.Equal(t, "", in.Description)
	assert.Nil(t, in.PageCount)
	assert.Nil(t, in.ISBN10)
	assert.Nil(t, in.ISBN13)
	assert.Equal(t, "", in.Publisher)
	assert.Equal(t, "", in.PublishDate)
}

func TestSeeder_Run_StoreFailureIsLoggedAndSkipped(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	store := newMemStore()
	store.reject["Emma"] = book.ErrConflict
	pacer := &countingPacer{}

	src.On("SubjectWorks", mock.Anything, "fiction", mock.Anything).
		Return(subjectResp(work("", "Emma"), work("", "Persuasion")), nil)

	s, logs := newTestSeeder(src, store, pacer, "fiction")
	created := s.Run(ctx, 5)

	assert.Equal(t, 1, created)
	assert.Equal(t, 2, pacer.waits)
	assert.Contains(t, logs.String(), `Skipped "Emma": book with this isbn already exists`)
	assert.Contains(t, logs.String(), "[1/5] Persuasion")
}

type lookupErrStore struct {
	*memStore
}

func (lookupErrStore) ExistsByTitle(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestSeeder_Run_LookupErrorSkipsSilently(t *testing.T) {
	src := new(mockSource)
	store := lookupErrStore{newMemStore()}
	src.On("SubjectWorks", mock.Anything, "fiction", mock.Anything).Return(subjectResp(work("", "Emma")), nil)

	s, logs := newTestSeeder(src, store, NoPacer{}, "fiction")

	assert.Equal(t, 0, s.Run(context.Background(), 1))
	assert.Empty(t, store.created)
	assert.NotContains(t, logs.String(), "connection refused")
}

func TestSeeder_Run_NonPositiveTarget(t *testing.T) {
	src := new(mockSource)
	s, logs := newTestSeeder(src, newMemStore(), NoPacer{})

	assert.Equal(t, 0, s.Run(context.Background(), 0))
	assert.Equal(t, 0, s.Run(context.Background(), -4))
	src.AssertNotCalled(t, "SubjectWorks", mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, logs.String(), "Done! Created 0 books.")
}

func TestSeeder_Run_EveryFetchFails(t *testing.T) {
	src := new(mockSource)
	src.On("SubjectWorks", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline"))

	s, logs := newTestSeeder(src, newMemStore(), NoPacer{})

	assert.Equal(t, 0, s.Run(context.Background(), 100))
	src.AssertNumberOfCalls(t, "SubjectWorks", len(DefaultSubjects))
	assert.Equal(t, len(DefaultSubjects), strings.Count(logs.String(), "Failed to fetch"))
}

func TestSeeder_Run_SubjectCallHasDeadline(t *testing.T) {
	src := new(mockSource)
	src.On("SubjectWorks", mock.MatchedBy(func(ctx context.Context) bool {
		dl, ok := ctx.Deadline()
		return ok && time.Until(dl) <= 15*time.Second
	}), "fiction", 2).Return(subjectResp(), nil).Once()

	s, _ := newTestSeeder(src, newMemStore(), NoPacer{}, "fiction")
	s.Run(context.Background(), 1)

	src.AssertExpectations(t)
}

func TestSeeder_Run_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := new(mockSource)
	store := newMemStore()
	src.On("SubjectWorks", mock.Anything, "fiction", mock.Anything).
		Return(subjectResp(work("", "A"), work("", "B")), nil)

	cancelling := pacerFunc(func(context.Context) error {
		cancel()
		return context.Canceled
	})
	s, _ := newTestSeeder(src, store, cancelling, "fiction", "horror")

	assert.Equal(t, 1, s.Run(ctx, 5))
	src.AssertNotCalled(t, "SubjectWorks", mock.Anything, "horror", mock.Anything)
}

type pacerFunc func(context.Context) error

func (f pacerFunc) Wait(ctx context.Context) error { return f(ctx) }

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Science Fiction", humanize("science_fiction"))
	assert.Equal(t, "Self Help", humanize("self_help"))
	assert.Equal(t, "Fiction", humanize("fiction"))
	assert.Equal(t, "Classic Literature", humanize("classic_literature"))

	// Letters after a non-letter start a new word; underscores are not collapsed.
	assert.Equal(t, "19Th Century", humanize("19th_century"))
	assert.Equal(t, "A  B", humanize("a__b"))
	assert.Equal(t, "Sci-Fi", humanize("SCI-FI"))
	assert.Equal(t, "", humanize(""))
}

func TestWorkID(t *testing.T) {
	assert.Equal(t, "OL45804W", workID("/works/OL45804W"))
	assert.Equal(t, "OL45804W", workID("OL45804W"))
	assert.Equal(t, "", workID(""))
}

func TestNewDelayPacer(t *testing.T) {
	p := NewDelayPacer(40 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	free := NewDelayPacer(0)
	require.NoError(t, free.Wait(context.Background()))
}
