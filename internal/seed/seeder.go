package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"shelf/internal/book"
	"shelf/internal/platform/openlibrary"
)

// Seeder imports catalog records from Open Library, subject by subject.
type Seeder struct {
	source WorkSource
	store  Store
	pacer  Pacer
	cfg    Config
	log    *log.Logger
}

func NewSeeder(source WorkSource, store Store, pacer Pacer, cfg Config, logger *log.Logger) *Seeder {
	if pacer == nil {
		pacer = NoPacer{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Seeder{
		source: source,
		store:  store,
		pacer:  pacer,
		cfg:    cfg,
		log:    logger,
	}
}

// Run creates up to target new books and returns how many were created.
// Per-work and per-subject failures are logged or absorbed; Run only stops
// early when ctx is done.
func (s *Seeder) Run(ctx context.Context, target int) int {
	created := 0
	if target > 0 && len(s.cfg.Subjects) > 0 {
		created = s.run(ctx, target)
	}
	s.log.Printf("Done! Created %d books.", created)
	return created
}

func (s *Seeder) run(ctx context.Context, target int) int {
	created := 0
	perSubject := target/len(s.cfg.Subjects) + 1

	for _, subject := range s.cfg.Subjects {
		if created >= target || ctx.Err() != nil {
			break
		}

		s.log.Printf("Fetching %q books...", subject)
		works, err := s.listSubject(ctx, subject, perSubject)
		if err != nil {
			s.log.Printf("Failed to fetch %s: %v", subject, err)
			continue
		}

		genre := humanize(subject)
		for _, w := range works {
			if created >= target || ctx.Err() != nil {
				break
			}

			title := strings.TrimSpace(w.Title)
			if title == "" {
				continue
			}
			// A failed lookup is treated like a known duplicate.
			if exists, err := s.store.ExistsByTitle(ctx, title); err != nil || exists {
				continue
			}

			in := s.record(ctx, w, title, genre)
			if _, err := s.store.Create(ctx, in); err != nil {
				s.log.Printf("Skipped %q: %v", title, err)
			} else {
				created++
				s.log.Printf("[%d/%d] %s", created, target, title)
			}

			if err := s.pacer.Wait(ctx); err != nil {
				return created
			}
		}
	}
	return created
}

func (s *Seeder) listSubject(ctx context.Context, subject string, limit int) ([]openlibrary.Work, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SubjectTimeout)
	defer cancel()

	res, err := s.source.SubjectWorks(ctx, subject, limit)
	if err != nil {
		return nil, err
	}
	return res.Works, nil
}

func (s *Seeder) record(ctx context.Context, w openlibrary.Work, title, genre string) book.Input {
	authors := make([]string, 0, len(w.Authors))
	for _, a := range w.Authors {
		authors = append(authors, a.Name)
	}

	var coverURL *string
	if w.CoverID != nil && *w.CoverID != 0 {
		u := fmt.Sprintf(s.cfg.CoverURLTemplate, *w.CoverID)
		coverURL = &u
	}

	d, _ := s.fetchDetails(ctx, workID(w.Key), w.CoverEditionKey)

	return book.Input{
		Title:       title,
		Authors:     authors,
		ISBN10:      d.ISBN10,
		ISBN13:      d.ISBN13,
		CoverURL:    coverURL,
		PageCount:   d.PageCount,
		Publisher:   d.Publisher,
		PublishDate: d.PublishDate,
		Description: truncate(d.Description, s.cfg.DescriptionLimit),
		Genres:      []string{genre},
	}
}

// fetchDetails looks up the work and, when editionKey is set, its preferred
// edition. If either lookup fails the zero details and false are returned.
func (s *Seeder) fetchDetails(ctx context.Context, id, editionKey string) (details, bool) {
	if id == "" {
		return details{}, false
	}

	work, err := s.fetchWork(ctx, id)
	if err != nil {
		return details{}, false
	}
	d := details{Description: work.DescriptionText()}

	if editionKey == "" {
		return d, true
	}
	ed, err := s.fetchEdition(ctx, editionKey)
	if err != nil {
		return details{}, false
	}
	d.PageCount = ed.NumberOfPages
	d.ISBN13 = first(ed.ISBN13)
	d.ISBN10 = first(ed.ISBN10)
	if p := first(ed.Publishers); p != nil {
		d.Publisher = *p
	}
	d.PublishDate = ed.PublishDate
	return d, true
}

func (s *Seeder) fetchWork(ctx context.Context, id string) (*openlibrary.WorkDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DetailTimeout)
	defer cancel()
	return s.source.Work(ctx, id)
}

func (s *Seeder) fetchEdition(ctx context.Context, key string) (*openlibrary.Edition, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DetailTimeout)
	defer cancel()
	return s.source.Edition(ctx, key)
}

// workID returns the last path segment of a key such as "/works/OL45804W".
func workID(key string) string {
	if key == "" {
		return ""
	}
	return key[strings.LastIndex(key, "/")+1:]
}

func first(s []string) *string {
	if len(s) == 0 {
		return nil
	}
	v := s[0]
	return &v
}

// humanize turns "science_fiction" into "Science Fiction". Every letter that
// follows a non-letter is upper-cased and every other letter lower-cased.
func humanize(subject string) string {
	var b strings.Builder
	b.Grow(len(subject))
	prevLetter := false
	for _, r := range strings.ReplaceAll(subject, "_", " ") {
		switch {
		case !unicode.IsLetter(r):
			prevLetter = false
		case prevLetter:
			r = unicode.ToLower(r)
		default:
			r = unicode.ToUpper(r)
			prevLetter = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
