package seed

import (
	"time"
	"unicode/utf8"
)

// DefaultSubjects is the fixed order in which subjects are imported.
var DefaultSubjects = []string{
	"feminism",
	"fiction",
	"fantasy",
	"romance",
	"science_fiction",
	"mystery",
	"thriller",
	"horror",
	"poetry",
	"biography",
	"self_help",
	"philosophy",
	"psychology",
	"history",
	"classic_literature",
}

const (
	// DefaultTarget is the number of books a run creates when no count is given.
	DefaultTarget = 100
	// DefaultCoverURL builds a large cover image URL from an Open Library cover id.
	DefaultCoverURL = "https://covers.openlibrary.org/b/id/%d-L.jpg"
	// DefaultDescLimit caps stored descriptions, counted in runes.
	DefaultDescLimit = 2000
)

// Config controls which subjects are imported and how each lookup is bounded.
type Config struct {
	Subjects         []string
	SubjectTimeout   time.Duration
	DetailTimeout    time.Duration
	CoverURLTemplate string
	DescriptionLimit int
}

// DefaultConfig returns the production settings: all subjects, 15s subject
// lookups and 10s detail lookups.
func DefaultConfig() Config {
	return Config{
		Subjects:         DefaultSubjects,
		SubjectTimeout:   15 * time.Second,
		DetailTimeout:    10 * time.Second,
		CoverURLTemplate: DefaultCoverURL,
		DescriptionLimit: DefaultDescLimit,
	}
}

// details holds the fields filled in from the work and edition lookups.
// The zero value is what a record gets when either lookup fails.
type details struct {
	Description string
	PageCount   *int
	ISBN10      *string
	ISBN13      *string
	Publisher   string
	PublishDate string
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
