package readinglog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	pages := func(n int) *int { return &n }

	tests := []struct {
		name      string
		current   int
		pageCount *int
		prev      float64
		want      float64
	}{
		{"halfway", 150, pages(300), 0, 50},
		{"rounded to two decimals", 1, pages(3), 0, 33.33},
		{"finished", 412, pages(412), 0, 100},
		{"unknown page count keeps previous", 40, nil, 12.5, 12.5},
		{"zero page count keeps previous", 40, pages(0), 7, 7},
		{"not started keeps previous", 0, pages(300), 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.current, tt.pageCount, tt.prev))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"want_to_read", "reading", "completed", "did_not_finish", "on_hold"} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("READING"))
	assert.False(t, ValidStatus("abandoned"))
	assert.False(t, ValidStatus(""))
}
