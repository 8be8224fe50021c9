package paging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		limit    string
		expected Page
	}{
		{name: "defaults", page: "", limit: "", expected: Page{Page: 1, Limit: 12}},
		{name: "explicit values", page: "3", limit: "20", expected: Page{Page: 3, Limit: 20}},
		{name: "garbage falls back", page: "abc", limit: "-4", expected: Page{Page: 1, Limit: 12}},
		{name: "limit is capped", page: "1", limit: "1000", expected: Page{Page: 1, Limit: MaxLimit}},
		{name: "zero page", page: "0", limit: "5", expected: Page{Page: 1, Limit: 5}},
		{name: "huge page is capped", page: "92233720368547758", limit: "100", expected: Page{Page: MaxPage, Limit: MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.page, tt.limit, DefaultLimit))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, Page{Page: 3, Limit: 10}.Offset())

	off := Page{Page: 1 << 60, Limit: MaxLimit}.Normalize().Offset()
	assert.Positive(t, off)
	assert.LessOrEqual(t, off, math.MaxInt32)
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, Meta{Page: 1, Limit: 10, Total: 0, Pages: 0}, NewMeta(Page{Page: 1, Limit: 10}, 0))
	assert.Equal(t, 1, NewMeta(Page{Page: 1, Limit: 10}, 10).Pages)
	assert.Equal(t, 2, NewMeta(Page{Page: 1, Limit: 10}, 11).Pages)
	assert.Equal(t, 5, NewMeta(Page{Page: 2, Limit: 3}, 13).Pages)
}
