package attendees

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wedding-attendees/internal/models"
)

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, DefaultPageSize, 1)

	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func TestPaginate_TwelveRecords(t *testing.T) {
	records := makeRecords(12)

	first := Paginate(records, 10, 1)
	assert.Equal(t, 2, first.TotalPages)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 0, first.StartIndex)
	assert.Equal(t, 10, first.EndIndex)
	assert.True(t, first.HasNext())

	second := Paginate(records, 10, 2)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 10, second.StartIndex)
	assert.Equal(t, 12, second.EndIndex)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrev())
}

func TestPaginate_OutOfRangeResetsToFirstPage(t *testing.T) {
	records := makeRecords(5)

	for _, page := range []int{-1, 0, 2, 99} {
		p := Paginate(records, 10, page)
		assert.Equal(t, 1, p.CurrentPage, "page=%d", page)
		assert.Len(t, p.Items, 5)
	}
}

func TestPaginate_NonPositivePageSize(t *testing.T) {
	p := Paginate(makeRecords(25), 0, 1)

	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, DefaultPageSize)
}

func TestPaginate_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 9, 10, 11, 35, 100} {
		records := makeRecords(n)
		total := TotalPages(n, DefaultPageSize)

		var joined []models.AttendeeRecord
		for page := 1; page <= total; page++ {
			joined = append(joined, Paginate(records, DefaultPageSize, page).Items...)
		}
		assert.Equal(t, records, joined, "n=%d", n)
	}
}
