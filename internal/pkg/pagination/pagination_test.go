package pagination

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery_Defaults(t *testing.T) {
	p := FromQuery(url.Values{})

	assert.Equal(t, Params{Page: 1, Limit: 20, NeedPagination: true}, p)
	assert.Equal(t, 0, p.Skip())
	assert.Equal(t, 20, p.QueryLimit())
}

func TestFromQuery_Values(t *testing.T) {
	p := FromQuery(url.Values{"page": {"3"}, "limit": {"10"}})

	assert.Equal(t, 20, p.Skip())
	assert.Equal(t, 10, p.QueryLimit())
	assert.Equal(t, 3, p.TotalPages(25))
}

func TestFromQuery_InvalidFallsBack(t *testing.T) {
	p := FromQuery(url.Values{"page": {"-1"}, "limit": {"abc"}, "need_pagination": {"maybe"}})

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.True(t, p.NeedPagination)
}

func TestFromQuery_LimitCapped(t *testing.T) {
	p := FromQuery(url.Values{"limit": {"1000"}})

	assert.Equal(t, MaxLimit, p.Limit)
}

func TestFromQuery_PageCapped(t *testing.T) {
	p := FromQuery(url.Values{"page": {strconv.Itoa(math.MaxInt)}, "limit": {"100"}})

	assert.Equal(t, MaxPage, p.Page)
	assert.Equal(t, (MaxPage-1)*MaxLimit, p.Skip())
	assert.Positive(t, p.Skip())
}

func TestSkip_OutOfRangeParams(t *testing.T) {
	huge := Params{Page: math.MaxInt, Limit: 100, NeedPagination: true}
	assert.Equal(t, (MaxPage-1)*100, huge.Skip())

	zero := Params{Page: 0, Limit: 20, NeedPagination: true}
	assert.Equal(t, 0, zero.Skip())
}

func TestNoPagination(t *testing.T) {
	p := FromQuery(url.Values{"page": {"4"}, "need_pagination": {"false"}})

	assert.Equal(t, 0, p.Skip())
	assert.Equal(t, 0, p.QueryLimit())
	assert.Equal(t, 1, p.TotalPages(57))
	assert.Equal(t, 0, p.TotalPages(0))
}
