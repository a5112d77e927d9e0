package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Покрытие:
//  - дефолты при пустой query string;
//  - filter/search/sort/page/limit по allow-list схеме;
//  - порядок полей sort соответствует порядку объявления;
//  - fail-open: мусорные строки эквивалентны отсутствию параметров;
//  - неизвестные поля и операторы молча отбрасываются;
//  - clamp limit по максимуму.

var testSchema = NewSchema("title", "content", "isPublish", "userId", "createdAt")

var testLimits = Limits{Default: 20, Max: 100}

func TestParse_EmptyQuery_Defaults(t *testing.T) {
	t.Parallel()

	p := Parse("", testSchema, testLimits)

	require.Empty(t, p.Filter)
	require.Empty(t, p.Search)
	require.Empty(t, p.Sort)
	require.Equal(t, int64(1), p.Page)
	require.Equal(t, int64(20), p.Limit)
}

func TestParse_FilterSearchSort(t *testing.T) {
	t.Parallel()

	raw := "filter[isPublish]=true&search[title]=go&sort[createdAt]=desc&sort[title]=asc&page=3&limit=10"
	p := Parse(raw, testSchema, testLimits)

	require.Equal(t, map[string]string{"isPublish": "true"}, p.Filter)
	require.Equal(t, map[string]string{"title": "go"}, p.Search)
	require.Equal(t, []SortField{
		{Field: "createdAt", Direction: Desc},
		{Field: "title", Direction: Asc},
	}, p.Sort)
	require.Equal(t, int64(3), p.Page)
	require.Equal(t, int64(10), p.Limit)
}

// Порядок sort-полей должен совпадать с порядком в query string,
// а не с лексикографическим порядком ключей.
func TestParse_SortOrderPreserved(t *testing.T) {
	t.Parallel()

	p := Parse("sort[userId]=asc&sort[createdAt]=asc&sort[title]=desc", testSchema, testLimits)

	require.Equal(t, []SortField{
		{Field: "userId", Direction: Asc},
		{Field: "createdAt", Direction: Asc},
		{Field: "title", Direction: Desc},
	}, p.Sort)
}

// Повторное объявление поля в sort не добавляет дубликат:
// выигрывает первое объявление (stable).
func TestParse_SortDuplicateIgnored(t *testing.T) {
	t.Parallel()

	p := Parse("sort[title]=asc&sort[title]=desc", testSchema, testLimits)

	require.Equal(t, []SortField{{Field: "title", Direction: Asc}}, p.Sort)
}

// Мусорные query string никогда не ошибаются — результат
// эквивалентен запросу без параметров вовсе.
func TestParse_FailOpen_GarbageEqualsEmpty(t *testing.T) {
	t.Parallel()

	def := Parse("", testSchema, testLimits)

	garbage := []string{
		"%%%=%%%",
		"filter[=x&search]=y",
		"sort[title]=sideways",
		"filter[nope]=1&search[alsonope]=2&sort[nah]=asc",
		"page=abc&limit=xyz",
		"page=-5&limit=0",
		"page=&limit=",
		"&&&&",
		"filter=bare&search=bare&sort=bare",
		"filter[]=empty&sort[]=asc",
		"unknown[title]=1",
	}

	for _, raw := range garbage {
		got := Parse(raw, testSchema, testLimits)
		require.Equal(t, def, got, "raw=%q", raw)
	}
}

func TestParse_LimitClampedToMax(t *testing.T) {
	t.Parallel()

	p := Parse("limit=100500", testSchema, testLimits)
	require.Equal(t, int64(100), p.Limit)
}

func TestParse_UnknownFieldsDropped(t *testing.T) {
	t.Parallel()

	p := Parse("filter[isAdmin]=true&filter[title]=ok", testSchema, testLimits)
	require.Equal(t, map[string]string{"title": "ok"}, p.Filter)
}

// Экранированные значения декодируются.
func TestParse_EscapedValues(t *testing.T) {
	t.Parallel()

	p := Parse("search[title]=hello%20world", testSchema, testLimits)
	require.Equal(t, "hello world", p.Search["title"])
}

func TestParse_ZeroLimits_FallbackDefault(t *testing.T) {
	t.Parallel()

	p := Parse("", testSchema, Limits{})
	require.Equal(t, int64(20), p.Limit)
}
