// query переводит сырые параметры списочных запросов
// (?filter[f]=v&search[f]=v&sort[f]=asc|desc&page=N&limit=N)
// в структурированный дескриптор Params.
//
// Слой намеренно «fail open»: битый синтаксис, неизвестные поля и
// некорректные числа не являются ошибками — такие пары молча
// отбрасываются, а page/limit откатываются к значениям по умолчанию.
// Parse никогда не возвращает ошибку.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Direction — направление сортировки; значения совместимы с mongo-sort.
type Direction int8

const (
	Asc  Direction = 1
	Desc Direction = -1
)

// SortField — одно поле сортировки.
type SortField struct {
	Field     string
	Direction Direction
}

// Params — дескриптор списочного запроса.
//   - Filter — точные совпадения field=value;
//   - Search — регистронезависимый поиск по подстроке;
//   - Sort — поля сортировки в порядке их объявления в query string;
//   - Page/Limit — всегда положительные (после Parse).
type Params struct {
	Filter map[string]string
	Search map[string]string
	Sort   []SortField
	Page   int64
	Limit  int64
}

// Schema — allow-list полей ресурса, по которым разрешены
// filter/search/sort. Неизвестные поля игнорируются.
type Schema struct {
	fields map[string]struct{}
}

// NewSchema собирает схему из перечня разрешённых полей.
func NewSchema(fields ...string) Schema {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}

	return Schema{fields: set}
}

// Allows сообщает, разрешено ли поле схемой.
func (s Schema) Allows(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// Limits — значения по умолчанию и потолок для limit.
type Limits struct {
	Default int64
	Max     int64
}

// Parse разбирает сырую query string (r.URL.RawQuery) в Params.
//
// Разбор идёт по сырой строке, а не по url.Values: порядок ключей
// в url.Values не определён, а порядок полей sort обязан совпадать
// с порядком их объявления в запросе.
func Parse(rawQuery string, schema Schema, lim Limits) Params {
	p := Params{
		Filter: map[string]string{},
		Search: map[string]string{},
		Page:   1,
		Limit:  defaultLimit(lim),
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}

		rawKey, rawVal, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}

		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			continue
		}

		switch {
		case key == "page":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
				p.Page = n
			}
		case key == "limit":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
				p.Limit = clampLimit(n, lim)
			}
		default:
			op, field, ok := bracketKey(key)
			if !ok || !schema.Allows(field) {
				continue
			}

			switch op {
			case "filter":
				p.Filter[field] = val
			case "search":
				p.Search[field] = val
			case "sort":
				if dir, ok := direction(val); ok && !p.sorted(field) {
					p.Sort = append(p.Sort, SortField{Field: field, Direction: dir})
				}
			}
		}
	}

	return p
}

// sorted — поле уже объявлено в sort-последовательности.
func (p Params) sorted(field string) bool {
	for _, s := range p.Sort {
		if s.Field == field {
			return true
		}
	}

	return false
}

// bracketKey разбирает ключ вида "op[field]" на оператор и поле.
func bracketKey(key string) (op, field string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}

	op = key[:open]
	field = key[open+1 : len(key)-1]
	if field == "" {
		return "", "", false
	}

	switch op {
	case "filter", "search", "sort":
		return op, field, true
	}

	return "", "", false
}

func direction(val string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}

	return 0, false
}

func defaultLimit(lim Limits) int64 {
	if lim.Default > 0 {
		return lim.Default
	}

	return 20
}

func clampLimit(n int64, lim Limits) int64 {
	if lim.Max > 0 && n > lim.Max {
		return lim.Max
	}

	return n
}
