package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds the pagination parameters
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block returned next to every paginated list.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewMeta(total int64, p Params) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Meta{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}

// ParseParams reads page and limit from the query, falling back to defaults on bad input.
func ParseParams(q url.Values) Params {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Paginate applies pagination to a GORM query
func Paginate(p Params) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// Sort is a whitelisted ORDER BY column and direction.
type Sort struct {
	Column string
	Desc   bool
}

func (s Sort) Clause() string {
	if s.Desc {
		return fmt.Sprintf("%s DESC", s.Column)
	}
	return fmt.Sprintf("%s ASC", s.Column)
}

// ParseSort maps sortBy through allowed (API field to column). Unknown fields keep the default column.
func ParseSort(q url.Values, allowed map[string]string, def Sort) Sort {
	s := def
	if column, ok := allowed[q.Get("sortBy")]; ok {
		s.Column = column
	}
	switch strings.ToUpper(q.Get("sortOrder")) {
	case "ASC":
		s.Desc = false
	case "DESC":
		s.Desc = true
	}
	return s
}

// Order applies the sort to a GORM query
func Order(s Sort) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(s.Clause())
	}
}

// Like builds a case-insensitive substring pattern for LOWER(column) LIKE ?.
func Like(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
