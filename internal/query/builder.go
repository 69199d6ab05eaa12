// Package query compiles the notebook's list, count and flashcard queries
// from a combination of category, part-of-speech and search filters.
//
// Filters are first turned into a plan (joins, predicates, arguments) and
// the plan is rendered to SQL with bind placeholders. Category and POS
// filters join link tables, so every count uses COUNT(DISTINCT id) and
// every listing collapses duplicates.
package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/entities"
)

// PageSize is the number of items on one list page.
const PageSize = 20

// Uncategorized is the category filter value that selects items with no
// category at all.
const Uncategorized = entities.ReservedCategory

type SortField string

const (
	SortByID   SortField = "id"
	SortByTerm SortField = "term"
	SortByPos  SortField = "pos"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Scope selects which item tables a flashcard deck draws from.
type Scope string

const (
	ScopeVocab   Scope = "vocab"
	ScopeGrammar Scope = "grammar"
	ScopeAll     Scope = "all"
)

// ParseScope accepts the form spelling of a scope.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeVocab, ScopeGrammar, ScopeAll:
		return Scope(s), true
	}
	return "", false
}

// ItemTypes returns the item types the scope covers.
func (s Scope) ItemTypes() []entities.ItemType {
	switch s {
	case ScopeVocab:
		return []entities.ItemType{entities.ItemTypeVocab}
	case ScopeGrammar:
		return []entities.ItemType{entities.ItemTypeGrammar}
	default:
		return []entities.ItemType{entities.ItemTypeVocab, entities.ItemTypeGrammar}
	}
}

// Criteria is the filter fragment shared by listings and flashcard decks.
// Pos only applies to vocab.
type Criteria struct {
	Category string `json:"category,omitempty"`
	Pos      string `json:"pos,omitempty"`
	Search   string `json:"search,omitempty"`
}

// Filter describes one list page request.
type Filter struct {
	ItemType entities.ItemType
	Criteria
	Sort      SortField
	Direction Direction
	Page      int
}

// Row is one item as returned by a listing or batch query. Pos is the
// comma-joined part-of-speech string for vocab and empty for grammar.
type Row struct {
	ID          uint              `json:"id"`
	ItemType    entities.ItemType `json:"type"`
	Term        string            `json:"term"`
	Explanation string            `json:"explanation"`
	Example     string            `json:"example"`
	Pos         string            `json:"pos"`
}

// Page is one page of a listing.
type Page struct {
	Items      []Row     `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	PageSize   int       `json:"page_size"`
	Sort       SortField `json:"sort"`
	Direction  Direction `json:"direction"`
}

type Builder struct {
	db *gorm.DB
}

func NewBuilder(db *gorm.DB) *Builder {
	return &Builder{db: db}
}

// Count returns the number of distinct items of one type matching c.
func (b *Builder) Count(itemType entities.ItemType, c Criteria) (int64, error) {
	p := newPlan(itemType, c)
	sql, args := p.compile("COUNT(DISTINCT "+p.from.col("id")+")", "")

	var total int64
	if err := b.db.Raw(sql, args...).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s items: %w", itemType, err)
	}
	return total, nil
}

// CountScope sums Count over the item types of a scope.
func (b *Builder) CountScope(scope Scope, c Criteria) (int64, error) {
	var total int64
	for _, t := range scope.ItemTypes() {
		n, err := b.Count(t, c)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// List returns one page of items. The requested page is clamped into
// [1, TotalPages]; an empty result still has one page.
func (b *Builder) List(f Filter) (*Page, error) {
	f = normalize(f)

	total, err := b.Count(f.ItemType, f.Criteria)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	sql, args := listSQL(f, PageSize, (page-1)*PageSize)
	rows := []Row{}
	if err := b.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", f.ItemType, err)
	}

	return &Page{
		Items:      rows,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		PageSize:   PageSize,
		Sort:       f.Sort,
		Direction:  f.Direction,
	}, nil
}

// Batch returns up to limit items of the scope starting at offset, ordered
// by id with vocab before grammar on equal ids. Pos is left empty.
func (b *Builder) Batch(scope Scope, c Criteria, offset, limit int) ([]Row, error) {
	sql, args := batchSQL(scope, c, offset, limit)
	rows := []Row{}
	if err := b.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch %s batch: %w", scope, err)
	}
	return rows, nil
}

func normalize(f Filter) Filter {
	if f.ItemType != entities.ItemTypeGrammar {
		f.ItemType = entities.ItemTypeVocab
	}
	if f.Sort == "" && f.Direction == "" {
		// newest first
		f.Sort, f.Direction = SortByID, Desc
	}
	if f.Sort != SortByTerm && f.Sort != SortByPos {
		f.Sort = SortByID
	}
	if f.Sort == SortByPos && f.ItemType == entities.ItemTypeGrammar {
		f.Sort = SortByID
	}
	if f.Direction != Desc {
		f.Direction = Asc
	}
	return f
}

func itemProjection(p *plan) string {
	return strings.Join([]string{
		p.from.col("id") + " AS id",
		p.from.col("term") + " AS term",
		p.from.col("explanation") + " AS explanation",
		p.from.col("example") + " AS example",
		"'" + string(p.from.itemType) + "' AS item_type",
	}, ", ")
}

func listSQL(f Filter, limit, offset int) (string, []any) {
	dir := "ASC"
	if f.Direction == Desc {
		dir = "DESC"
	}

	p := newPlan(f.ItemType, f.Criteria)

	if f.ItemType == entities.ItemTypeVocab {
		dp := p.withDisplayPos()
		projection := itemProjection(dp) + ", GROUP_CONCAT(" + aliasPosName + ".name, ', ') AS pos"
		var order string
		switch f.Sort {
		case SortByTerm:
			order = dp.from.col("term") + " " + dir + ", " + dp.from.col("id") + " " + dir
		case SortByPos:
			// items without POS go last in both directions
			order = "(pos IS NULL) ASC, pos " + dir + ", " + dp.from.col("id") + " ASC"
		default:
			order = dp.from.col("id") + " " + dir
		}
		return dp.compile(projection,
			"GROUP BY "+dp.from.col("id")+" ORDER BY "+order+" LIMIT ? OFFSET ?",
			limit, offset)
	}

	projection := "DISTINCT " + itemProjection(p) + ", '' AS pos"
	order := "id " + dir
	if f.Sort == SortByTerm {
		order = "term " + dir + ", id " + dir
	}
	return p.compile(projection, "ORDER BY "+order+" LIMIT ? OFFSET ?", limit, offset)
}

func batchSQL(scope Scope, c Criteria, offset, limit int) (string, []any) {
	var members []string
	var args []any
	for _, t := range scope.ItemTypes() {
		p := newPlan(t, c)
		sql, a := p.compile("DISTINCT "+itemProjection(p), "")
		members = append(members, sql)
		args = append(args, a...)
	}
	sql := "SELECT id, term, explanation, example, item_type FROM (" +
		strings.Join(members, " UNION ALL ") +
		") ORDER BY id ASC, item_type DESC LIMIT ? OFFSET ?"
	return sql, append(args, limit, offset)
}
