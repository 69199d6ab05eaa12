package query

import (
	"strings"

	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/kana"
)

// Identifiers used when compiling a plan. Nothing outside this list is ever
// spliced into SQL text; every user value travels as a bind argument.
const (
	tblVocab         = "vocab_items"
	tblGrammar       = "grammar_items"
	tblCategoryLinks = "item_category_links"
	tblCategories    = "categories"
	tblPosLinks      = "item_pos_links"
	tblPos           = "parts_of_speech"

	aliasVocab   = "v"
	aliasGrammar = "g"

	aliasCatLink   = "icl"
	aliasCatFilter = "cf"
	aliasPosLink   = "ipf"
	aliasPosFilter = "pf"
	aliasPosShow   = "ipd"
	aliasPosName   = "pd"
)

type source struct {
	table    string
	alias    string
	itemType entities.ItemType
}

func sourceFor(t entities.ItemType) source {
	if t == entities.ItemTypeGrammar {
		return source{table: tblGrammar, alias: aliasGrammar, itemType: t}
	}
	return source{table: tblVocab, alias: aliasVocab, itemType: entities.ItemTypeVocab}
}

// col qualifies a column with the source alias.
func (s source) col(name string) string {
	return s.alias + "." + name
}

type join struct {
	clause string
	args   []any
}

type predicate struct {
	clause string
	args   []any
}

// plan is the intermediate form of a filtered item query: the base table,
// the joins and predicates contributed by each filter, and their arguments.
// The same plan feeds counting, listing and flashcard batches so the three
// always agree on which items match.
type plan struct {
	from  source
	joins []join
	where []predicate
}

func newPlan(itemType entities.ItemType, c Criteria) *plan {
	p := &plan{from: sourceFor(itemType)}
	p.applyCategory(c.Category)
	if p.from.itemType == entities.ItemTypeVocab {
		p.applyPos(c.Pos)
	}
	p.applySearch(c.Search)
	return p
}

func (p *plan) applyCategory(name string) {
	name = strings.TrimSpace(name)
	switch name {
	case "":
		return
	case Uncategorized:
		p.joins = append(p.joins, join{
			clause: "LEFT JOIN " + tblCategoryLinks + " AS " + aliasCatLink +
				" ON " + aliasCatLink + ".item_id = " + p.from.col("id") +
				" AND " + aliasCatLink + ".item_type = ?",
			args: []any{string(p.from.itemType)},
		})
		p.where = append(p.where, predicate{clause: aliasCatLink + ".item_id IS NULL"})
	default:
		p.joins = append(p.joins,
			join{
				clause: "JOIN " + tblCategoryLinks + " AS " + aliasCatLink +
					" ON " + aliasCatLink + ".item_id = " + p.from.col("id") +
					" AND " + aliasCatLink + ".item_type = ?",
				args: []any{string(p.from.itemType)},
			},
			join{
				clause: "JOIN " + tblCategories + " AS " + aliasCatFilter +
					" ON " + aliasCatFilter + ".id = " + aliasCatLink + ".category_id" +
					" AND " + aliasCatFilter + ".name = ?",
				args: []any{name},
			},
		)
	}
}

func (p *plan) applyPos(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.joins = append(p.joins,
		join{
			clause: "JOIN " + tblPosLinks + " AS " + aliasPosLink +
				" ON " + aliasPosLink + ".item_id = " + p.from.col("id"),
		},
		join{
			clause: "JOIN " + tblPos + " AS " + aliasPosFilter +
				" ON " + aliasPosFilter + ".id = " + aliasPosLink + ".pos_id" +
				" AND " + aliasPosFilter + ".name = ?",
			args: []any{name},
		},
	)
}

var searchColumns = []string{"term", "explanation", "example"}

func (p *plan) applySearch(term string) {
	term = strings.TrimSpace(term)
	variants := kana.SearchVariants(term)
	if len(variants) == 0 {
		return
	}
	var parts []string
	var args []any
	for _, v := range variants {
		pattern := "%" + escapeLike(v) + "%"
		for _, c := range searchColumns {
			parts = append(parts, p.from.col(c)+` LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
	}
	p.where = append(p.where, predicate{
		clause: "(" + strings.Join(parts, " OR ") + ")",
		args:   args,
	})
}

// withDisplayPos returns a copy of the plan that also left-joins every POS of
// the item for projection. The filter joins are untouched.
func (p *plan) withDisplayPos() *plan {
	cp := &plan{from: p.from}
	cp.joins = append(append([]join{}, p.joins...),
		join{clause: "LEFT JOIN " + tblPosLinks + " AS " + aliasPosShow +
			" ON " + aliasPosShow + ".item_id = " + p.from.col("id")},
		join{clause: "LEFT JOIN " + tblPos + " AS " + aliasPosName +
			" ON " + aliasPosName + ".id = " + aliasPosShow + ".pos_id"},
	)
	cp.where = append([]predicate{}, p.where...)
	return cp
}

// compile renders "SELECT <projection> FROM ... <joins> WHERE ... <tail>".
// Arguments are ordered joins first, then predicates, then tailArgs, which
// is the order their placeholders appear in the text.
func (p *plan) compile(projection, tail string, tailArgs ...any) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	sb.WriteString(projection)
	sb.WriteString(" FROM ")
	sb.WriteString(p.from.table)
	sb.WriteString(" AS ")
	sb.WriteString(p.from.alias)

	for _, j := range p.joins {
		sb.WriteString(" ")
		sb.WriteString(j.clause)
		args = append(args, j.args...)
	}

	if len(p.where) > 0 {
		clauses := make([]string, len(p.where))
		for i, w := range p.where {
			clauses[i] = w.clause
			args = append(args, w.args...)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	if tail != "" {
		sb.WriteString(" ")
		sb.WriteString(tail)
		args = append(args, tailArgs...)
	}
	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
