// Package pos holds the part-of-speech master list together with the alias
// table and inheritance rules used to normalise free-form POS annotations.
//
// The catalog is plain data. The database seeds its master table from it at
// startup and tests can substitute a smaller fixture.
package pos

// Other is the catch-all abbreviation for unrecognised POS tokens.
const Other = "Other"

// Entry is one master list row.
type Entry struct {
	Name  string
	Label string
}

type Catalog struct {
	// Entries is the master list in display order.
	Entries []Entry
	// Aliases maps a raw token to its canonical abbreviation. Canonical
	// names are resolved even when absent from this map.
	Aliases map[string]string
	// Implies lists the parents a POS carries with it (他動 implies 動).
	Implies map[string][]string
	// Fallback is assigned to tokens that resolve to nothing.
	Fallback string

	order map[string]int
}

// Default returns the standard Japanese POS catalog.
func Default() *Catalog {
	return New(defaultEntries, defaultAliases, defaultImplies, Other)
}

// New builds a catalog. The fallback must be one of entries.
func New(entries []Entry, aliases map[string]string, implies map[string][]string, fallback string) *Catalog {
	c := &Catalog{
		Entries:  entries,
		Aliases:  aliases,
		Implies:  implies,
		Fallback: fallback,
		order:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		c.order[e.Name] = i
	}
	return c
}

// Known reports whether name is on the master list.
func (c *Catalog) Known(name string) bool {
	_, ok := c.order[name]
	return ok
}

// Names returns the master list abbreviations in display order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		names[i] = e.Name
	}
	return names
}

// Canonical resolves a single token. ok is false when the token is neither
// an alias nor a master list name.
func (c *Catalog) Canonical(token string) (string, bool) {
	if mapped, ok := c.Aliases[token]; ok {
		return mapped, true
	}
	if c.Known(token) {
		return token, true
	}
	return "", false
}

// Expand adds implied parents, removes duplicates and returns the set in
// master list order. Names missing from the master list sort last in their
// original order.
func (c *Catalog) Expand(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	var add func(n string)
	add = func(n string) {
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		for _, parent := range c.Implies[n] {
			add(parent)
		}
	}
	for _, n := range names {
		add(n)
	}
	c.sort(out)
	return out
}

func (c *Catalog) sort(names []string) {
	rank := func(n string) int {
		if i, ok := c.order[n]; ok {
			return i
		}
		return len(c.order)
	}
	// insertion sort keeps unknown names stable
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && rank(names[j]) < rank(names[j-1]); j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

var defaultEntries = []Entry{
	{Name: "名", Label: "名詞"},
	{Name: "專", Label: "固有名詞"},
	{Name: "數", Label: "数詞"},
	{Name: "代", Label: "代名詞"},
	{Name: "動", Label: "動詞"},
	{Name: "自動", Label: "自動詞"},
	{Name: "他動", Label: "他動詞"},
	{Name: "い形", Label: "い形容詞"},
	{Name: "ナ形", Label: "な形容詞"},
	{Name: "副", Label: "副詞"},
	{Name: "連体詞", Label: "連体詞"},
	{Name: "接", Label: "接続詞"},
	{Name: "感", Label: "感動詞"},
	{Name: "助詞", Label: "助詞"},
	{Name: "助動詞", Label: "助動詞"},
	{Name: "接尾", Label: "接尾語"},
	{Name: "接頭", Label: "接頭語"},
	{Name: Other, Label: "その他"},
}

var defaultAliases = map[string]string{
	"自動1": "自動",
	"自動2": "自動",
	"自動3": "自動",
	"他動1": "他動",
	"他動2": "他動",
	"他動3": "他動",
	"補動":  "動",
	"形":   "い形",
	"な形":  "ナ形",
	"形動":  "ナ形",
	"連体":  "連体詞",
	"接続":  "接",
	"数":   "數",
	"専":   "專",
	"不":   Other,
	"英":   Other,
}

var defaultImplies = map[string][]string{
	"自動": {"動"},
	"他動": {"動"},
}
