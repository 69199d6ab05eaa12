package entities

import "time"

// ItemType discriminates the two study item tables inside the shared
// category link table.
type ItemType string

const (
	ItemTypeVocab   ItemType = "vocab"
	ItemTypeGrammar ItemType = "grammar"
)

// ParseItemType accepts the URL/form spelling of an item type.
func ParseItemType(s string) (ItemType, bool) {
	switch ItemType(s) {
	case ItemTypeVocab, ItemTypeGrammar:
		return ItemType(s), true
	}
	return "", false
}

// Table returns the table the items of this type live in.
func (t ItemType) Table() string {
	if t == ItemTypeGrammar {
		return "grammar_items"
	}
	return "vocab_items"
}

// Item holds the fields shared by vocab and grammar entries. Term may embed
// a reading as "base[reading]".
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        ItemType  `gorm:"-" json:"type"`
	Term        string    `gorm:"not null;index;size:512" json:"term"`
	Explanation string    `gorm:"type:text" json:"explanation"`
	Example     string    `gorm:"type:text" json:"example"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemFields is the editable part of an item.
type ItemFields struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
	Example     string `json:"example"`
}

type VocabItem struct {
	Item
}

func (VocabItem) TableName() string { return "vocab_items" }

type GrammarItem struct {
	Item
}

func (GrammarItem) TableName() string { return "grammar_items" }
