package entities

import "time"

// Category is a user-defined grouping shared by vocab and grammar items.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string { return "categories" }

// ReservedCategory is never stored as a category name. The listing filter
// uses it to select items that have no category.
const ReservedCategory = "__uncategorized__"

// CategoryCount is a category name with the number of distinct items
// linked to it, vocab and grammar combined.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// PartOfSpeech is a row of the seeded POS master list. Name is the short
// abbreviation (e.g. 他動), Label the long form shown in the UI.
type PartOfSpeech struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Label     string `gorm:"size:64" json:"label"`
	SortOrder int    `gorm:"index" json:"sort_order"`
}

func (PartOfSpeech) TableName() string { return "parts_of_speech" }

// ItemCategoryLink links one item (vocab or grammar) to one category.
type ItemCategoryLink struct {
	ItemID     uint     `gorm:"primaryKey;autoIncrement:false"`
	ItemType   ItemType `gorm:"primaryKey;size:10"`
	CategoryID uint     `gorm:"primaryKey;autoIncrement:false;index"`
	Category   Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ItemCategoryLink) TableName() string { return "item_category_links" }

// ItemPosLink links a vocab item to a part of speech.
type ItemPosLink struct {
	ItemID uint         `gorm:"primaryKey;autoIncrement:false"`
	PosID  uint         `gorm:"primaryKey;autoIncrement:false;index"`
	Vocab  VocabItem    `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	Pos    PartOfSpeech `gorm:"foreignKey:PosID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ItemPosLink) TableName() string { return "item_pos_links" }
