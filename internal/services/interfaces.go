package services

import "github.com/mrlokans/kotoba/internal/entities"

// ItemInput is the editable content of an item together with its tags.
// Pos is ignored for grammar items.
type ItemInput struct {
	Term        string   `json:"term" form:"term" validate:"notblank,max=512"`
	Explanation string   `json:"explanation" form:"explanation"`
	Example     string   `json:"example" form:"example"`
	Categories  []string `json:"categories" form:"categories" validate:"dive,max=100"`
	Pos         []string `json:"pos" form:"pos" validate:"dive,max=32"`
}

func (in ItemInput) fields() entities.ItemFields {
	return entities.ItemFields{Term: in.Term, Explanation: in.Explanation, Example: in.Example}
}

// ItemDetail is an item with its resolved tags.
type ItemDetail struct {
	entities.Item
	Categories []string `json:"categories"`
	Pos        []string `json:"pos,omitempty"`
}
