// Package flashcards runs the flashcard review flow: a deck is configured
// from filters, cards are fetched lazily in fixed-size batches, and the
// review position is kept in the client's session so it can be resumed.
//
// Only the filters, the matching item count and the cursor are stored in
// the session. Card contents are always re-read from the database, so a
// batch reflects edits made after the deck was configured.
package flashcards

import (
	"encoding/json"
	"strings"

	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/query"
)

// BatchSize is the number of cards returned by one FetchBatch call.
const BatchSize = 20

// GrammarLabel is shown in the POS slot of grammar cards.
const GrammarLabel = "文法"

// Filters select the cards of a deck.
type Filters struct {
	Scope    query.Scope `json:"scope"`
	Category string      `json:"category,omitempty"`
	Pos      string      `json:"pos,omitempty"`
}

func (f Filters) criteria() query.Criteria {
	return query.Criteria{Category: f.Category, Pos: f.Pos}
}

// Deck is the configured state of a session.
type Deck struct {
	Filters    Filters `json:"filters"`
	TotalCount int     `json:"total_count"`
	Cursor     int     `json:"cursor"`
}

// Batch is one page of cards.
type Batch struct {
	Offset     int         `json:"offset"`
	Cards      []query.Row `json:"cards"`
	TotalCount int         `json:"total_count"`
	HasMore    bool        `json:"has_more"`
}

// CursorUpdate is the stored cursor after UpdateCursor. Wrapped is set when
// the requested index ran off either end of the deck.
type CursorUpdate struct {
	Index   int  `json:"index"`
	Wrapped bool `json:"wrapped"`
}

// DeckSource counts and fetches the items of a deck.
type DeckSource interface {
	CountScope(scope query.Scope, c query.Criteria) (int64, error)
	Batch(scope query.Scope, c query.Criteria, offset, limit int) ([]query.Row, error)
}

// PosLabeler resolves the POS string of vocab items.
type PosLabeler interface {
	PosLabels(itemIDs []uint) (map[uint]string, error)
}

type Manager struct {
	source DeckSource
	labels PosLabeler
	log    *logger.Logger
}

func NewManager(source DeckSource, labels PosLabeler, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{source: source, labels: labels, log: log}
}

// Configure counts the items matching f and stores the deck in the session.
// The cursor restarts at 0 unless resume is set and the stored cursor still
// fits the new count.
func (m *Manager) Configure(sess Session, f Filters, resume bool) (*Deck, error) {
	scope, ok := query.ParseScope(string(f.Scope))
	if !ok {
		return nil, domainerrors.InvalidRequestf("unknown flashcard scope %q", f.Scope)
	}
	f.Scope = scope
	f.Category = strings.TrimSpace(f.Category)
	f.Pos = strings.TrimSpace(f.Pos)

	total, err := m.source.CountScope(f.Scope, f.criteria())
	if err != nil {
		return nil, domainerrors.Storage(err, "count flashcards")
	}

	cursor := 0
	if resume {
		if prev, ok := intValue(sess, keyCursor); ok && prev >= 0 && prev < int(total) {
			cursor = prev
		}
	}

	encoded, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	sess.Put(keyFilters, string(encoded))
	sess.Put(keyTotalCount, int(total))
	sess.Put(keyCursor, cursor)

	m.log.Debug("flashcards configured", "scope", f.Scope, "category", f.Category, "pos", f.Pos, "total", total)

	return &Deck{Filters: f, TotalCount: int(total), Cursor: cursor}, nil
}

// State returns the configured deck. ok is false before Configure.
func (m *Manager) State(sess Session) (*Deck, bool) {
	raw, ok := sess.Get(keyFilters).(string)
	if !ok || raw == "" {
		return nil, false
	}
	var f Filters
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		m.log.Warn("discarding unreadable flashcard filters", "error", err)
		return nil, false
	}
	total, ok := intValue(sess, keyTotalCount)
	if !ok {
		return nil, false
	}
	cursor, _ := intValue(sess, keyCursor)
	return &Deck{Filters: f, TotalCount: total, Cursor: cursor}, true
}

func (m *Manager) configured(sess Session) (*Deck, error) {
	deck, ok := m.State(sess)
	if !ok {
		return nil, domainerrors.InvalidRequest("flashcards are not configured")
	}
	return deck, nil
}

// FetchBatch returns up to BatchSize cards starting at offset. An offset at
// or past the end yields an empty batch.
func (m *Manager) FetchBatch(sess Session, offset int) (*Batch, error) {
	deck, err := m.configured(sess)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, domainerrors.InvalidRequestf("invalid offset %d", offset)
	}

	batch := &Batch{Offset: offset, Cards: []query.Row{}, TotalCount: deck.TotalCount}
	if offset >= deck.TotalCount {
		return batch, nil
	}

	rows, err := m.source.Batch(deck.Filters.Scope, deck.Filters.criteria(), offset, BatchSize)
	if err != nil {
		return nil, domainerrors.Storage(err, "fetch flashcards")
	}

	var vocabIDs []uint
	for _, r := range rows {
		if r.ItemType == entities.ItemTypeVocab {
			vocabIDs = append(vocabIDs, r.ID)
		}
	}
	labels, err := m.labels.PosLabels(vocabIDs)
	if err != nil {
		return nil, domainerrors.Storage(err, "fetch flashcard parts of speech")
	}
	for i := range rows {
		if rows[i].ItemType == entities.ItemTypeGrammar {
			rows[i].Pos = GrammarLabel
		} else {
			rows[i].Pos = labels[rows[i].ID]
		}
	}

	batch.Cards = rows
	batch.HasMore = offset+len(rows) < deck.TotalCount
	return batch, nil
}

// UpdateCursor stores idx as the review position, wrapping past-the-end to
// 0 and negative indexes to the last card. An empty deck keeps the cursor at
// 0 and never reports a wrap.
func (m *Manager) UpdateCursor(sess Session, idx int) (*CursorUpdate, error) {
	deck, err := m.configured(sess)
	if err != nil {
		return nil, err
	}

	update := &CursorUpdate{Index: idx}
	switch {
	case deck.TotalCount == 0:
		update.Index = 0
	case idx >= deck.TotalCount:
		update.Index, update.Wrapped = 0, true
	case idx < 0:
		update.Index, update.Wrapped = deck.TotalCount-1, true
	}
	sess.Put(keyCursor, update.Index)
	return update, nil
}

// Resume returns the stored cursor, resetting it to 0 when it no longer
// points inside the deck.
func (m *Manager) Resume(sess Session) (int, error) {
	deck, err := m.configured(sess)
	if err != nil {
		return 0, err
	}
	if deck.Cursor < 0 || deck.Cursor >= deck.TotalCount {
		sess.Put(keyCursor, 0)
		return 0, nil
	}
	return deck.Cursor, nil
}

// Restart moves the cursor back to the first card. Filters and count are kept.
func (m *Manager) Restart(sess Session) error {
	if _, err := m.configured(sess); err != nil {
		return err
	}
	sess.Put(keyCursor, 0)
	return nil
}

// Reset forgets the deck entirely.
func (m *Manager) Reset(sess Session) {
	sess.Remove(keyFilters)
	sess.Remove(keyTotalCount)
	sess.Remove(keyCursor)
}
