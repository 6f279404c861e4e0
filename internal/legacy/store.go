package legacy

import (
	"context"

	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
)

// KeyWordLists holds every flat list by name.
const KeyWordLists = "WordList"

// ListNames are the lists the flat flow offers.
var ListNames = []string{"Beginner", "Intermediate", "Advanced"}

// Store keeps flat lists in the key-value store.
type Store struct {
	kv kvstore.Store
}

// NewStore wraps kv.
func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// List returns the named list, empty when missing.
func (s *Store) List(ctx context.Context, name string) []Word {
	lists := map[string][]Word{}
	kvstore.GetJSON(ctx, s.kv, KeyWordLists, &lists)
	return lists[name]
}

// SaveList replaces the named list, leaving the others untouched.
func (s *Store) SaveList(ctx context.Context, name string, words []Word) error {
	log := logger.FromContext(ctx).WithPrefix("legacy_store")

	lists := map[string][]Word{}
	kvstore.GetJSON(ctx, s.kv, KeyWordLists, &lists)
	if words == nil {
		words = []Word{}
	}
	lists[name] = words

	if err := kvstore.SetJSON(ctx, s.kv, KeyWordLists, lists); err != nil {
		log.Error("failed to save list %s: %v", name, err)
		return err
	}
	log.Debug("saved list %s with %d words", name, len(words))
	return nil
}

// Update applies fn to the word with id and saves the list. It reports false
// when no word matched.
func (s *Store) Update(ctx context.Context, name, id string, fn func(Word) Word) (Word, bool, error) {
	words := s.List(ctx, name)
	for i, w := range words {
		if w.ID == id {
			words[i] = fn(w)
			return words[i], true, s.SaveList(ctx, name, words)
		}
	}
	return Word{}, false, nil
}

// ValidListName reports whether name is an offered list.
func ValidListName(name string) bool {
	for _, n := range ListNames {
		if n == name {
			return true
		}
	}
	return false
}
