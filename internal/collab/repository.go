package collab

import (
	"sync"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/block"
)

// Repository is what a side last pushed.
type Repository struct {
	// Content is the pushed document text, nil when nothing waits to be pulled.
	Content *string

	// Changes are the facts drained by the push.
	Changes []annotation.LineFact

	// PendingBlocks are the blocks built from Changes.
	PendingBlocks []block.Block
}

// Empty returns true if nothing waits to be pulled.
func (r Repository) Empty() bool {
	return r.Content == nil
}

// Slot is a side's addressed repository. The owning side writes it on push;
// the peer reads and clears it on pull.
// It is safe for concurrent use.
type Slot struct {
	mu   sync.Mutex
	repo Repository
}

// Load returns a copy of the repository.
func (s *Slot) Load() Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRepository(s.repo)
}

func (s *Slot) store(content string, changes []annotation.LineFact, blocks []block.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = copyRepository(Repository{
		Content:       &content,
		Changes:       changes,
		PendingBlocks: blocks,
	})
}

// Clear empties the slot.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = Repository{Changes: []annotation.LineFact{}, PendingBlocks: []block.Block{}}
}

func copyRepository(r Repository) Repository {
	out := Repository{
		Changes:       append([]annotation.LineFact{}, r.Changes...),
		PendingBlocks: make([]block.Block, len(r.PendingBlocks)),
	}
	if r.Content != nil {
		c := *r.Content
		out.Content = &c
	}
	for i, b := range r.PendingBlocks {
		out.PendingBlocks[i] = b.Shift(0)
	}
	return out
}
