package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/sufield/storyline/internal/ports"
)

// StoryRepository keeps published stories in memory.
type StoryRepository struct {
	mu      sync.RWMutex
	stories []ports.PublishedStory
}

// NewStoryRepository creates an empty repository.
func NewStoryRepository() *StoryRepository {
	return &StoryRepository{}
}

// Save implements ports.StoryRepository.
func (r *StoryRepository) Save(_ context.Context, story ports.PublishedStory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories = append(r.stories, story)
	return nil
}

// List implements ports.StoryRepository. Newest first.
func (r *StoryRepository) List(_ context.Context) ([]ports.PublishedStory, error) {
	r.mu.RLock()
	out := append([]ports.PublishedStory(nil), r.stories...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return out, nil
}

// Len returns the number of stored stories.
func (r *StoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stories)
}

var _ ports.StoryRepository = (*StoryRepository)(nil)
