package domain

import (
	"fmt"
	"sync"
)

// ModelCard describes a model known to the registry: its public identifier, the task it serves
// and the backend which knows how to run it.
type ModelCard struct {
	ID          string
	Task        Task
	Backend     string
	Description string
}

// Registry maps tasks to model cards. The first card registered for a task becomes its default,
// which is what a caller gets when constructing a pipeline without a model override.
type Registry struct {
	mutex        sync.RWMutex
	cardsByTask  map[Task][]ModelCard
	cardsByModel map[string]ModelCard
}

func NewRegistry() *Registry {
	return &Registry{
		cardsByTask:  make(map[Task][]ModelCard),
		cardsByModel: make(map[string]ModelCard),
	}
}

// Register adds a card. Re-registering the same model ID overwrites the earlier card but keeps
// its position in the task's list.
func (r *Registry) Register(card ModelCard) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.cardsByModel[card.ID]; ok {
		for index, existing := range r.cardsByTask[card.Task] {
			if existing.ID == card.ID {
				r.cardsByTask[card.Task][index] = card
				break
			}
		}
	} else {
		r.cardsByTask[card.Task] = append(r.cardsByTask[card.Task], card)
	}
	r.cardsByModel[card.ID] = card
}

// Default returns the default card for the task.
func (r *Registry) Default(task Task) (ModelCard, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	cards := r.cardsByTask[task]
	if len(cards) == 0 {
		return ModelCard{}, fmt.Errorf("%w: \"%s\"", ErrNoModel, task)
	}
	return cards[0], nil
}

// Find returns the card for the given model ID, verifying it serves the task.
func (r *Registry) Find(task Task, modelID string) (ModelCard, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	card, ok := r.cardsByModel[modelID]
	if !ok {
		return ModelCard{}, fmt.Errorf("%w: \"%s\" (model \"%s\" is not registered)", ErrNoModel, task, modelID)
	}
	if card.Task != task {
		return ModelCard{}, fmt.Errorf("%w: model \"%s\" serves task \"%s\", not \"%s\"", ErrNoModel, modelID, card.Task, task)
	}
	return card, nil
}

// Models lists all cards registered for the task, default first.
func (r *Registry) Models(task Task) []ModelCard {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	cards := make([]ModelCard, len(r.cardsByTask[task]))
	copy(cards, r.cardsByTask[task])
	return cards
}
