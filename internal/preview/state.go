package preview

import (
	"errors"
	"sync"
	"time"

	"breathadmin/pkg/models"
)

// ErrNoPreviewURL is returned when an item without an audio URL is
// previewed.
var ErrNoPreviewURL = errors.New("no preview available for this item")

// State represents what the admin is currently previewing
type State struct {
	Item        *models.ContentItem `json:"item,omitempty"`
	IsPlaying   bool                `json:"isPlaying"`
	CurrentTime int                 `json:"currentTime"` // in seconds
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// StateManager manages the preview state and notifies listeners
type StateManager struct {
	state     *State
	mutex     sync.RWMutex
	listeners []chan *State
}

// NewStateManager creates a new preview state manager
func NewStateManager() *StateManager {
	return &StateManager{
		state:     &State{UpdatedAt: time.Now()},
		listeners: make([]chan *State, 0),
	}
}

// GetState returns the current preview state (thread-safe)
func (sm *StateManager) GetState() *State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	// Create a copy to avoid race conditions
	stateCopy := *sm.state
	return &stateCopy
}

// Start begins previewing an item. Items without a playable URL are
// rejected.
func (sm *StateManager) Start(item models.ContentItem) error {
	if item.URL == "" {
		return ErrNoPreviewURL
	}

	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	sm.state.Item = &item
	sm.state.IsPlaying = true
	sm.state.CurrentTime = 0
	sm.state.UpdatedAt = time.Now()
	sm.notifyListeners()
	return nil
}

// SetPlaying toggles playback without changing the item.
func (sm *StateManager) SetPlaying(isPlaying bool) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	sm.state.IsPlaying = isPlaying
	sm.state.UpdatedAt = time.Now()
	sm.notifyListeners()
}

// UpdateTime records the playback position reported by the client.
func (sm *StateManager) UpdateTime(currentTime int) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	sm.state.CurrentTime = currentTime
	sm.state.UpdatedAt = time.Now()
	sm.notifyListeners()
}

// Clear stops the preview.
func (sm *StateManager) Clear() {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	sm.state.Item = nil
	sm.state.IsPlaying = false
	sm.state.CurrentTime = 0
	sm.state.UpdatedAt = time.Now()
	sm.notifyListeners()
}

// Subscribe adds a listener for state changes
func (sm *StateManager) Subscribe() <-chan *State {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	ch := make(chan *State, 10) // Buffered channel to prevent blocking
	sm.listeners = append(sm.listeners, ch)
	return ch
}

// Unsubscribe removes a listener (call this when done to prevent memory leaks)
func (sm *StateManager) Unsubscribe(ch <-chan *State) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	for i, listener := range sm.listeners {
		if listener == ch {
			close(listener)
			sm.listeners = append(sm.listeners[:i], sm.listeners[i+1:]...)
			break
		}
	}
}

// notifyListeners sends state updates to all subscribers (must be called with lock held)
func (sm *StateManager) notifyListeners() {
	stateCopy := *sm.state
	live := sm.listeners[:0]
	for _, listener := range sm.listeners {
		select {
		case listener <- &stateCopy:
			live = append(live, listener)
		default:
			// Channel is full, drop it
			close(listener)
		}
	}
	sm.listeners = live
}
