package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"breathadmin/internal/config"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Environment selects which backend endpoint set the services talk to.
type Environment string

const (
	Dev  Environment = "dev"
	Prod Environment = "prod"
)

// Valid reports whether e names a known environment.
func (e Environment) Valid() bool {
	return e == Dev || e == Prod
}

// Manager holds the active environment and resolves backend base URLs from
// it. Switches are persisted to a state file and announced on subscriber
// channels; the state file is also watched so a switch made by another
// process (sobctl) is picked up here.
type Manager struct {
	cfg    *config.BackendsConfig
	logger *logrus.Logger

	mutex       sync.RWMutex
	current     Environment
	subscribers []chan Environment
	watcher     *fsnotify.Watcher
	done        chan struct{}
}

// NewManager creates a manager, restoring the persisted environment from the
// state file when one exists. The default environment is prod.
func NewManager(cfg *config.BackendsConfig, logger *logrus.Logger) (*Manager, error) {
	m := &Manager{
		cfg:     cfg,
		logger:  logger,
		current: Prod,
		done:    make(chan struct{}),
	}

	if env, err := readStateFile(cfg.StateFile); err == nil && env.Valid() {
		m.current = env
	} else if err := m.persist(m.current); err != nil {
		return nil, fmt.Errorf("failed to write environment state file: %w", err)
	}

	if err := m.startWatcher(); err != nil {
		logger.WithError(err).Warn("Environment state file watcher not available")
	}

	return m, nil
}

// Current returns the active environment.
func (m *Manager) Current() Environment {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// Switch activates an environment, persists it and notifies subscribers.
// Switching to the already-active environment is a no-op.
func (m *Manager) Switch(env Environment) error {
	if !env.Valid() {
		return fmt.Errorf("unknown environment: %s", env)
	}

	m.mutex.Lock()
	if m.current == env {
		m.mutex.Unlock()
		return nil
	}
	m.current = env
	m.mutex.Unlock()

	if err := m.persist(env); err != nil {
		return fmt.Errorf("failed to persist environment: %w", err)
	}

	m.logger.WithField("environment", env).Info("Switched API environment")
	m.notify(env)
	return nil
}

// Subscribe returns a channel receiving every environment change. Sends are
// non-blocking; a subscriber that falls behind misses intermediate values,
// which is fine because listeners re-fetch on receipt.
func (m *Manager) Subscribe() <-chan Environment {
	ch := make(chan Environment, 1)
	m.mutex.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mutex.Unlock()
	return ch
}

// ContentURL returns the active content backend base URL.
func (m *Manager) ContentURL() string {
	return m.endpoints().Content
}

// CoursesURL returns the active courses backend base URL.
func (m *Manager) CoursesURL() string {
	return m.endpoints().Courses
}

// NotificationsURL returns the active notifications backend base URL.
func (m *Manager) NotificationsURL() string {
	return m.endpoints().Notifications
}

// Close stops the state file watcher.
func (m *Manager) Close() {
	close(m.done)
	if m.watcher != nil {
		m.watcher.Close()
	}
}

func (m *Manager) endpoints() config.BackendEndpoints {
	if m.Current() == Dev {
		return m.cfg.Dev
	}
	return m.cfg.Prod
}

func (m *Manager) notify(env Environment) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- env:
		default:
		}
	}
}

func (m *Manager) persist(env Environment) error {
	dir := filepath.Dir(m.cfg.StateFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(m.cfg.StateFile, []byte(string(env)+"\n"), 0644)
}

// startWatcher watches the state file's directory so external writes to it
// flip the in-memory environment too.
func (m *Manager) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(m.cfg.StateFile)); err != nil {
		watcher.Close()
		return err
	}
	m.watcher = watcher

	stateName := filepath.Base(m.cfg.StateFile)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != stateName {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				m.reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.logger.WithError(err).Warn("Environment watcher error")
			case <-m.done:
				return
			}
		}
	}()

	return nil
}

// reload re-reads the state file and, when it names a different valid
// environment, adopts it and notifies subscribers.
func (m *Manager) reload() {
	env, err := readStateFile(m.cfg.StateFile)
	if err != nil || !env.Valid() {
		return
	}

	m.mutex.Lock()
	changed := m.current != env
	if changed {
		m.current = env
	}
	m.mutex.Unlock()

	if changed {
		m.logger.WithField("environment", env).Info("Environment changed externally")
		m.notify(env)
	}
}

func readStateFile(path string) (Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Environment(strings.TrimSpace(string(data))), nil
}
