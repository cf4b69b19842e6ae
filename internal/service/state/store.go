package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/repository"
)

// Collection names one persisted slot.
type Collection string

const (
	CollectionWines Collection = "wines"
	CollectionSales Collection = "sales"
	CollectionRules Collection = "rules"
)

// Collections lists every persisted collection.
var Collections = []Collection{CollectionWines, CollectionSales, CollectionRules}

// DefaultKeyPrefix is prepended to collection names to build slot keys.
const DefaultKeyPrefix = "vinstock_"

// Snapshot is a consistent copy of the three collections.
type Snapshot struct {
	Wines        []models.Wine
	Transactions []models.Transaction
	Rules        []models.AlertRule
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Wines:        append([]models.Wine(nil), s.Wines...),
		Transactions: append([]models.Transaction(nil), s.Transactions...),
		Rules:        append([]models.AlertRule(nil), s.Rules...),
	}
}

// Draft is the mutable copy handed to a Mutate callback. Collections that
// were changed must be marked so they get persisted.
type Draft struct {
	Snapshot
	dirty map[Collection]bool
}

// Mark flags collections as changed.
func (d *Draft) Mark(collections ...Collection) {
	for _, c := range collections {
		d.dirty[c] = true
	}
}

// Change is delivered to subscribers after a committed mutation.
type Change struct {
	Collections []Collection
	Before      Snapshot
	After       Snapshot
}

// Touches reports whether the change covers collection c.
func (c Change) Touches(collection Collection) bool {
	for _, touched := range c.Collections {
		if touched == collection {
			return true
		}
	}
	return false
}

// Listener is notified of committed changes.
type Listener func(Change)

// Store holds the process-wide collections and persists every change
// through a repository.SlotStore. Mutations are serialised.
type Store struct {
	mu    sync.Mutex
	data  Snapshot
	slots repository.SlotStore

	prefix string
	now    func() time.Time
	logger *zap.Logger

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int
}

// NewStore wires a store over slots. An empty prefix uses DefaultKeyPrefix.
func NewStore(slots repository.SlotStore, prefix string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{
		slots:     slots,
		prefix:    prefix,
		now:       time.Now,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// SetClock overrides the clock used to stamp the seed catalog.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SlotKey returns the storage key of a collection.
func (s *Store) SlotKey(c Collection) string {
	return s.prefix + string(c)
}

// Load reads the three slots. An absent or empty wines slot is replaced by
// the seed catalog, which is persisted right away.
func (s *Store) Load(ctx context.Context) error {
	var loaded Snapshot

	seeded := false
	if err := s.read(ctx, CollectionWines, &loaded.Wines); err != nil {
		return err
	}
	if len(loaded.Wines) == 0 {
		loaded.Wines = models.SeedCatalog(s.now())
		seeded = true
	}
	if err := s.read(ctx, CollectionSales, &loaded.Transactions); err != nil {
		return err
	}
	if err := s.read(ctx, CollectionRules, &loaded.Rules); err != nil {
		return err
	}

	if seeded {
		if err := s.write(ctx, CollectionWines, loaded.Wines); err != nil {
			return err
		}
		s.logger.Info("wine catalog seeded", zap.Int("wines", len(loaded.Wines)))
	}

	s.mu.Lock()
	s.data = loaded
	s.mu.Unlock()

	s.logger.Info("state loaded",
		zap.Int("wines", len(loaded.Wines)),
		zap.Int("transactions", len(loaded.Transactions)),
		zap.Int("rules", len(loaded.Rules)))
	return nil
}

// Snapshot returns a copy of every collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

// Wines returns a copy of the inventory.
func (s *Store) Wines() []models.Wine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Wine(nil), s.data.Wines...)
}

// Transactions returns a copy of the ledger in insertion order.
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.data.Transactions...)
}

// Rules returns a copy of the custom alert rules.
func (s *Store) Rules() []models.AlertRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AlertRule(nil), s.data.Rules...)
}

// Mutate runs fn on a draft under the store lock. When fn succeeds, every
// marked collection is persisted, then committed to memory, then announced
// to subscribers. Any error leaves the in-memory state untouched, and slots
// already written by a failed mutation are written back from the previous state.
func (s *Store) Mutate(ctx context.Context, fn func(d *Draft) error) error {
	s.mu.Lock()

	before := s.data
	draft := &Draft{Snapshot: s.data.clone(), dirty: make(map[Collection]bool)}
	if err := fn(draft); err != nil {
		s.mu.Unlock()
		return err
	}

	var changed []Collection
	for _, c := range Collections {
		if !draft.dirty[c] {
			continue
		}
		if err := s.persist(ctx, c, draft.Snapshot); err != nil {
			s.restore(ctx, changed, before)
			s.mu.Unlock()
			return err
		}
		changed = append(changed, c)
	}

	s.data = draft.Snapshot
	after := s.data.clone()
	s.mu.Unlock()

	if len(changed) > 0 {
		s.notify(Change{Collections: changed, Before: before.clone(), After: after})
	}
	return nil
}

// Save re-serialises the in-memory collection to its slot.
func (s *Store) Save(ctx context.Context, c Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, c, s.data)
}

// Subscribe registers a listener and returns the function removing it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(change Change) {
	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(change)
	}
}

// restore rewrites collections from a previous state after a partial save.
func (s *Store) restore(ctx context.Context, written []Collection, previous Snapshot) {
	for _, c := range written {
		if err := s.persist(ctx, c, previous); err != nil {
			s.logger.Error("failed to restore slot after partial save",
				zap.String("collection", string(c)),
				zap.Error(err))
			continue
		}
		s.logger.Warn("slot restored after partial save", zap.String("collection", string(c)))
	}
}

func (s *Store) persist(ctx context.Context, c Collection, data Snapshot) error {
	switch c {
	case CollectionWines:
		return s.write(ctx, c, data.Wines)
	case CollectionSales:
		return s.write(ctx, c, data.Transactions)
	case CollectionRules:
		return s.write(ctx, c, data.Rules)
	default:
		return fmt.Errorf("unknown collection %q", c)
	}
}

func (s *Store) write(ctx context.Context, c Collection, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	// Persist empty collections as [] rather than null.
	if string(payload) == "null" {
		payload = []byte("[]")
	}
	if err := s.slots.Put(ctx, s.SlotKey(c), payload); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, c Collection, dest interface{}) error {
	payload, err := s.slots.Get(ctx, s.SlotKey(c))
	if errors.Is(err, repository.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", c, err)
	}
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode %s: %w", c, err)
	}
	return nil
}
