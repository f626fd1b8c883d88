package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/metrics"
)

const (
	DefaultHistoryKey      = "conversionHistory"
	DefaultHistoryCapacity = 100
)

const (
	OpLoad   = "load"
	OpDecode = "decode"
	OpEncode = "encode"
	OpSave   = "save"
	OpClear  = "clear"
)

type (
	PersistenceError struct {
		Op  string
		Key string
		Err error
	}

	// KeyLocks hands out one mutex per storage key.
	KeyLocks struct {
		mu    sync.Mutex
		locks map[string]*sync.Mutex
	}

	// HistoryService is a best effort log: storage failures are logged and
	// counted but never returned to the caller.
	HistoryService struct {
		Storage  currency.Storage
		Key      string
		Capacity int
		Logger   zerolog.Logger
		Metrics  metrics.Provider
		Locks    *KeyLocks
	}
)

var defaultLocks = NewKeyLocks()

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewKeyLocks() *KeyLocks {
	return &KeyLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyLocks) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]

	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()

	return l.Unlock
}

func NewHistoryService(storage currency.Storage, logger zerolog.Logger, m metrics.Provider) *HistoryService {
	return &HistoryService{
		Storage:  storage,
		Key:      DefaultHistoryKey,
		Capacity: DefaultHistoryCapacity,
		Logger:   logger.With().Str("component", "history").Logger(),
		Metrics:  m,
		Locks:    defaultLocks,
	}
}

func (h *HistoryService) key() string {
	if h.Key == "" {
		return DefaultHistoryKey
	}

	return h.Key
}

func (h *HistoryService) capacity() int {
	if h.Capacity <= 0 {
		return DefaultHistoryCapacity
	}

	return h.Capacity
}

func (h *HistoryService) lock() func() {
	locks := h.Locks

	if locks == nil {
		locks = defaultLocks
	}

	return locks.Lock(h.Storage.GetStorageProviderName() + ":" + h.key())
}

func (h *HistoryService) report(err error) {
	var pErr *PersistenceError

	op := "unknown"

	if errors.As(err, &pErr) {
		op = pErr.Op
	}

	orNoop(h.Metrics).IncPersistenceErrors(op)
	h.Logger.Error().Err(err).Str("op", op).Str("key", h.key()).Msg("history storage failure")
}

func (h *HistoryService) load(ctx context.Context) ([]currency.HistoryEntry, error) {
	value, exists, err := h.Storage.Get(ctx, h.key())

	if err != nil {
		return nil, &PersistenceError{Op: OpLoad, Key: h.key(), Err: err}
	}

	if !exists || strings.TrimSpace(value) == "" {
		return []currency.HistoryEntry{}, nil
	}

	entries := make([]currency.HistoryEntry, 0, h.capacity())

	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		return nil, &PersistenceError{Op: OpDecode, Key: h.key(), Err: err}
	}

	// a stored JSON null decodes to nil
	if entries == nil {
		entries = []currency.HistoryEntry{}
	}

	return entries, nil
}

func (h *HistoryService) save(ctx context.Context, entries []currency.HistoryEntry) error {
	data, err := json.Marshal(entries)

	if err != nil {
		return &PersistenceError{Op: OpEncode, Key: h.key(), Err: err}
	}

	if err := h.Storage.Set(ctx, h.key(), string(data)); err != nil {
		return &PersistenceError{Op: OpSave, Key: h.key(), Err: err}
	}

	return nil
}

func (h *HistoryService) appendEntry(ctx context.Context, entry currency.HistoryEntry) ([]currency.HistoryEntry, error) {
	unlock := h.lock()
	defer unlock()

	entries, err := h.load(ctx)

	var pErr *PersistenceError

	if errors.As(err, &pErr) && pErr.Op == OpDecode {
		h.report(err)
		entries, err = []currency.HistoryEntry{}, nil
	}

	if err != nil {
		return nil, err
	}

	entries = append(entries, currency.HistoryEntry{})
	copy(entries[1:], entries)
	entries[0] = entry

	if len(entries) > h.capacity() {
		entries = entries[:h.capacity()]
	}

	if err := h.save(ctx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Append stores entry at the head of the log, evicting the oldest entries
// beyond capacity. Corrupt stored data is replaced.
func (h *HistoryService) Append(ctx context.Context, entry currency.HistoryEntry) {
	entries, err := h.appendEntry(ctx, entry)

	if err != nil {
		h.report(err)
		return
	}

	orNoop(h.Metrics).SetHistorySize(len(entries))
	h.Logger.Debug().Int("size", len(entries)).Msg("history entry appended")
}

// LoadAll never returns nil.
func (h *HistoryService) LoadAll(ctx context.Context) []currency.HistoryEntry {
	entries, err := h.load(ctx)

	if err != nil {
		h.report(err)
		return []currency.HistoryEntry{}
	}

	return entries
}

func (h *HistoryService) Clear(ctx context.Context) {
	unlock := h.lock()
	defer unlock()

	if err := h.Storage.Remove(ctx, h.key()); err != nil {
		h.report(&PersistenceError{Op: OpClear, Key: h.key(), Err: err})
		return
	}

	orNoop(h.Metrics).SetHistorySize(0)
	h.Logger.Info().Msg("history cleared")
}

func (h *HistoryService) Summarize(entries []currency.HistoryEntry) currency.Summary {
	return currency.Summarize(entries)
}
