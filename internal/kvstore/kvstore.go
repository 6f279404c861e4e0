// Package kvstore is the local key-value persistence the engine treats as its
// single source of truth. Values are JSON documents stored under fixed keys.
package kvstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/vytor/senseflash/internal/logger"
)

// Keys used by the engine.
const (
	KeyWords               = "WordWithSensesList"
	KeyStatuses            = "SensesStatusList"
	KeyTodayLearningList   = "TodayLearningList"
	KeyCurrentLearningList = "CurrentLearningList"
	KeyUserData            = "UserData"
	KeyLearnSettings       = "LearnSettings"
	KeyCustomToday         = "CustomToday"
	KeyCurrentWordIndex    = "CurrentWordIndex"
)

// AppKeys are wiped by a full initialization. CustomToday survives it.
var AppKeys = []string{
	KeyWords,
	KeyStatuses,
	KeyTodayLearningList,
	KeyCurrentLearningList,
	KeyLearnSettings,
	KeyCurrentWordIndex,
	KeyUserData,
}

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// GetJSON decodes the value under key into dst. A missing key, a read error
// or a malformed value all report false and leave dst untouched; the latter
// two are logged as warnings.
func GetJSON(ctx context.Context, s Store, key string, dst any) bool {
	log := logger.FromContext(ctx).WithPrefix("kvstore")

	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		log.Warn("failed to read %s, treating as empty: %v", key, err)
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Warn("malformed value under %s, treating as empty: %v", key, err)
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(b))
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Keys lists the stored keys in order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
