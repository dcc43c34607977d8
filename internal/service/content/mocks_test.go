package content

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	"github.com/mitrafire/cms-backend/internal/cache"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// documentRepoMock implements documentRepo with settable func fields.
type documentRepoMock struct {
	GetFunc           func(ctx context.Context, collection, id string) (*domain.Document, error)
	GetValueFunc      func(ctx context.Context, lang, collection, id string) (json.RawMessage, error)
	UpsertFunc        func(ctx context.Context, collection, id string, content map[string]json.RawMessage, merge bool) (*domain.Document, error)
	MergeLanguageFunc func(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error)
	SeedLanguageFunc  func(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error)
	DeleteFunc        func(ctx context.Context, collection, id string) error
	ListFunc          func(ctx context.Context, collection string, f document.Filter) ([]*domain.Document, int, error)
	CollectionsFunc   func(ctx context.Context) ([]string, error)

	mu                 sync.Mutex
	getValueCalls      int
	mergeLanguageCalls int
}

func (m *documentRepoMock) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	return m.GetFunc(ctx, collection, id)
}

func (m *documentRepoMock) GetValue(ctx context.Context, lang, collection, id string) (json.RawMessage, error) {
	m.mu.Lock()
	m.getValueCalls++
	m.mu.Unlock()
	return m.GetValueFunc(ctx, lang, collection, id)
}

func (m *documentRepoMock) Upsert(ctx context.Context, collection, id string, content map[string]json.RawMessage, merge bool) (*domain.Document, error) {
	return m.UpsertFunc(ctx, collection, id, content, merge)
}

func (m *documentRepoMock) MergeLanguage(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error) {
	m.mu.Lock()
	m.mergeLanguageCalls++
	m.mu.Unlock()
	return m.MergeLanguageFunc(ctx, lang, collection, data)
}

func (m *documentRepoMock) SeedLanguage(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error) {
	return m.SeedLanguageFunc(ctx, lang, collection, data)
}

func (m *documentRepoMock) Delete(ctx context.Context, collection, id string) error {
	return m.DeleteFunc(ctx, collection, id)
}

func (m *documentRepoMock) List(ctx context.Context, collection string, f document.Filter) ([]*domain.Document, int, error) {
	return m.ListFunc(ctx, collection, f)
}

func (m *documentRepoMock) Collections(ctx context.Context) ([]string, error) {
	return m.CollectionsFunc(ctx)
}

func (m *documentRepoMock) GetValueCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getValueCalls
}

func (m *documentRepoMock) MergeLanguageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mergeLanguageCalls
}

// txManagerMock runs the callback directly, recording invocations.
type txManagerMock struct {
	RunErr error

	mu    sync.Mutex
	calls int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.RunErr != nil {
		return m.RunErr
	}
	return fn(ctx)
}

func (m *txManagerMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// cacheMock is a pass-through cache that records invalidations.
type cacheMock struct {
	mu                     sync.Mutex
	invalidatedDocs        []string
	invalidatedCollections []string
}

func (m *cacheMock) Get(ctx context.Context, key string, fetch cache.FetchFunc) (json.RawMessage, error) {
	return fetch(ctx)
}

func (m *cacheMock) InvalidateDocument(collection, docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidatedDocs = append(m.invalidatedDocs, collection+"/"+docID)
}

func (m *cacheMock) InvalidateCollection(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidatedCollections = append(m.invalidatedCollections, collection)
}

func (m *cacheMock) InvalidatedCollections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.invalidatedCollections...)
}

func (m *cacheMock) InvalidatedDocs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.invalidatedDocs...)
}
