package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/pulse/internal/edge"
)

type edgeKey struct {
	rel    edge.Relation
	actor  uint
	target uint
}

// MockEdgeStorage - хранилище ребер с подсчетом вызовов и внедряемой ошибкой.
// Targets задает множество существующих целей; пустое множество - любая цель существует.
type MockEdgeStorage struct {
	mu      sync.Mutex
	edges   map[edgeKey]struct{}
	Targets map[uint]bool
	Err     error
	Calls   int
}

func NewMockEdgeStorage() *MockEdgeStorage {
	return &MockEdgeStorage{
		edges: make(map[edgeKey]struct{}),
	}
}

// Add вставляет ребро напрямую, минуя переключатель
func (m *MockEdgeStorage) Add(rel edge.Relation, actorID, targetID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[edgeKey{rel, actorID, targetID}] = struct{}{}
}

func (m *MockEdgeStorage) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockEdgeStorage) call() error {
	m.Calls++
	return m.Err
}

func (m *MockEdgeStorage) Exists(ctx context.Context, rel edge.Relation, actorID, targetID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return false, err
	}
	_, ok := m.edges[edgeKey{rel, actorID, targetID}]
	return ok, nil
}

func (m *MockEdgeStorage) CountByTarget(ctx context.Context, rel edge.Relation, targetID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return 0, err
	}
	count := 0
	for k := range m.edges {
		if k.rel == rel && k.target == targetID {
			count++
		}
	}
	return count, nil
}

func (m *MockEdgeStorage) CountByActor(ctx context.Context, rel edge.Relation, actorID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return 0, err
	}
	count := 0
	for k := range m.edges {
		if k.rel == rel && k.actor == actorID {
			count++
		}
	}
	return count, nil
}

func (m *MockEdgeStorage) TargetsOf(ctx context.Context, rel edge.Relation, actorID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return nil, err
	}
	targets := []uint{}
	for k := range m.edges {
		if k.rel == rel && k.actor == actorID {
			targets = append(targets, k.target)
		}
	}
	return targets, nil
}

func (m *MockEdgeStorage) InTx(ctx context.Context, fn func(tx edge.EdgeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(); err != nil {
		return err
	}
	return fn(&mockEdgeTx{m: m})
}

type mockEdgeTx struct {
	m *MockEdgeStorage
}

func (tx *mockEdgeTx) Exists(ctx context.Context, rel edge.Relation, actorID, targetID uint) (bool, error) {
	_, ok := tx.m.edges[edgeKey{rel, actorID, targetID}]
	return ok, nil
}

func (tx *mockEdgeTx) CountByTarget(ctx context.Context, rel edge.Relation, targetID uint) (int, error) {
	count := 0
	for k := range tx.m.edges {
		if k.rel == rel && k.target == targetID {
			count++
		}
	}
	return count, nil
}

func (tx *mockEdgeTx) CountByActor(ctx context.Context, rel edge.Relation, actorID uint) (int, error) {
	count := 0
	for k := range tx.m.edges {
		if k.rel == rel && k.actor == actorID {
			count++
		}
	}
	return count, nil
}

func (tx *mockEdgeTx) TargetsOf(ctx context.Context, rel edge.Relation, actorID uint) ([]uint, error) {
	targets := []uint{}
	for k := range tx.m.edges {
		if k.rel == rel && k.actor == actorID {
			targets = append(targets, k.target)
		}
	}
	return targets, nil
}

func (tx *mockEdgeTx) TargetExists(ctx context.Context, rel edge.Relation, targetID uint) (bool, error) {
	if len(tx.m.Targets) == 0 {
		return true, nil
	}
	return tx.m.Targets[targetID], nil
}

func (tx *mockEdgeTx) Insert(ctx context.Context, rel edge.Relation, actorID, targetID uint) error {
	tx.m.edges[edgeKey{rel, actorID, targetID}] = struct{}{}
	return nil
}

func (tx *mockEdgeTx) Delete(ctx context.Context, rel edge.Relation, actorID, targetID uint) error {
	delete(tx.m.edges, edgeKey{rel, actorID, targetID})
	return nil
}

func (tx *mockEdgeTx) Touch(ctx context.Context, rel edge.Relation, targetID uint) error {
	return nil
}
