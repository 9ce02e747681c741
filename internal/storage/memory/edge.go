package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/internal/post"
	"github.com/VitaminP8/pulse/internal/user"
)

type pair struct {
	actor  uint
	target uint
}

// EdgeMemoryStorage хранит ребра follow/like. Мьютекс удерживается на всю транзакцию InTx,
// поэтому переключения одного ребра выполняются строго последовательно.
type EdgeMemoryStorage struct {
	mu          sync.Mutex
	edges       map[edge.Relation]map[pair]struct{}
	userStorage user.UserStorage
	postStorage post.PostStorage
}

func NewEdgeMemoryStorage(userStore user.UserStorage, postStore post.PostStorage) *EdgeMemoryStorage {
	return &EdgeMemoryStorage{
		edges: map[edge.Relation]map[pair]struct{}{
			edge.Follow: make(map[pair]struct{}),
			edge.Like:   make(map[pair]struct{}),
		},
		userStorage: userStore,
		postStorage: postStore,
	}
}

func (s *EdgeMemoryStorage) Exists(ctx context.Context, rel edge.Relation, actorID, targetID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(rel, actorID, targetID)
}

func (s *EdgeMemoryStorage) CountByTarget(ctx context.Context, rel edge.Relation, targetID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countByTarget(rel, targetID)
}

func (s *EdgeMemoryStorage) CountByActor(ctx context.Context, rel edge.Relation, actorID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countByActor(rel, actorID)
}

func (s *EdgeMemoryStorage) TargetsOf(ctx context.Context, rel edge.Relation, actorID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetsOf(rel, actorID)
}

func (s *EdgeMemoryStorage) InTx(ctx context.Context, fn func(tx edge.EdgeTx) error) error {
	if err := ctx.Err(); err != nil {
		return apperr.Canceled("InTx", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &edgeMemoryTx{store: s}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *EdgeMemoryStorage) relation(rel edge.Relation) (map[pair]struct{}, error) {
	set, ok := s.edges[rel]
	if !ok {
		return nil, apperr.InvalidArgument("edge", fmt.Sprintf("unknown relation %q", rel))
	}
	return set, nil
}

func (s *EdgeMemoryStorage) exists(rel edge.Relation, actorID, targetID uint) (bool, error) {
	set, err := s.relation(rel)
	if err != nil {
		return false, err
	}
	_, ok := set[pair{actor: actorID, target: targetID}]
	return ok, nil
}

func (s *EdgeMemoryStorage) countByTarget(rel edge.Relation, targetID uint) (int, error) {
	set, err := s.relation(rel)
	if err != nil {
		return 0, err
	}
	count := 0
	for p := range set {
		if p.target == targetID {
			count++
		}
	}
	return count, nil
}

func (s *EdgeMemoryStorage) countByActor(rel edge.Relation, actorID uint) (int, error) {
	set, err := s.relation(rel)
	if err != nil {
		return 0, err
	}
	count := 0
	for p := range set {
		if p.actor == actorID {
			count++
		}
	}
	return count, nil
}

func (s *EdgeMemoryStorage) targetsOf(rel edge.Relation, actorID uint) ([]uint, error) {
	set, err := s.relation(rel)
	if err != nil {
		return nil, err
	}
	targets := []uint{}
	for p := range set {
		if p.actor == actorID {
			targets = append(targets, p.target)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets, nil
}

// edgeMemoryTx работает под мьютексом хранилища и ведет журнал отката
type edgeMemoryTx struct {
	store *EdgeMemoryStorage
	undo  []func()
}

func (tx *edgeMemoryTx) Exists(ctx context.Context, rel edge.Relation, actorID, targetID uint) (bool, error) {
	return tx.store.exists(rel, actorID, targetID)
}

func (tx *edgeMemoryTx) CountByTarget(ctx context.Context, rel edge.Relation, targetID uint) (int, error) {
	return tx.store.countByTarget(rel, targetID)
}

func (tx *edgeMemoryTx) CountByActor(ctx context.Context, rel edge.Relation, actorID uint) (int, error) {
	return tx.store.countByActor(rel, actorID)
}

func (tx *edgeMemoryTx) TargetsOf(ctx context.Context, rel edge.Relation, actorID uint) ([]uint, error) {
	return tx.store.targetsOf(rel, actorID)
}

func (tx *edgeMemoryTx) TargetExists(ctx context.Context, rel edge.Relation, targetID uint) (bool, error) {
	var err error
	switch rel {
	case edge.Follow:
		_, err = tx.store.userStorage.GetUserByID(ctx, targetID)
	case edge.Like:
		_, err = tx.store.postStorage.GetPostByID(ctx, targetID)
	default:
		return false, apperr.InvalidArgument("TargetExists", fmt.Sprintf("unknown relation %q", rel))
	}
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (tx *edgeMemoryTx) Insert(ctx context.Context, rel edge.Relation, actorID, targetID uint) error {
	set, err := tx.store.relation(rel)
	if err != nil {
		return err
	}
	key := pair{actor: actorID, target: targetID}
	if _, ok := set[key]; ok {
		return apperr.Conflict("Insert", "edge already exists", nil)
	}
	set[key] = struct{}{}
	tx.undo = append(tx.undo, func() { delete(set, key) })
	return nil
}

func (tx *edgeMemoryTx) Delete(ctx context.Context, rel edge.Relation, actorID, targetID uint) error {
	set, err := tx.store.relation(rel)
	if err != nil {
		return err
	}
	key := pair{actor: actorID, target: targetID}
	if _, ok := set[key]; !ok {
		return nil
	}
	delete(set, key)
	tx.undo = append(tx.undo, func() { set[key] = struct{}{} })
	return nil
}

func (tx *edgeMemoryTx) Touch(ctx context.Context, rel edge.Relation, targetID uint) error {
	if rel != edge.Like {
		return nil
	}
	return tx.store.postStorage.TouchPost(ctx, targetID)
}

func (tx *edgeMemoryTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}
