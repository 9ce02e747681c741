package edge

import "context"

// Relation - именованное отношение между актором и целью
type Relation string

const (
	// Follow: follower -> followed (цель - пользователь)
	Follow Relation = "follow"
	// Like: user -> post (цель - пост)
	Like Relation = "like"
)

func (r Relation) Valid() bool {
	return r == Follow || r == Like
}

type EdgeReader interface {
	Exists(ctx context.Context, rel Relation, actorID, targetID uint) (bool, error)
	CountByTarget(ctx context.Context, rel Relation, targetID uint) (int, error)
	CountByActor(ctx context.Context, rel Relation, actorID uint) (int, error)
	TargetsOf(ctx context.Context, rel Relation, actorID uint) ([]uint, error)
}

// EdgeTx - операции внутри одной транзакции хранилища
type EdgeTx interface {
	EdgeReader
	TargetExists(ctx context.Context, rel Relation, targetID uint) (bool, error)
	Insert(ctx context.Context, rel Relation, actorID, targetID uint) error
	Delete(ctx context.Context, rel Relation, actorID, targetID uint) error
	// Touch обновляет отметку изменения цели (для like - updated_at поста)
	Touch(ctx context.Context, rel Relation, targetID uint) error
}

type EdgeStorage interface {
	EdgeReader
	// InTx выполняет fn в одной транзакции. Ошибка fn откатывает все изменения.
	InTx(ctx context.Context, fn func(tx EdgeTx) error) error
}
