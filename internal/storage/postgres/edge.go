package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/models"
	"github.com/jinzhu/gorm"
)

// relationTable описывает, где лежат ребра отношения и что является их целью
type relationTable struct {
	table     string
	actorCol  string
	targetCol string
	target    interface{} // модель цели для проверки существования
	newRow    func(actorID, targetID uint) interface{}
}

var relationTables = map[edge.Relation]relationTable{
	edge.Follow: {
		table:     "follows",
		actorCol:  "follower_id",
		targetCol: "followed_id",
		target:    &models.User{},
		newRow: func(actorID, targetID uint) interface{} {
			return &models.Follow{FollowerID: actorID, FollowedID: targetID}
		},
	},
	edge.Like: {
		table:     "likes",
		actorCol:  "user_id",
		targetCol: "post_id",
		target:    &models.Post{},
		newRow: func(actorID, targetID uint) interface{} {
			return &models.Like{UserID: actorID, PostID: targetID}
		},
	},
}

func lookup(op string, rel edge.Relation) (relationTable, error) {
	t, ok := relationTables[rel]
	if !ok {
		return relationTable{}, apperr.InvalidArgument(op, fmt.Sprintf("unknown relation %q", rel))
	}
	return t, nil
}

type EdgePostgresStorage struct {
	isolation sql.IsolationLevel
}

// NewEdgePostgresStorage - транзакции переключения выполняются с уровнем SERIALIZABLE
func NewEdgePostgresStorage() *EdgePostgresStorage {
	return &EdgePostgresStorage{isolation: sql.LevelSerializable}
}

// WithIsolation меняет уровень изоляции (sqlite в тестах работает с уровнем по умолчанию)
func (s *EdgePostgresStorage) WithIsolation(level sql.IsolationLevel) *EdgePostgresStorage {
	s.isolation = level
	return s
}

func (s *EdgePostgresStorage) Exists(ctx context.Context, rel edge.Relation, actorID, targetID uint) (bool, error) {
	return edgeQueries{db: DB}.Exists(ctx, rel, actorID, targetID)
}

func (s *EdgePostgresStorage) CountByTarget(ctx context.Context, rel edge.Relation, targetID uint) (int, error) {
	return edgeQueries{db: DB}.CountByTarget(ctx, rel, targetID)
}

func (s *EdgePostgresStorage) CountByActor(ctx context.Context, rel edge.Relation, actorID uint) (int, error) {
	return edgeQueries{db: DB}.CountByActor(ctx, rel, actorID)
}

func (s *EdgePostgresStorage) TargetsOf(ctx context.Context, rel edge.Relation, actorID uint) ([]uint, error) {
	return edgeQueries{db: DB}.TargetsOf(ctx, rel, actorID)
}

func (s *EdgePostgresStorage) InTx(ctx context.Context, fn func(tx edge.EdgeTx) error) (err error) {
	tx := DB.BeginTx(ctx, &sql.TxOptions{Isolation: s.isolation})
	if tx.Error != nil {
		return translate("InTx", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(edgeQueries{db: tx}); err != nil {
		tx.Rollback()
		return translate("InTx", err)
	}

	// serialization failure в postgres может проявиться только на COMMIT
	if err := tx.Commit().Error; err != nil {
		return translate("InTx", err)
	}
	return nil
}

// edgeQueries выполняет запросы к ребрам через db (глобальная DB или транзакция)
type edgeQueries struct {
	db *gorm.DB
}

func (q edgeQueries) Exists(ctx context.Context, rel edge.Relation, actorID, targetID uint) (bool, error) {
	t, err := lookup("Exists", rel)
	if err != nil {
		return false, err
	}

	var count int
	err = q.db.Table(t.table).
		Where(t.actorCol+" = ? AND "+t.targetCol+" = ?", actorID, targetID).
		Count(&count).Error
	if err != nil {
		return false, translate("Exists", err)
	}
	return count > 0, nil
}

func (q edgeQueries) CountByTarget(ctx context.Context, rel edge.Relation, targetID uint) (int, error) {
	t, err := lookup("CountByTarget", rel)
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.db.Table(t.table).Where(t.targetCol+" = ?", targetID).Count(&count).Error; err != nil {
		return 0, translate("CountByTarget", err)
	}
	return count, nil
}

func (q edgeQueries) CountByActor(ctx context.Context, rel edge.Relation, actorID uint) (int, error) {
	t, err := lookup("CountByActor", rel)
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.db.Table(t.table).Where(t.actorCol+" = ?", actorID).Count(&count).Error; err != nil {
		return 0, translate("CountByActor", err)
	}
	return count, nil
}

func (q edgeQueries) TargetsOf(ctx context.Context, rel edge.Relation, actorID uint) ([]uint, error) {
	t, err := lookup("TargetsOf", rel)
	if err != nil {
		return nil, err
	}

	targets := []uint{}
	err = q.db.Table(t.table).
		Where(t.actorCol+" = ?", actorID).
		Order(t.targetCol).
		Pluck(t.targetCol, &targets).Error
	if err != nil {
		return nil, translate("TargetsOf", err)
	}
	return targets, nil
}

func (q edgeQueries) TargetExists(ctx context.Context, rel edge.Relation, targetID uint) (bool, error) {
	t, err := lookup("TargetExists", rel)
	if err != nil {
		return false, err
	}

	var count int
	if err := q.db.Model(t.target).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return false, translate("TargetExists", err)
	}
	return count > 0, nil
}

func (q edgeQueries) Insert(ctx context.Context, rel edge.Relation, actorID, targetID uint) error {
	t, err := lookup("Insert", rel)
	if err != nil {
		return err
	}
	// sqlite не отдает код unique violation, поэтому дубликат проверяем явно
	exists, err := q.Exists(ctx, rel, actorID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Conflict("Insert", "edge already exists", nil)
	}
	if err := q.db.Create(t.newRow(actorID, targetID)).Error; err != nil {
		return translate("Insert", err)
	}
	return nil
}

func (q edgeQueries) Delete(ctx context.Context, rel edge.Relation, actorID, targetID uint) error {
	t, err := lookup("Delete", rel)
	if err != nil {
		return err
	}
	err = q.db.Table(t.table).
		Where(t.actorCol+" = ? AND "+t.targetCol+" = ?", actorID, targetID).
		Delete(t.newRow(0, 0)).Error
	if err != nil {
		return translate("Delete", err)
	}
	return nil
}

func (q edgeQueries) Touch(ctx context.Context, rel edge.Relation, targetID uint) error {
	if rel != edge.Like {
		return nil
	}
	return touchPost(q.db, targetID)
}
