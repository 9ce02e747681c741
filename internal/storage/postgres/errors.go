package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
)

const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
	codeUniqueViolation      pq.ErrorCode = "23505"
	classConnectionException pq.ErrorClass = "08"
)

// translate переводит ошибки gorm/драйвера в виды ошибок ядра
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if gorm.IsRecordNotFoundError(err) {
		return apperr.NotFound(op, "record not found")
	}

	// DeadlineExceeded тоже реализует net.Error, проверяем до сетевых ошибок
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Canceled(op, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeSerializationFailure, pqErr.Code == codeDeadlockDetected:
			return apperr.Conflict(op, "concurrent update, retry", err)
		case pqErr.Code == codeUniqueViolation:
			return apperr.Conflict(op, "already exists", err)
		case pqErr.Code.Class() == classConnectionException:
			return apperr.Unavailable(op, "store unavailable", err)
		}
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return apperr.Unavailable(op, "store unavailable", err)
	}

	return apperr.Internal(op, "store failure", err)
}
