package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
)

// PostgreSQLのエラーコード
// 40001: serialization_failure, 40P01: deadlock_detected, 55P03: lock_not_available
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
)

// classifyContention はドライバのエラーをドメインの一時的競合エラーへ変換する
// 対象外のエラーはそのまま返す
func classifyContention(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s", showseat.ErrTransientContention, pqErr.Message)
		}
	}
	return err
}

// isUniqueViolation は一意制約違反かを返す
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == codeUniqueViolation
}
