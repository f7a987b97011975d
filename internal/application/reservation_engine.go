package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/retry"
)

// ReservationEngine は座席確保の唯一の入口
// REPEATABLE READ トランザクション内で対象の1行を FOR UPDATE でロックし、
// 予約済みフラグの確認と更新を同一トランザクションで行う
// 同じ座席に複数のリクエストが殺到しても、勝者はちょうど1つになる
type ReservationEngine struct {
	txManager    transaction.Manager
	showSeatRepo showseat.Repository
	policy       retry.Policy
	metrics      *metrics.Metrics
}

// NewReservationEngine はReservationEngineを作成する
func NewReservationEngine(tm transaction.Manager, sr showseat.Repository, policy retry.Policy, m *metrics.Metrics) *ReservationEngine {
	return &ReservationEngine{
		txManager:    tm,
		showSeatRepo: sr,
		policy:       policy,
		metrics:      m,
	}
}

// Reserve は (showtimeID, seatID) の座席を確保する
// onReserved が非nilの場合、座席の更新と同一トランザクション内で呼び出される
// （予約台帳への書き込み等）。onReserved が失敗するとトランザクション全体が
// ロールバックされ、座席は未予約のまま残る
//
// 返り値: (true, nil) は勝者。それ以外のエラー:
//   - showseat.ErrSlotNotFound: レコードが存在しない（リトライ対象外）
//   - showseat.ErrAlreadyReserved: 競争に敗れた（リトライ対象外、正常な結果）
//   - showseat.ErrContentionExhausted: 一時的競合がリトライ回数内に解決しなかった
func (e *ReservationEngine) Reserve(ctx context.Context, showtimeID, seatID int64, onReserved func(ctx context.Context, tx transaction.Tx) error) (bool, error) {
	attempts := 0
	err := e.policy.Do(ctx, func(ctx context.Context) error {
		attempts++
		return e.reserveOnce(ctx, showtimeID, seatID, onReserved)
	}, showseat.IsTransient)

	if e.metrics != nil && attempts > 1 {
		e.metrics.ReserveRetriesTotal.Add(float64(attempts - 1))
	}

	if err != nil {
		if showseat.IsTransient(err) {
			logger.Get().Warn("座席確保のリトライ回数を超過しました",
				zap.Int64("showtime_id", showtimeID),
				zap.Int64("seat_id", seatID),
				zap.Int("attempts", attempts),
				zap.Error(err))
			return false, fmt.Errorf("%w: %v", showseat.ErrContentionExhausted, err)
		}
		return false, err
	}
	return true, nil
}

// reserveOnce は1回分の確保試行
// ロック保持時間を短く保つため、トランザクション内では行の取得・確認・更新と
// onReserved 以外の処理を行わない
func (e *ReservationEngine) reserveOnce(ctx context.Context, showtimeID, seatID int64, onReserved func(ctx context.Context, tx transaction.Tx) error) error {
	tx, err := e.txManager.BeginRepeatableRead(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	lockStart := time.Now()

	slot, err := e.showSeatRepo.GetForUpdate(ctx, tx, showtimeID, seatID)
	if err != nil {
		return err
	}
	if slot.Reserved {
		return showseat.ErrAlreadyReserved
	}

	if err := e.showSeatRepo.MarkReserved(ctx, tx, slot.ID); err != nil {
		return err
	}

	if onReserved != nil {
		if err := onReserved(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		// REPEATABLE READ ではシリアライゼーション競合がコミット時に表面化することがある
		return fmt.Errorf("%w: コミットに失敗: %v", showseat.ErrTransientContention, err)
	}

	if e.metrics != nil {
		e.metrics.SeatLockDuration.Observe(time.Since(lockStart).Seconds())
	}
	return nil
}

// IsLostRace は予約競争の敗北を表すエラーかを返す
// 呼び出し元はこれを障害ではなく通常の結果として扱う
func IsLostRace(err error) bool {
	return errors.Is(err, showseat.ErrAlreadyReserved)
}
