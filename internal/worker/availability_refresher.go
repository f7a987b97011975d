package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
)

// AvailabilitySource は空き座席数キャッシュを更新するためのインターフェース
type AvailabilitySource interface {
	ListShowtimes(ctx context.Context, limit, offset int) ([]*showtime.Showtime, error)
	RefreshAvailability(ctx context.Context, showtimeID int64) (int, error)
}

// AvailabilityRefresher は上映回の空き座席数キャッシュを定期的に再計算するワーカー
// 予約処理の無効化と合わせて、キャッシュがDBから乖離したまま残ることを防ぐ
type AvailabilityRefresher struct {
	source   AvailabilitySource
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAvailabilityRefresher は新しいリフレッシャーを作成
func NewAvailabilityRefresher(source AvailabilitySource, interval time.Duration) *AvailabilityRefresher {
	return &AvailabilityRefresher{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はリフレッシャーを開始
func (r *AvailabilityRefresher) Start(ctx context.Context) {
	logger.Info("空き座席数リフレッシャー開始",
		zap.Duration("interval", r.interval),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空き座席数リフレッシャー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("空き座席数リフレッシャー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop はリフレッシャーを停止
func (r *AvailabilityRefresher) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// refresh は全上映回の空き座席数を数え直してキャッシュを更新する
func (r *AvailabilityRefresher) refresh(ctx context.Context) {
	log := logger.Get()
	log.Debug("空き座席数の再計算開始")

	const pageSize = 100
	refreshed := 0
	for offset := 0; ; offset += pageSize {
		showtimes, err := r.source.ListShowtimes(ctx, pageSize, offset)
		if err != nil {
			log.Error("上映回一覧の取得に失敗", zap.Error(err))
			return
		}
		if len(showtimes) == 0 {
			break
		}

		for _, st := range showtimes {
			if _, err := r.source.RefreshAvailability(ctx, st.ID); err != nil {
				log.Error("空き座席数の再計算に失敗",
					zap.Int64("showtime_id", st.ID), zap.Error(err))
				continue
			}
			refreshed++
		}

		if len(showtimes) < pageSize {
			break
		}
	}

	if refreshed > 0 {
		log.Debug("空き座席数を再計算", zap.Int("count", refreshed))
	}
}
