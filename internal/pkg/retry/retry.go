package retry

import (
	"context"
	"math/rand"
	"time"
)

// Policy はリトライ方針を表す
// 遅延はフルジッター方式（0〜計算値の一様乱数）で算出し、
// 競合する呼び出し元同士のリトライタイミングを分散させる
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration

	// テスト用フック。nil の場合は既定の実装を使う
	sleep func(ctx context.Context, d time.Duration) error
	randF func() float64
}

// DefaultPolicy は予約エンジンの既定のリトライ方針
// 3回、100ms起点、倍率2.5、上限1秒
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	Multiplier:  2.5,
	MaxDelay:    time.Second,
}

// WithSleep はスリープ関数を差し替えた Policy を返す（テスト用）
func (p Policy) WithSleep(sleep func(ctx context.Context, d time.Duration) error) Policy {
	p.sleep = sleep
	return p
}

// WithRand は乱数源を差し替えた Policy を返す（テスト用）
func (p Policy) WithRand(randF func() float64) Policy {
	p.randF = randF
	return p
}

// Delay は attempt 回目（0始まり）の失敗後に待つべき時間を返す
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 0; i < attempt; i++ {
		d *= p.Multiplier
	}
	if max := float64(p.MaxDelay); p.MaxDelay > 0 && d > max {
		d = max
	}
	r := p.randF
	if r == nil {
		r = rand.Float64
	}
	return time.Duration(d * r())
}

// Do は fn を最大 MaxAttempts 回実行する
// retryable が false を返すエラーは即座に伝播する
// 全試行が失敗した場合は最後のエラーを返す
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, retryable func(error) bool) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts-1 {
			break
		}

		if err := p.doSleep(ctx, p.Delay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func (p Policy) doSleep(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
