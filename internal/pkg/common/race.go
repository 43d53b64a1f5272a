package common

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrRaceTimeout 等待逾時
var ErrRaceTimeout = errors.New("operation timed out")

const (
	racePending int32 = iota
	raceDelivered
	raceAbandoned
)

// RaceTimeout 讓 fn 與計時器競賽，先完成者決定結果。
//
// 計時器先到時立即返回 ErrRaceTimeout，並取消傳給 fn 的 context。
// 取消只是盡力而為：fn 可能忽略 context 繼續執行到結束，
// 外部呼叫的副作用（例如模型 token 費用）仍會發生。
// 若提供 onLate，被放棄的 fn 最終完成時會以其結果呼叫 onLate。
func RaceTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error), onLate func(T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	callCtx, cancel := context.WithCancel(ctx)
	ch := make(chan result, 1)
	var state atomic.Int32

	go func() {
		val, err := fn(callCtx)
		if state.CompareAndSwap(racePending, raceDelivered) {
			ch <- result{val: val, err: err}
			return
		}
		if onLate != nil {
			onLate(val, err)
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var lost error
	select {
	case r := <-ch:
		cancel()
		return r.val, r.err
	case <-timer.C:
		lost = ErrRaceTimeout
	case <-ctx.Done():
		lost = ctx.Err()
	}

	if !state.CompareAndSwap(racePending, raceAbandoned) {
		// 結果恰好在逾時同時送達
		r := <-ch
		cancel()
		return r.val, r.err
	}
	cancel()

	var zero T
	return zero, lost
}
