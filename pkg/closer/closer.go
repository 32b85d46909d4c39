package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ctxが切れた後、残りを閉じるのに使う時間
const defaultForcedTimeout = 2 * time.Second

// Func はリソースを閉じる関数
type Func func(ctx context.Context) error

// Closer は登録された終了処理を逆順（LIFO）に実行する
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	funcs         []namedFunc
	forcedTimeout time.Duration
}

type namedFunc struct {
	name string
	fn   Func
}

func New() *Closer {
	return &Closer{forcedTimeout: defaultForcedTimeout}
}

// Add は終了処理を登録する
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, namedFunc{name: name, fn: f})
}

// Close は全ての終了処理を1回だけ実行し、エラーはまとめて返す。
// ctxが先に切れたら、残りは新しいctxで並行に強制クローズする
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		stopIdx, errs := gracefulClose(ctx, funcs)
		if stopIdx >= 0 {
			errs = append(errs, fmt.Errorf("shutdown interrupted at %s: %w", funcs[stopIdx].name, ctx.Err()))
			errs = append(errs, c.forcedClose(funcs[:stopIdx+1])...)
		}
		err = errors.Join(errs...)
	})
	return err
}

// 全部閉じたら -1。ctxが切れたら止まった位置を返す
func gracefulClose(ctx context.Context, funcs []namedFunc) (int, []error) {
	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return i, errs
		}

		f := funcs[i]
		done := make(chan error, 1)
		go func() { done <- f.fn(ctx) }()

		select {
		case ferr := <-done:
			if ferr != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.name, ferr))
			}
		case <-ctx.Done():
			return i, errs
		}
	}
	return -1, errs
}

func (c *Closer) forcedClose(funcs []namedFunc) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ferr := f.fn(ctx); ferr != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("forced %s: %w", f.name, ferr))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}
