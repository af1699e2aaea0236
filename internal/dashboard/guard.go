package dashboard

import (
	"fmt"
	"sync"
)

// panicGuard captura el primer panic de las goroutines de un errgroup para
// relanzarlo en la goroutine que hace Wait, donde sí hay un recover.
type panicGuard struct {
	mu  sync.Mutex
	val any
}

func (p *panicGuard) wrap(fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				p.mu.Lock()
				if p.val == nil {
					p.val = r
				}
				p.mu.Unlock()
			}
		}()
		return fn()
	}
}

// rethrow relanza el panic capturado, si lo hubo. Llamar después de Wait.
func (p *panicGuard) rethrow() {
	p.mu.Lock()
	v := p.val
	p.mu.Unlock()
	if v != nil {
		panic(v)
	}
}

// err devuelve el panic capturado como error, o nil.
func (p *panicGuard) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.val == nil {
		return nil
	}
	return fmt.Errorf("panic: %v", p.val)
}
