package closer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group closes registered resources concurrently.
type Group struct {
	closerLocker sync.Mutex
	closer       []func(context.Context) error
}

func (g *Group) Add(f func(context.Context) error) {
	g.closerLocker.Lock()
	defer g.closerLocker.Unlock()
	g.closer = append(g.closer, f)
}

// AddCloser registers an io.Closer-like value.
func (g *Group) AddCloser(c interface{ Close() error }) {
	g.Add(func(context.Context) error {
		return c.Close()
	})
}

// Close runs every registered function once and returns the first error.
// Functions added after Close started are kept for the next Close.
func (g *Group) Close(ctx context.Context) error {
	g.closerLocker.Lock()
	closer := g.closer
	g.closer = nil
	g.closerLocker.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	for _, f := range closer {
		eg.Go(func() error {
			return f(ctx)
		})
	}

	return eg.Wait()
}
