package relay

import (
	"context"
	"sync"
	"time"
)

// Poller refreshes a Viewer on a fixed interval until stopped.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start fetches immediately and then every interval.
// It fails with a redirect to room setup when no room id is stored.
func (v *Viewer) Start(ctx context.Context) (*Poller, error) {
	if _, err := v.Open(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}
	go p.run(ctx, v)
	return p, nil
}

func (p *Poller) run(ctx context.Context, v *Viewer) {
	defer close(p.done)

	_ = v.Refresh(ctx)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = v.Refresh(ctx)
		}
	}
}

// Stop cancels the in-flight fetch and waits for the loop to exit.
// No refresh is applied after Stop returns.
func (p *Poller) Stop() {
	p.once.Do(p.cancel)
	<-p.done
}

// Done is closed once the polling loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
