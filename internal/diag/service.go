package diag

// Sender is the producer side of a Service. It is safe for concurrent use
// by many workers.
type Sender struct {
	ch chan<- []Diagnostic
}

// Send queues a batch of diagnostics for collection. Empty batches are
// dropped at the sender to keep the channel quiet.
func (s *Sender) Send(diags []Diagnostic) {
	if len(diags) == 0 {
		return
	}
	s.ch <- diags
}

// Service collects diagnostics from many producers on a single consumer
// goroutine, mirroring the single-writer discipline of the graph.
type Service struct {
	ch   chan []Diagnostic
	done chan struct{}
	all  []Diagnostic
}

// NewService creates a Service and starts its collector goroutine.
func NewService() *Service {
	s := &Service{
		ch:   make(chan []Diagnostic, 64),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for batch := range s.ch {
			s.all = append(s.all, batch...)
		}
	}()
	return s
}

// Sender returns a producer handle. All senders share the one channel.
func (s *Service) Sender() *Sender {
	return &Sender{ch: s.ch}
}

// Drain stops collection and returns every diagnostic received, sorted.
// Must be called exactly once, after all senders are finished.
func (s *Service) Drain() []Diagnostic {
	close(s.ch)
	<-s.done
	Sort(s.all)
	return s.all
}
