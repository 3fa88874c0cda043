package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Delivery is the outcome of handing one event to one publisher.
type Delivery struct {
	PublisherID string
	Type        string
	Err         error
}

// Fanout hands each invocation event to every configured sink.
type Fanout struct {
	sinks []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			sinks = append(sinks, p)
		}
	}
	return &Fanout{sinks: sinks}
}

// Deliver sends evt to all sinks concurrently and reports each outcome in sink order.
func (f *Fanout) Deliver(ctx context.Context, evt Event) []Delivery {
	if f == nil || len(f.sinks) == 0 {
		return nil
	}

	out := make([]Delivery, len(f.sinks))
	var wg sync.WaitGroup
	for i, p := range f.sinks {
		out[i] = Delivery{PublisherID: p.ID(), Type: p.Type()}
		wg.Add(1)
		go func(i int, p Publisher) {
			defer wg.Done()
			out[i].Err = p.Publish(ctx, evt)
		}(i, p)
	}
	wg.Wait()
	return out
}

// Publish delivers evt and returns how many sinks accepted it, joining the failures.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	var (
		errs      []error
		delivered int
	)
	for _, d := range f.Deliver(ctx, evt) {
		if d.Err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", d.Type, d.PublisherID, d.Err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks holding client resources.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.sinks)
}

func closeAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
