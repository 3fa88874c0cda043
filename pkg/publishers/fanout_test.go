package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every publisher should be called once")
	}
}

func TestFanoutCloseReleasesPublishers(t *testing.T) {
	p := &stubPublisher{id: "p", typ: "pubsub"}
	if err := NewFanout([]Publisher{p}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !p.closed {
		t.Fatalf("publisher was not closed")
	}

	var nilFanout *Fanout
	if n, err := nilFanout.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout should be a no-op")
	}
}

func TestFanoutDeliverReportsInOrder(t *testing.T) {
	pubs := []Publisher{
		&stubPublisher{id: "a", typ: "http"},
		&stubPublisher{id: "b", typ: "sqs", err: errors.New("denied")},
		&stubPublisher{id: "c", typ: "sns"},
	}
	got := NewFanout(pubs).Deliver(context.Background(), Event{})
	if len(got) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].PublisherID != want {
			t.Fatalf("delivery %d = %s, want %s", i, got[i].PublisherID, want)
		}
	}
	if got[0].Err != nil || got[1].Err == nil || got[2].Err != nil {
		t.Fatalf("unexpected delivery errors: %#v", got)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	if types := reg.Types(); len(types) != 4 || types[0] != TypeHTTP || types[3] != TypeSQS {
		t.Fatalf("unexpected registered types %v", types)
	}
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("expected 1 http publisher, got %v", pubs)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
	if !strings.Contains(err.Error(), "known: http, pubsub, sns, sqs") {
		t.Fatalf("error should list known types: %v", err)
	}
}

func TestBuildAllClosesBuiltPublishersOnFailure(t *testing.T) {
	built := &stubPublisher{id: "first", typ: "stub"}
	reg := NewRegistry()
	reg.Register("stub", func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil })
	reg.Register("broken", func(context.Context, PublisherConfig, Logger) (Publisher, error) {
		return nil, errors.New("no credentials")
	})
	reg.Register(" ", nil)

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "BROKEN"},
	}, nil)
	if err == nil || pubs != nil {
		t.Fatalf("expected failure, got %v %v", pubs, err)
	}
	if !built.closed {
		t.Fatalf("already built publisher was not closed")
	}
	if len(reg.Types()) != 2 {
		t.Fatalf("blank registration should be ignored: %v", reg.Types())
	}
}
