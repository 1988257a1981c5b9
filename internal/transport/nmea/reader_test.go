package nmea

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestReader_Run(t *testing.T) {
	stream := strings.Join([]string{
		sentence("GPGGA,092750.000,5321.6802,N,00630.3372,W,1,8,1.03,61.7,M,55.2,M,,"),
		"",
		sentence("HEHDT,90.0,T"),
		sentence("GPZDA,201530.00,04,07,2002,00,00"),
		sentence("GPRMC,220516,V,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W"),
		"$HEHDT,91.0,T*00",
		sentence("HEHDT,92.0,T"),
	}, "\r\n")

	r := NewReader(strings.NewReader(stream), nil)
	var events []Event
	if err := r.Run(context.Background(), func(ev Event) { events = append(events, ev) }); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("events: got %d, want 3 (%+v)", len(events), events)
	}
	if events[0].Kind != KindFix || events[1].Heading != 90 || events[2].Heading != 92 {
		t.Errorf("events: got %+v", events)
	}

	want := Stats{Lines: 6, Fixes: 1, Headings: 2, Skipped: 2, Errors: 1}
	if got := r.Stats(); got != want {
		t.Errorf("stats: got %+v, want %+v", got, want)
	}
}

// blockingPort behaves like a serial port: Read blocks until Close.
type blockingPort struct {
	closed chan struct{}
}

func (p *blockingPort) Read([]byte) (int, error) {
	<-p.closed
	return 0, io.EOF
}

func (p *blockingPort) Close() error {
	close(p.closed)
	return nil
}

func TestReader_CancelClosesSource(t *testing.T) {
	port := &blockingPort{closed: make(chan struct{})}
	r := NewReader(port, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx, func(Event) {}) }()

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run: got %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
