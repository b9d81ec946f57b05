package arith

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/threadrace/internal/errors"
)

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Report(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func TestRun(t *testing.T) {
	t.Parallel()
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name        string
		a, b        *big.Int
		wantSum     string
		wantProduct string
	}{
		{"small", big.NewInt(10), big.NewInt(5), "15", "50"},
		{"negative", big.NewInt(-4), big.NewInt(7), "3", "-28"},
		{"zero", big.NewInt(0), big.NewInt(99), "99", "0"},
		{"arbitrary precision", huge, big.NewInt(10), "123456789012345678901234567900", "1234567890123456789012345678900"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log := &eventLog{}
			res, err := Run(context.Background(), tt.a, tt.b, Options{Delay: time.Millisecond}, log)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Sum.String() != tt.wantSum {
				t.Errorf("Sum = %s, want %s", res.Sum, tt.wantSum)
			}
			if res.Product.String() != tt.wantProduct {
				t.Errorf("Product = %s, want %s", res.Product, tt.wantProduct)
			}
			if len(log.events) != 4 {
				t.Fatalf("got %d events, want 4", len(log.events))
			}
			starts, completions := 0, 0
			for _, e := range log.events {
				switch e.Kind {
				case Started:
					starts++
				case Completed:
					completions++
					if e.Result == nil {
						t.Errorf("%s completion has no result", e.Op)
					}
				}
			}
			if starts != 2 || completions != 2 {
				t.Errorf("starts=%d completions=%d", starts, completions)
			}
		})
	}
}

func TestRun_CalculationsOverlap(t *testing.T) {
	t.Parallel()
	delay := 80 * time.Millisecond
	start := time.Now()
	res, err := Run(context.Background(), big.NewInt(2), big.NewInt(3), Options{Delay: delay}, ReporterFunc(func(Event) {}))
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed >= 2*delay {
		t.Errorf("elapsed %v suggests the calculations ran sequentially", elapsed)
	}
	if res.Elapsed < delay {
		t.Errorf("Elapsed = %v, want >= %v", res.Elapsed, delay)
	}
}

func TestRun_Cancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, big.NewInt(1), big.NewInt(2), Options{Delay: time.Hour}, ReporterFunc(func(Event) {}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRun_Validation(t *testing.T) {
	t.Parallel()
	noop := ReporterFunc(func(Event) {})
	tests := []struct {
		name string
		a, b *big.Int
		opts Options
	}{
		{"missing operand", nil, big.NewInt(1), Options{}},
		{"negative delay", big.NewInt(1), big.NewInt(1), Options{Delay: -time.Second}},
	}
	for _, tt := range tests {
		_, err := Run(context.Background(), tt.a, tt.b, tt.opts, noop)
		var ve apperrors.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: error = %v, want ValidationError", tt.name, err)
		}
	}
}
