package router

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/slideflow/internal/logger"
	"github.com/nguyentantai21042004/slideflow/internal/provider"
)

func newTestRouter(t *testing.T, adapters ...provider.Adapter) Router {
	t.Helper()
	r, err := New(adapters, logger.New("error"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNewRejectsEmptyAndDuplicates(t *testing.T) {
	if _, err := New(nil, logger.New("error")); err == nil {
		t.Error("New() should reject an empty adapter list")
	}

	a := provider.NewFake("same")
	b := provider.NewFake("same")
	if _, err := New([]provider.Adapter{a, b}, logger.New("error")); err == nil {
		t.Error("New() should reject duplicate adapter names")
	}
}

func TestSelect(t *testing.T) {
	first := provider.NewFake("first")
	second := provider.NewFake("second")

	tests := []struct {
		name      string
		preferred string
		unhealthy []string
		want      string
		wantErr   bool
	}{
		{"preferred healthy", "second", nil, "second", false},
		{"no preference takes configured order", "", nil, "first", false},
		{"preferred unhealthy falls to next", "first", []string{"first"}, "second", false},
		{"unknown preferred falls to configured order", "mystery", nil, "first", false},
		{"all unhealthy", "first", []string{"first", "second"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, first, second)
			for _, name := range tt.unhealthy {
				r.MarkUnhealthy(name)
			}

			a, err := r.Select(tt.preferred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Select() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrNoProviderAvailable) {
					t.Errorf("error = %v, want ErrNoProviderAvailable", err)
				}
				return
			}
			if a.Name() != tt.want {
				t.Errorf("Select() = %s, want %s", a.Name(), tt.want)
			}
		})
	}
}

func TestHealthCheckRestoresAdapter(t *testing.T) {
	a := provider.NewFake("only")
	r := newTestRouter(t, a)
	ctx := context.Background()

	r.MarkUnhealthy("only")
	if _, err := r.Select("only"); !errors.Is(err, ErrNoProviderAvailable) {
		t.Fatalf("Select() after MarkUnhealthy error = %v, want ErrNoProviderAvailable", err)
	}

	if !r.HealthCheck(ctx, "only") {
		t.Fatal("HealthCheck() = false for a live adapter")
	}
	if _, err := r.Select("only"); err != nil {
		t.Errorf("Select() after passing health check error = %v", err)
	}
}

func TestHealthCheckFailureMarksUnhealthy(t *testing.T) {
	a := provider.NewFake("flaky")
	a.PingErr = errors.New("down")
	r := newTestRouter(t, a)

	if r.HealthCheck(context.Background(), "flaky") {
		t.Fatal("HealthCheck() = true for a failing adapter")
	}
	if _, err := r.Select("flaky"); !errors.Is(err, ErrNoProviderAvailable) {
		t.Errorf("Select() error = %v, want ErrNoProviderAvailable", err)
	}

	if r.HealthCheck(context.Background(), "unknown") {
		t.Error("HealthCheck() = true for an unknown adapter")
	}
}

func TestNames(t *testing.T) {
	r := newTestRouter(t, provider.NewFake("first"), provider.NewFake("second"))
	names := r.Names()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("Names() = %v, want [first second]", names)
	}
}

func TestConcurrentAccess(t *testing.T) {
	a := provider.NewFake("a")
	b := provider.NewFake("b")
	r := newTestRouter(t, a, b)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.MarkUnhealthy("a")
		}()
		go func() {
			defer wg.Done()
			r.HealthCheck(context.Background(), "a")
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Select("a")
		}()
	}
	wg.Wait()

	// Whatever the interleaving, a passing recheck must restore selection.
	r.HealthCheck(context.Background(), "a")
	if got, err := r.Select("a"); err != nil || got.Name() != "a" {
		t.Errorf("Select() after final recheck = %v, %v", got, err)
	}
}
