package embedding

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/osvector/internal/domain"
)

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry("default")
	def := &plainMockEmbedder{}
	other := &plainMockEmbedder{}
	r.Register("default", def)
	r.Register("other", other)

	got, err := r.Get("other")
	if err != nil || got != other {
		t.Fatalf("Get(other) = %v, %v", got, err)
	}
	got, err = r.Get("")
	if err != nil || got != def {
		t.Fatalf("Get(\"\") should return fallback, got %v, %v", got, err)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry("")
	r.Register("a", &plainMockEmbedder{})

	_, err := r.Get("missing")
	if !errors.Is(err, domain.ErrUnknownEmbedding) {
		t.Fatalf("expected ErrUnknownEmbedding, got %v", err)
	}
	if _, err := r.Get(""); !errors.Is(err, domain.ErrUnknownEmbedding) {
		t.Fatalf("empty name without fallback must fail, got %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry("")
	r.Register("b", &plainMockEmbedder{})
	r.Register("a", &plainMockEmbedder{})

	if got := r.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestRegistry_HealthCheck(t *testing.T) {
	r := NewRegistry("")
	if err := r.HealthCheck(context.Background()); err == nil {
		t.Error("empty registry must be unhealthy")
	}

	r.Register("plain", &plainMockEmbedder{})
	r.Register("ok", &healthMockEmbedder{})
	if err := r.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boom := errors.New("unreachable")
	r.Register("down", &healthMockEmbedder{err: boom})
	if err := r.HealthCheck(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected health failure, got %v", err)
	}
}
