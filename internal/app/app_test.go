package app

import (
	"context"
	"errors"
	"testing"
)

type recordingTracer struct {
	shutdowns int
	err       error
}

func (r *recordingTracer) Shutdown(ctx context.Context) error {
	r.shutdowns++
	return r.err
}

func TestShutdownBackground_StopsTracer(t *testing.T) {
	tracer := &recordingTracer{}
	a := &App{tracer: tracer}

	a.shutdownBackground(context.Background())

	if tracer.shutdowns != 1 {
		t.Errorf("tracer shutdowns = %d, want 1", tracer.shutdowns)
	}
}

func TestShutdownBackground_NoTracer(t *testing.T) {
	a := &App{}
	// 未启用追踪和事件时不 panic
	a.shutdownBackground(context.Background())
}

func TestShutdownBackground_TracerErrorIsNonFatal(t *testing.T) {
	tracer := &recordingTracer{err: errors.New("collector unreachable")}
	a := &App{tracer: tracer}

	a.shutdownBackground(context.Background())

	if tracer.shutdowns != 1 {
		t.Errorf("tracer shutdowns = %d, want 1", tracer.shutdowns)
	}
}
