package main

import (
	"context"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestForwardEvents(t *testing.T) {
	t.Run("delivers in order", func(t *testing.T) {
		in := make(chan uv.Event, 2)
		out := make(chan uv.Event, 2)
		in <- uv.WindowSizeEvent{Width: 1, Height: 1}
		in <- uv.WindowSizeEvent{Width: 2, Height: 2}
		close(in)

		forwardEvents(context.Background(), in, out)
		for want := 1; want <= 2; want++ {
			ev := <-out
			if sz, ok := ev.(uv.WindowSizeEvent); !ok || sz.Width != want {
				t.Errorf("event %d = %#v", want, ev)
			}
		}
	})

	t.Run("returns on cancel with a blocked reader", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		in := make(chan uv.Event, 1)
		out := make(chan uv.Event)
		in <- uv.WindowSizeEvent{Width: 1, Height: 1}

		done := make(chan struct{})
		go func() {
			forwardEvents(ctx, in, out)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("forwardEvents still blocked after cancel")
		}
	})
}
