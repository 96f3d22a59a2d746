package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/i474232898/weather-lookup/internal/view"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const heartbeatInterval = 15 * time.Second

// streamEvents pushes the rendered screen as Server-Sent Events: once on
// connect, then after every completed fetch.
func streamEvents(c *fiber.Ctx, state *weather.FetchState) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	events, unsubscribe := state.Subscribe(16)
	initial := state.Snapshot()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		if err := writeSnapshot(w, initial); err != nil {
			return
		}

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				// Render the latest state, which may already be past the event.
				if err := writeSnapshot(w, state.Snapshot()); err != nil {
					return
				}
			case <-ticker.C:
				// Writing fails once the client has gone away.
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

// writeSnapshot frames snap so the event id is always the sequence the
// rendered screen was built from.
func writeSnapshot(w *bufio.Writer, snap weather.Snapshot) error {
	return writeEvent(w, snap.Seq, view.Render(snap))
}

func writeEvent(w *bufio.Writer, seq uint64, screen view.Screen) error {
	data, err := json.Marshal(screen)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: screen\ndata: %s\n\n", seq, data); err != nil {
		return err
	}
	return w.Flush()
}
