package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"advocate_office_go/db"

	"github.com/labstack/echo/v4"
)

// Tables whose change events may be streamed to clients
var streamableTables = map[string]bool{
	"employees":        true,
	"litigation_cases": true,
	"files":            true,
}

const streamHeartbeatInterval = 30 * time.Second

// StreamChangesHandler streams committed row changes on one table as
// server-sent events. Clients re-fetch the affected list on every event
// instead of patching local state.
func StreamChangesHandler(c echo.Context) error {
	table := c.Param("table")
	if !streamableTables[table] {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown table")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	sub := db.Notify.Subscribe(table)
	defer sub.Cancel()

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.C:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
