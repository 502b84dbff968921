package sweep

import (
	"context"
	"encoding/json"
	"net/http"

	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/psychro"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Msg is one websocket frame. Clients send "start" with a Spec as content
// and may send "stop"; the server answers with "point", "done", "stopped"
// and "error". Anything but "stop" sent during a sweep is answered with
// "error" and dropped.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type Handler struct {
	Defaults heater.ParameterSet
	Lookup   psychro.Lookup
	Upgrader websocket.Upgrader
}

func (h *Handler) base() heater.ParameterSet {
	if h.Defaults == (heater.ParameterSet{}) {
		return heater.Defaults()
	}
	return h.Defaults
}

// ServeWS runs sweeps requested over a websocket connection, one at a time.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	msgs := make(chan Msg)
	go func() {
		defer close(msgs)
		for {
			var m Msg
			if err := conn.ReadJSON(&m); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.WithError(err).Debug("websocket read")
				}
				return
			}
			select {
			case msgs <- m:
			case <-done:
				return
			}
		}
	}()

	for m := range msgs {
		switch m.Type {
		case "start":
			if !h.sweep(r.Context(), conn, m, msgs) {
				return
			}
		case "stop":
		default:
			h.reply(conn, "error", "unknown message type "+m.Type)
		}
	}
}

// sweep streams one sweep. It reports false when the connection is gone.
func (h *Handler) sweep(ctx context.Context, conn *websocket.Conn, m Msg, msgs <-chan Msg) bool {
	spec := Default()
	if m.Content != "" {
		if err := json.Unmarshal([]byte(m.Content), &spec); err != nil {
			return h.reply(conn, "error", "invalid sweep: "+err.Error())
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	alive := true
	err := Run(ctx, h.base(), h.Lookup, spec, func(p Point) error {
		for pending := true; pending; {
			select {
			case next, ok := <-msgs:
				if !ok {
					alive = false
					cancel()
					return ctx.Err()
				}
				if next.Type == "stop" {
					cancel()
					return ctx.Err()
				}
				if err := conn.WriteJSON(Msg{Type: "error", Content: "sweep in progress, " + next.Type + " ignored"}); err != nil {
					alive = false
					return err
				}
			default:
				pending = false
			}
		}
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if err := conn.WriteJSON(Msg{Type: "point", Content: string(data)}); err != nil {
			alive = false
			return err
		}
		return nil
	})
	if !alive {
		return false
	}
	switch {
	case err == context.Canceled:
		return h.reply(conn, "stopped", "")
	case err != nil:
		return h.reply(conn, "error", err.Error())
	}
	return h.reply(conn, "done", "")
}

func (h *Handler) reply(conn *websocket.Conn, typ, content string) bool {
	if err := conn.WriteJSON(Msg{Type: typ, Content: content}); err != nil {
		log.WithError(err).Debug("websocket write")
		return false
	}
	return true
}
