// Package ws exposes a read-only WebSocket monitor that streams the live
// leaderboard to observers as sessions complete.
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/PranaviDevireddy/cs212project/internal/app"
	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

type Monitor struct {
	svc      *app.QuizService
	upgrader websocket.Upgrader
}

func NewMonitor(svc *app.QuizService) *Monitor {
	return &Monitor{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// ServeWS upgrades the request and streams leaderboard snapshots until the
// observer disconnects. Observers never write; the read loop only detects
// the close.
func (m *Monitor) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel, err := m.svc.Subscribe(r.Context())
	if err != nil {
		logrus.WithError(err).Error("monitor subscribe failed")
		return
	}
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case lb, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: lb}); err != nil {
				logrus.WithError(err).Warn("ws write error")
				return
			}
		case <-closed:
			return
		}
	}
}
