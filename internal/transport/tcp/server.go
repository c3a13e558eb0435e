package tcp

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PranaviDevireddy/cs212project/internal/app"
)

// Server accepts quiz connections and runs one session per connection. The
// concurrency cap and the shutdown drain window are explicit configuration
// rather than accidents of the runtime.
type Server struct {
	svc         *app.QuizService
	addr        string
	maxSessions int

	ln net.Listener
	wg sync.WaitGroup
}

// NewServer builds a server for addr; maxSessions <= 0 means unlimited.
func NewServer(svc *app.QuizService, addr string, maxSessions int) *Server {
	return &Server{svc: svc, addr: addr, maxSessions: maxSessions}
}

// Listen binds the endpoint. A bind failure is the one fatal startup error.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	logrus.WithField("addr", ln.Addr().String()).Info("quiz server listening")
	return nil
}

// Addr returns the bound address; valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until the listener is closed by Shutdown. When a
// session cap is configured the accept loop blocks on a free slot, so the
// transport backlog is the only queue.
func (s *Server) Serve(ctx context.Context) error {
	var slots chan struct{}
	if s.maxSessions > 0 {
		slots = make(chan struct{}, s.maxSessions)
	}

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logrus.WithError(err).Warn("accept failed")
			continue
		}
		if slots != nil {
			slots <- struct{}{}
		}
		s.wg.Add(1)
		go func(conn net.Conn) {
			defer s.wg.Done()
			if slots != nil {
				defer func() { <-slots }()
			}
			newSession(s.svc, conn).run(ctx)
		}(conn)
	}
}

// Shutdown stops accepting and waits up to drain for in-flight sessions.
// Sessions still blocked on a client after the window are abandoned; their
// results never reach the registry and the reports reflect that.
func (s *Server) Shutdown(drain time.Duration) {
	if s.ln != nil {
		_ = s.ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logrus.Info("all sessions drained")
	case <-time.After(drain):
		logrus.WithField("drain_timeout", drain.String()).Warn("drain window elapsed with sessions still in flight")
	}
}
