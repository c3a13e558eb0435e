package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PranaviDevireddy/cs212project/internal/app"
	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

// Verdict and score strings sent to clients.
const (
	MsgUnauthorizedRoll = "Your roll number is not authorized."
	MsgDuplicateRoll    = "Your roll number has already given answers and you cannot give now."
	MsgDuplicateAddress = "Your IP has already given answers and you cannot give now."
	MsgAuthorized       = "You are authorized. Quiz starting now."
	ScoreFormat         = "Thank you. Your score: %d"
)

// session drives one accepted connection through authentication, the ordered
// question sequence and scoring. It owns its connection exclusively.
type session struct {
	svc  *app.QuizService
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
	log  *logrus.Entry
}

func newSession(svc *app.QuizService, conn net.Conn) *session {
	return &session{
		svc:  svc,
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
		log: logrus.WithFields(logrus.Fields{
			"session": uuid.NewString(),
			"remote":  conn.RemoteAddr().String(),
		}),
	}
}

// run walks the state machine: Connected -> Authenticating -> (Rejected |
// Authorized) -> AnsweringQuestions -> Scored -> Closed. A read that fails
// mid-quiz aborts the session without recording anything; the claims made at
// registration stay in place.
func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	address := remoteHost(s.conn)

	roll, err := ReadLine(s.r)
	if err != nil {
		s.log.WithError(err).Warn("connection dropped before credential")
		return
	}
	roll = trimCredential(roll)
	s.log = s.log.WithField("roll", roll)

	if err := s.svc.Register(ctx, address, roll); err != nil {
		s.reject(err)
		return
	}
	if err := WriteMessage(s.w, MsgAuthorized); err != nil {
		s.log.WithError(err).Warn("write authorization failed")
		return
	}
	s.log.Info("session authorized")

	cat := s.svc.Catalog()
	answers := make([]string, 0, len(cat.Questions))
	score := 0
	for i, q := range cat.Questions {
		if err := WriteMessage(s.w, q.Prompt); err != nil {
			s.log.WithError(err).WithField("question", i+1).Warn("write prompt failed")
			return
		}
		raw, err := ReadLine(s.r)
		if err != nil {
			s.log.WithError(err).WithField("question", i+1).Warn("connection dropped mid-quiz")
			return
		}
		normalized, _, awarded := app.Grade(q, raw)
		answers = append(answers, normalized)
		score += awarded
	}

	res := domain.Result{
		Roll:    roll,
		Address: address,
		Answers: answers,
		Score:   score,
	}
	if err := s.svc.Complete(ctx, res); err != nil {
		s.log.WithError(err).Error("record result failed")
		return
	}
	if err := WriteMessage(s.w, fmt.Sprintf(ScoreFormat, score)); err != nil {
		s.log.WithError(err).Warn("write score failed")
		return
	}
	s.log.WithField("score", score).Info("session completed")
}

func (s *session) reject(cause error) {
	msg := MsgUnauthorizedRoll
	switch {
	case errors.Is(cause, domain.ErrDuplicateRoll):
		msg = MsgDuplicateRoll
	case errors.Is(cause, domain.ErrDuplicateAddress):
		msg = MsgDuplicateAddress
	case errors.Is(cause, domain.ErrUnauthorizedRoll):
	default:
		s.log.WithError(cause).Error("registration failed")
		return
	}
	s.log.WithField("reason", msg).Info("session rejected")
	if err := WriteMessage(s.w, msg); err != nil {
		s.log.WithError(err).Warn("write rejection failed")
	}
}

// remoteHost extracts the bare address so duplicate detection ignores the
// ephemeral port.
func remoteHost(conn net.Conn) string {
	addr := conn.RemoteAddr().String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// trimCredential strips surrounding whitespace from the submitted roll.
func trimCredential(raw string) string {
	return strings.TrimSpace(raw)
}
