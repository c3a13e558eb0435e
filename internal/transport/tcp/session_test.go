package tcp

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PranaviDevireddy/cs212project/internal/app"
	"github.com/PranaviDevireddy/cs212project/internal/domain"
	"github.com/PranaviDevireddy/cs212project/internal/infra/memory"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		ID: "mini",
		Questions: []domain.Question{
			{Kind: domain.SingleChoice, Prompt: "Pick one\nA. yes\nB. no", Correct: []string{"A"}, Points: 2},
			{Kind: domain.MultiChoice, Prompt: "Pick all\nA. one\nB. two\nC. three", Correct: []string{"A", "B"}, Points: 4},
			{Kind: domain.FreeText, Prompt: "Which device connects networks?", Correct: []string{"Router"}, Points: 3},
		},
	}
}

func newSessionService() *app.QuizService {
	registry := memory.NewRegistry(domain.RollRange{Min: 2303101, Max: 2303140})
	return app.NewQuizService(registry, testCatalog())
}

type fakeAddr string

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return string(a) }

// stubConn lets a test pick the remote address the session sees.
type stubConn struct {
	net.Conn
	remote net.Addr
}

func (c *stubConn) RemoteAddr() net.Addr { return c.remote }

// startSession runs a session against one end of a pipe and hands the test
// the client end plus a done channel that closes when the session returns.
func startSession(t *testing.T, svc *app.QuizService, remote string) (net.Conn, <-chan struct{}) {
	t.Helper()
	serverEnd, clientEnd := net.Pipe()
	_ = clientEnd.SetDeadline(time.Now().Add(5 * time.Second))

	done := make(chan struct{})
	go func() {
		defer close(done)
		newSession(svc, &stubConn{Conn: serverEnd, remote: fakeAddr(remote + ":51412")}).run(context.Background())
	}()
	t.Cleanup(func() { _ = clientEnd.Close() })
	return clientEnd, done
}

func TestSessionHappyPath(t *testing.T) {
	svc := newSessionService()
	client, done := startSession(t, svc, "10.0.0.1")
	cr := bufio.NewReader(client)
	cw := bufio.NewWriter(client)

	require.NoError(t, WriteLine(cw, " 2303105 "))

	verdict, err := ReadMessage(cr)
	require.NoError(t, err)
	require.Equal(t, MsgAuthorized, verdict)

	answers := []string{"a", "b a", "router"}
	for i, q := range testCatalog().Questions {
		prompt, err := ReadMessage(cr)
		require.NoError(t, err)
		require.Equal(t, q.Prompt, prompt)
		require.NoError(t, WriteLine(cw, answers[i]))
	}

	final, err := ReadMessage(cr)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf(ScoreFormat, 9), final)
	<-done

	results, err := svc.Results(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "2303105", results[0].Roll)
	require.Equal(t, "10.0.0.1", results[0].Address)
	require.Equal(t, []string{"A", "B A", "Router"}, results[0].Answers)
	require.Equal(t, 9, results[0].Score)
}

func TestSessionRejectsUnauthorizedRoll(t *testing.T) {
	svc := newSessionService()
	client, done := startSession(t, svc, "10.0.0.1")
	cr := bufio.NewReader(client)
	cw := bufio.NewWriter(client)

	require.NoError(t, WriteLine(cw, "9999999"))

	verdict, err := ReadMessage(cr)
	require.NoError(t, err)
	require.Equal(t, MsgUnauthorizedRoll, verdict)
	<-done

	results, err := svc.Results(context.Background())
	require.NoError(t, err)
	require.Empty(t, results)

	// the rejected attempt reserved nothing: same address can come back
	require.NoError(t, svc.Register(context.Background(), "10.0.0.1", "2303105"))
}

func TestSessionRejectsDuplicateRoll(t *testing.T) {
	svc := newSessionService()
	require.NoError(t, svc.Register(context.Background(), "10.0.0.1", "2303110"))

	client, done := startSession(t, svc, "10.0.0.2")
	cr := bufio.NewReader(client)
	cw := bufio.NewWriter(client)

	require.NoError(t, WriteLine(cw, "2303110"))

	verdict, err := ReadMessage(cr)
	require.NoError(t, err)
	require.Equal(t, MsgDuplicateRoll, verdict)
	<-done
}

func TestSessionRejectsDuplicateAddress(t *testing.T) {
	svc := newSessionService()
	require.NoError(t, svc.Register(context.Background(), "10.0.0.1", "2303110"))

	client, done := startSession(t, svc, "10.0.0.1")
	cr := bufio.NewReader(client)
	cw := bufio.NewWriter(client)

	require.NoError(t, WriteLine(cw, "2303111"))

	verdict, err := ReadMessage(cr)
	require.NoError(t, err)
	require.Equal(t, MsgDuplicateAddress, verdict)
	<-done
}

func TestSessionDropMidQuizRecordsNothing(t *testing.T) {
	svc := newSessionService()
	client, done := startSession(t, svc, "10.0.0.1")
	cr := bufio.NewReader(client)
	cw := bufio.NewWriter(client)

	require.NoError(t, WriteLine(cw, "2303105"))

	verdict, err := ReadMessage(cr)
	require.NoError(t, err)
	require.Equal(t, MsgAuthorized, verdict)

	_, err = ReadMessage(cr) // first prompt arrives
	require.NoError(t, err)
	require.NoError(t, client.Close())
	<-done

	results, err := svc.Results(context.Background())
	require.NoError(t, err)
	require.Empty(t, results, "aborted session must not be scored")

	// the claims made at registration stay in place
	err = svc.Register(context.Background(), "10.0.0.9", "2303105")
	require.ErrorIs(t, err, domain.ErrDuplicateRoll)
}
