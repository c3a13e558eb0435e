package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PranaviDevireddy/cs212project/internal/app"
	"github.com/PranaviDevireddy/cs212project/internal/domain"
	"github.com/PranaviDevireddy/cs212project/internal/infra/memory"
	"github.com/PranaviDevireddy/cs212project/internal/transport/tcp"
)

func startTestServer(t *testing.T) (*app.QuizService, string) {
	t.Helper()
	registry := memory.NewRegistry(domain.RollRange{Min: 2303101, Max: 2303140})
	svc := app.NewQuizService(registry, domain.Catalog{
		ID: "mini",
		Questions: []domain.Question{
			{Kind: domain.SingleChoice, Prompt: "Pick one\nA. yes\nB. no", Correct: []string{"A"}, Points: 2},
			{Kind: domain.FreeText, Prompt: "Which device connects networks?", Correct: []string{"Router"}, Points: 3},
		},
	})
	server := tcp.NewServer(svc, "127.0.0.1:0", 0)
	if err := server.Listen(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = server.Serve(context.Background()) }()
	t.Cleanup(func() { server.Shutdown(time.Second) })
	return svc, server.Addr().String()
}

func TestClientRunsFullQuiz(t *testing.T) {
	svc, addr := startTestServer(t)

	in := strings.NewReader("2303105\na\nrouter\n")
	var out bytes.Buffer
	if err := runClient(addr, in, &out); err != nil {
		t.Fatalf("run client: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "You are authorized. Quiz starting now.") {
		t.Fatalf("missing authorization in output:\n%s", output)
	}
	if !strings.Contains(output, "Thank you. Your score: 5") {
		t.Fatalf("missing final score in output:\n%s", output)
	}

	results, err := svc.Results(context.Background())
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 || results[0].Score != 5 {
		t.Fatalf("expected one result scoring 5, got %+v", results)
	}
}

func TestClientStopsOnRejection(t *testing.T) {
	_, addr := startTestServer(t)

	in := strings.NewReader("9999999\n")
	var out bytes.Buffer
	if err := runClient(addr, in, &out); err != nil {
		t.Fatalf("run client: %v", err)
	}
	if !strings.Contains(out.String(), "not authorized") {
		t.Fatalf("expected rejection in output:\n%s", out.String())
	}
}
