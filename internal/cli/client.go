package cli

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PranaviDevireddy/cs212project/internal/transport/tcp"
)

// NewClientCmd builds the interactive terminal client. It is a dumb driver of
// the protocol: print every server message, send one line back per prompt,
// stop on the final score.
func NewClientCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Take the quiz from a terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(server, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&server, "server", "127.0.0.1:12345", "quiz server address")
	return cmd
}

func runClient(server string, in io.Reader, out io.Writer) error {
	conn, err := net.Dial("tcp", server)
	if err != nil {
		return err
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	stdin := bufio.NewReader(in)

	fmt.Fprint(out, "Enter your Roll Number: ")
	roll, err := stdin.ReadString('\n')
	if err != nil {
		return err
	}
	if err := tcp.WriteLine(w, strings.TrimSpace(roll)); err != nil {
		return err
	}

	verdict, err := tcp.ReadMessage(r)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, verdict)
	if strings.Contains(verdict, "not authorized") || strings.Contains(verdict, "already given answers") {
		return nil
	}

	for {
		msg, err := tcp.ReadMessage(r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		fmt.Fprintln(out, msg)
		if strings.HasPrefix(msg, "Thank you.") {
			return nil
		}
		fmt.Fprint(out, "Your answer: ")
		answer, err := stdin.ReadString('\n')
		if err != nil {
			return err
		}
		if err := tcp.WriteLine(w, strings.TrimSpace(answer)); err != nil {
			return err
		}
	}
}
