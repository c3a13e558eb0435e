// Package tcp implements the line-oriented quiz protocol: the listener, the
// per-connection session state machine and the message framing.
package tcp

import (
	"bufio"
	"strings"
)

// Framing: client to server messages are single LF-terminated lines; server to
// client messages are text blocks terminated by a blank line. Raw stream reads
// give no message boundaries of their own, so both directions carry an
// explicit delimiter and multi-line prompts survive intact.

// WriteMessage writes one server message block: the text followed by a blank
// line, flushed.
func WriteMessage(w *bufio.Writer, text string) error {
	if _, err := w.WriteString(strings.TrimRight(text, "\n")); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

// WriteLine writes one client message line, flushed.
func WriteLine(w *bufio.Writer, text string) error {
	if _, err := w.WriteString(text); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// ReadLine reads one LF-terminated line and strips the terminator.
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadMessage reads one server message block: lines up to (excluding) the
// blank-line terminator.
func ReadMessage(r *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := ReadLine(r)
		if err != nil {
			return "", err
		}
		if line == "" {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
}
