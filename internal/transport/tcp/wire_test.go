package tcp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageFramingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	prompt := "What does IP stand for?\nA. Internet Protocol\nB. Internal Process"
	require.NoError(t, WriteMessage(w, prompt))
	require.NoError(t, WriteMessage(w, "You are authorized. Quiz starting now."))

	r := bufio.NewReader(&buf)
	first, err := ReadMessage(r)
	require.NoError(t, err)
	require.Equal(t, prompt, first)

	second, err := ReadMessage(r)
	require.NoError(t, err)
	require.Equal(t, "You are authorized. Quiz starting now.", second)
}

func TestWriteMessageStripsTrailingNewlines(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, WriteMessage(w, "hello\n"))
	require.Equal(t, "hello\n\n", buf.String())
}

func TestReadLineTrimsCarriageReturn(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("2303105\r\n"))
	line, err := ReadLine(r)
	require.NoError(t, err)
	require.Equal(t, "2303105", line)
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, WriteLine(w, "A B"))
	require.Equal(t, "A B\n", buf.String())
}
