package e32

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"
)

// LineReader supplies lines typed by the user. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

const sendPrompt = "Enter message >> "

// Send transmits each line read from lines followed by '\n', echoing the
// bytes to echo as they are written. "exit", "quit", end of input and ^C end
// the loop without error.
func Send(lines LineReader, w io.ByteWriter, echo io.Writer) error {
	out := bufio.NewWriter(echo)
	for {
		line, err := lines.Prompt(sendPrompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(echo, "^C")
			return nil
		case errors.Is(err, io.EOF):
			fmt.Fprintln(echo, "^D")
			return nil
		case err != nil:
			return fmt.Errorf("failed to read line: %w", err)
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		lines.AppendHistory(line)

		for _, b := range []byte(line) {
			if err := writeByte(w, b); err != nil {
				return fmt.Errorf("failed to write: %w", err)
			}
			out.WriteByte(b)
			if err := out.Flush(); err != nil {
				return fmt.Errorf("failed to flush: %w", err)
			}
		}
		if err := writeByte(w, '\n'); err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
		out.WriteByte('\n')
		if err := out.Flush(); err != nil {
			return fmt.Errorf("failed to flush: %w", err)
		}
	}
}

// Listen copies received bytes to out until reading or flushing fails.
func Listen(r io.ByteReader, out io.Writer) error {
	bw := bufio.NewWriter(out)
	for {
		b, err := readByte(r)
		if err != nil {
			return fmt.Errorf("failed to read: %w", err)
		}
		bw.WriteByte(b)
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("failed to flush: %w", err)
		}
	}
}
