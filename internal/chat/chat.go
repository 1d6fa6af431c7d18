package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pdf-rag/internal/models"
)

// Answerer is what the loop needs from the pipeline.
type Answerer interface {
	Query(ctx context.Context, question string) (*models.PromptResponse, error)
}

const separator = "======================================================================"

// Run reads questions from in and prints answers to out until an exit word,
// EOF, or context cancellation. Empty input re-prompts; a failed question is
// reported and the loop keeps going.
func Run(ctx context.Context, in io.Reader, out io.Writer, answerer Answerer) error {
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, "  PDF question answering (retrieval-augmented)")
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, "Type your questions, or one of exit/quit/q/sair to leave.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "QUESTION: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nBye.")
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())

		if isExitWord(question) {
			fmt.Fprintln(out, "Bye.")
			return nil
		}
		if question == "" {
			fmt.Fprintln(out, "Please type a question.")
			continue
		}

		response, err := answerer.Query(ctx, question)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(out, "\nInterrupted.")
				return nil
			}
			fmt.Fprintf(out, "Error processing question: %v\n", err)
			fmt.Fprintln(out, "Try again, or type 'exit' to leave.")
			fmt.Fprintln(out, separator)
			continue
		}

		fmt.Fprintf(out, "\nANSWER: %s\n", response.Content)
		fmt.Fprintln(out, separator)

		if ctx.Err() != nil {
			return nil
		}
	}
}

func isExitWord(input string) bool {
	lowered := strings.ToLower(input)
	for _, w := range models.ExitWords {
		if lowered == w {
			return true
		}
	}
	return false
}
