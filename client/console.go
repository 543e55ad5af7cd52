package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatedier/pktgen/version"
)

// parseSize reads the first field of a console line as a buffer size.
func parseSize(field string, min, max int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, field)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: %d not in [%d..%d]", ErrInvalidSize, n, min, max)
	}
	return n, nil
}

// readLines feeds lines from in until it ends or ctx is done. The error
// channel receives the scanner error once lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()
	return lines, errCh
}

// runConsole prompts for buffer sizes until the input ends or ctx is done.
// Every accepted size becomes one transfer. A reader blocked on in is left
// behind on cancel and exits once in is closed.
func (svc *Service) runConsole(ctx context.Context) error {
	fmt.Fprintf(svc.out, "Packet Generator v%s\n\n", version.Full())

	prompt := fmt.Sprintf("Enter buffer size [%d..%d bytes]: ", svc.opts.MinSize, svc.opts.MaxSize)
	lines, errCh := readLines(ctx, svc.in)
	fmt.Fprint(svc.out, prompt)
	for {
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprint(svc.out, "\n")
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprint(svc.out, "\n")
				select {
				case err := <-errCh:
					return err
				default:
					return ctx.Err()
				}
			}
			line = l
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		size, err := parseSize(fields[0], svc.opts.MinSize, svc.opts.MaxSize)
		switch {
		case err == nil:
		case isInvalidInput(err):
			fmt.Fprint(svc.out, "Invalid input. Try again: ")
			continue
		default:
			fmt.Fprint(svc.out, "Invalid buffer size.\n")
			fmt.Fprint(svc.out, prompt)
			continue
		}

		fmt.Fprint(svc.out, "\n")
		if _, err := svc.Transfer(ctx, size); err != nil {
			return err
		}
		fmt.Fprint(svc.out, prompt)
	}
}
