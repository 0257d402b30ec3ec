package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hpungsan/combo/internal/errors"
	"github.com/hpungsan/combo/internal/ops"
)

const drillHelp = `commands:
  n, <enter>   next combination
  p            previous combination
  r            reset to file order
  s            shuffle
  l            reload the data file
  <number>     jump to row <number> of the list
  ls           show the list
  f <facet> <value>
               filter: facet is distance|defence|faint|body,
               value is all|yes|no (all|long|short for distance)
  h            help
  q            quit`

// Drill runs an interactive loop reading commands from in until q or EOF.
func Drill(ctx context.Context, t *ops.Trainer, in io.Reader, out io.Writer) error {
	PrintCard(out, t.View())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, DimStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := dispatch(ctx, t, strings.Fields(scanner.Text()), out)
		if err != nil {
			fmt.Fprintln(out, ErrorStyle.Render(errors.Describe(err)))
		}
		if quit {
			return nil
		}
	}
}

// dispatch runs one command line. It reports whether the loop should end.
func dispatch(ctx context.Context, t *ops.Trainer, args []string, out io.Writer) (bool, error) {
	if len(args) == 0 {
		PrintCard(out, t.Next(ctx))
		return false, nil
	}

	var (
		v   *ops.View
		err error
	)
	switch cmd := strings.ToLower(args[0]); cmd {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(out, drillHelp)
		return false, nil
	case "ls", "list":
		PrintList(out, t.View())
		return false, nil
	case "n":
		v = t.Next(ctx)
	case "p":
		v = t.Previous(ctx)
	case "r":
		v = t.Reset(ctx)
	case "s":
		v = t.Shuffle(ctx)
	case "l":
		v, err = t.Reload(ctx)
	case "f", "filter":
		v, err = filter(ctx, t, args[1:])
	default:
		n, convErr := strconv.Atoi(cmd)
		if convErr != nil {
			v, err = t.Do(ctx, cmd)
			break
		}
		v, err = t.Select(ctx, ops.SelectInput{Index: n - 1})
	}
	if err != nil {
		return false, err
	}
	PrintCard(out, v)
	return false, nil
}

func filter(ctx context.Context, t *ops.Trainer, args []string) (*ops.View, error) {
	if len(args) != 2 {
		return nil, errors.NewInvalidRequest("usage: f <distance|defence|faint|body> <value>")
	}
	value := args[1]
	var input ops.FilterInput
	switch strings.ToLower(args[0]) {
	case "distance", "d":
		input.Distance = &value
	case "defence", "defense":
		input.Defence = &value
	case "faint":
		input.Faint = &value
	case "body", "b":
		input.Body = &value
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown facet %q", args[0]))
	}
	return t.Filter(ctx, input)
}
