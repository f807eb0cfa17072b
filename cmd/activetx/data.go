package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/activetx/internal/active"
	"github.com/atlanticdynamic/activetx/internal/docdb"
	"github.com/urfave/cli/v3"
)

func newGetCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value stored under KEY in the active document",
		ArgsUsage: "KEY",
		Action:    withSession(getAction),
	}
}

func newPutCmd() *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "Store VALUE under KEY in the active document",
		ArgsUsage: "KEY VALUE",
		Action:    withSession(putAction),
	}
}

func newDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Remove KEY from the active document",
		ArgsUsage: "KEY",
		Action:    withSession(deleteAction),
	}
}

func newBatchCmd() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Apply key=value lines from stdin in a single transaction",
		Description: "Each line is either key=value (put) or -key (delete). " +
			"Blank lines and lines starting with # are skipped. " +
			"Any malformed line aborts the batch and nothing is written.",
		Action: withSession(batchAction),
	}
}

// withSession opens a session for the duration of the action.
func withSession(
	action func(ctx context.Context, cmd *cli.Command, s *session) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := s.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
		}()
		return action(ctx, cmd, s)
	}
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.Args().Len() != n {
		return cli.Exit(fmt.Sprintf("%s: expected %s", cmd.Name, cmd.ArgsUsage), 1)
	}
	return nil
}

func getAction(ctx context.Context, cmd *cli.Command, s *session) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	key := cmd.Args().Get(0)

	value, err := active.Query(ctx, s.active, func(tx *active.Handle) ([]byte, error) {
		return tx.Get([]byte(key))
	})
	if errors.Is(err, docdb.ErrNotFound) {
		return cli.Exit(fmt.Sprintf("key not found: %s", key), 1)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, string(value))
	return nil
}

func putAction(ctx context.Context, cmd *cli.Command, s *session) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	key, value := cmd.Args().Get(0), cmd.Args().Get(1)

	err := s.active.UsingTransaction(ctx, func(tx *active.Handle) error {
		return tx.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return err
	}
	return writeMessage(s, "Stored %s", key)
}

func deleteAction(ctx context.Context, cmd *cli.Command, s *session) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	key := cmd.Args().Get(0)

	err := s.active.UsingTransaction(ctx, func(tx *active.Handle) error {
		found, err := tx.Has([]byte(key))
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", docdb.ErrNotFound, key)
		}
		return tx.Delete([]byte(key))
	})
	if errors.Is(err, docdb.ErrNotFound) {
		return cli.Exit(fmt.Sprintf("key not found: %s", key), 1)
	}
	if err != nil {
		return err
	}
	return writeMessage(s, "Deleted %s", key)
}

// batchOp is one parsed batch line
type batchOp struct {
	key    string
	value  string
	delete bool
}

// parseBatchLine parses one batch line. ok is false for lines to skip.
func parseBatchLine(line string) (op batchOp, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return batchOp{}, false, nil
	}

	if key, found := strings.CutPrefix(line, "-"); found {
		key = strings.TrimSpace(key)
		if key == "" {
			return batchOp{}, false, fmt.Errorf("%w: %q", errMalformedLine, line)
		}
		return batchOp{key: key, delete: true}, true, nil
	}

	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return batchOp{}, false, fmt.Errorf("%w: %q", errMalformedLine, line)
	}
	return batchOp{key: key, value: value}, true, nil
}

var errMalformedLine = errors.New("malformed batch line")

func batchAction(ctx context.Context, cmd *cli.Command, s *session) error {
	var puts, deletes int

	err := s.active.UsingTransaction(ctx, func(tx *active.Handle) error {
		scanner := bufio.NewScanner(cmd.Root().Reader)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			op, ok, err := parseBatchLine(scanner.Text())
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !ok {
				continue
			}

			if op.delete {
				if err := tx.Delete([]byte(op.key)); err != nil {
					return fmt.Errorf("line %d: %w", lineNo, err)
				}
				deletes++
				continue
			}
			if err := tx.Put([]byte(op.key), []byte(op.value)); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			puts++
		}
		return scanner.Err()
	})
	if err != nil {
		return fmt.Errorf("batch aborted: %w", err)
	}
	return writeMessage(s, "Applied %d puts and %d deletes", puts, deletes)
}

// writeMessage reports through the active document's editor.
func writeMessage(s *session, format string, args ...any) error {
	editor, err := s.active.Editor()
	if err != nil {
		return err
	}
	editor.WriteMessage(format, args...)
	return nil
}
