package main

import (
	"context"
	"fmt"

	"github.com/atlanticdynamic/activetx/internal/fancy"
	"github.com/urfave/cli/v3"
)

func newListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Show open documents and their keys",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Only list keys starting with this prefix",
			},
			&cli.BoolFlag{
				Name:  "values",
				Usage: "Print values next to keys",
			},
		},
		Action: withSession(listAction),
	}
}

func listAction(_ context.Context, cmd *cli.Command, s *session) error {
	prefix := []byte(cmd.String("prefix"))
	showValues := cmd.Bool("values")
	activeName := s.manager.ActiveName()

	docs := s.manager.Documents()
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render("Documents") + " " + fancy.CountText(fmt.Sprintf("(%d)", len(docs))))

	for _, doc := range docs {
		db := doc.DB()
		keys, err := db.Keys(prefix)
		if err != nil {
			return fmt.Errorf("failed to list keys of %s: %w", doc.Name(), err)
		}

		node := fancy.DocumentNode(doc.Name(), db.Path(), doc.Name() == activeName)
		for _, key := range keys {
			var value []byte
			if showValues {
				if value, err = db.Get(key); err != nil {
					return fmt.Errorf("failed to read %s: %w", key, err)
				}
			}
			node.Child(fancy.KeyNode(string(key), value))
		}
		t.Child(node)
	}

	fmt.Fprintln(cmd.Root().Writer, t)
	return nil
}
