package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview"
)

const browseHelp = `Commands:
  search TEXT         filter by answer (empty TEXT clears)
  sort COLUMN DIR     order by question, answer, updated or grade; "sort none" clears
  page N | next | prev
  size N              cards per page
  add Q | A           add a card
  edit ROW Q | A      change a card, empty sides are kept
  rm ROW              delete a card, asks for confirmation
  grade ROW N         grade a card 0-5
  retry | show | help | quit
`

var errQuit = errors.New("quit")

func (c *cli) newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <deck>",
		Short: "Browse a deck interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, vm, err := c.open(ctx, args[0], queryFlags{})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			b := &browser{cli: c, deckID: args[0], ctrl: ctrl, in: bufio.NewScanner(c.env.In)}
			if err := c.printList(args[0], vm); err != nil {
				return err
			}
			return b.loop(ctx)
		},
	}
}

// browser drives one controller from lines of input.
type browser struct {
	cli    *cli
	deckID string
	ctrl   *listview.Controller
	in     *bufio.Scanner
}

func (b *browser) loop(ctx context.Context) error {
	out := b.cli.env.Out
	for {
		b.prompt("cards> ")
		if !b.in.Scan() {
			return b.in.Err()
		}
		line := strings.TrimSpace(b.in.Text())
		if line == "" {
			continue
		}

		err := b.exec(ctx, line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		vm, err := settle(ctx, b.ctrl)
		if err != nil {
			return err
		}
		if err := b.cli.printList(b.deckID, vm); err != nil {
			return err
		}
	}
}

func (b *browser) prompt(s string) {
	if b.cli.env.Terminal != nil && b.cli.env.Terminal() {
		fmt.Fprint(b.cli.env.Out, s)
	}
}

func (b *browser) exec(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		_, err := io.WriteString(b.cli.env.Out, browseHelp)
		return err
	case "show":
		return nil
	case "retry":
		b.ctrl.Retry()
		return nil
	case "search":
		b.ctrl.SetSearch(rest)
		return nil
	case "sort":
		spec, err := parseSort(rest)
		if err != nil {
			return err
		}
		b.ctrl.SetSort(spec)
		return nil
	case "page":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("page: invalid number %q", rest)
		}
		b.ctrl.SetPage(n)
		return nil
	case "next":
		b.ctrl.NextPage()
		return nil
	case "prev":
		b.ctrl.PrevPage()
		return nil
	case "size":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("size: invalid number %q", rest)
		}
		if err := b.cli.checkPageSize(n); err != nil {
			return err
		}
		b.ctrl.SetPageSize(n)
		return nil
	case "add":
		q, a := splitForm(rest)
		return b.ctrl.CreateCard(ctx, domain.CardForm{Question: q, Answer: a})
	case "edit":
		card, rest, err := b.row(rest, listview.ActionEdit)
		if err != nil {
			return err
		}
		q, a := splitForm(rest)
		if q == "" {
			q = card.Question
		}
		if a == "" {
			a = card.Answer
		}
		b.ctrl.SelectForEdit(card)
		if err := b.ctrl.EditSelected(ctx, domain.CardForm{Question: q, Answer: a}); err != nil {
			b.ctrl.CloseEdit()
			return err
		}
		return nil
	case "rm":
		card, _, err := b.row(rest, listview.ActionDelete)
		if err != nil {
			return err
		}
		b.ctrl.SelectForDelete(card)
		fmt.Fprintf(b.cli.env.Out, "Delete %q? Type yes to confirm: ", card.Question)
		if !b.in.Scan() || strings.TrimSpace(strings.ToLower(b.in.Text())) != "yes" {
			b.ctrl.CloseDelete()
			fmt.Fprintln(b.cli.env.Out, "cancelled")
			return nil
		}
		if err := b.ctrl.ConfirmDelete(ctx); err != nil {
			b.ctrl.CloseDelete()
			return err
		}
		return nil
	case "grade":
		card, rest, err := b.row(rest, listview.ActionGrade)
		if err != nil {
			return err
		}
		grade, err := parseGrade(rest)
		if err != nil {
			return err
		}
		return b.ctrl.UpdateGrade(ctx, card.ID, grade)
	}
	return fmt.Errorf("unknown command %q, try help", name)
}

// row resolves the leading 1-based row number of args against the rows on
// screen, checks the row offers action and returns the remaining arguments.
func (b *browser) row(args string, action listview.RowAction) (domain.Card, string, error) {
	head, rest, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(head)
	if err != nil {
		return domain.Card{}, "", fmt.Errorf("invalid row %q", head)
	}
	rows := b.ctrl.Snapshot().Rows
	if n < 1 || n > len(rows) {
		return domain.Card{}, "", fmt.Errorf("row %d is not on this page", n)
	}
	if err := allowed(rows[n-1], action); err != nil {
		return domain.Card{}, "", err
	}
	return rows[n-1].Card, strings.TrimSpace(rest), nil
}

// splitForm splits "question | answer".
func splitForm(s string) (question, answer string) {
	q, a, _ := strings.Cut(s, "|")
	return strings.TrimSpace(q), strings.TrimSpace(a)
}
