package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview"
)

type formFlags struct {
	question    string
	answer      string
	questionImg string
	answerImg   string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.question, "question", "q", "", "Question text")
	cmd.Flags().StringVarP(&f.answer, "answer", "a", "", "Answer text")
	cmd.Flags().StringVar(&f.questionImg, "question-img", "", "Question image file")
	cmd.Flags().StringVar(&f.answerImg, "answer-img", "", "Answer image file")
}

// form builds the payload; empty texts fall back to base.
func (f *formFlags) form(base domain.Card) (domain.CardForm, error) {
	form := domain.CardForm{Question: f.question, Answer: f.answer}
	if form.Question == "" {
		form.Question = base.Question
	}
	if form.Answer == "" {
		form.Answer = base.Answer
	}

	var err error
	if form.QuestionImg, err = readUpload(f.questionImg); err != nil {
		return domain.CardForm{}, err
	}
	if form.AnswerImg, err = readUpload(f.answerImg); err != nil {
		return domain.CardForm{}, err
	}
	return form, nil
}

func readUpload(path string) (*domain.Upload, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &domain.Upload{Filename: filepath.Base(path), Content: content}, nil
}

func (c *cli) newAddCmd() *cobra.Command {
	var f formFlags
	cmd := &cobra.Command{
		Use:   "add <deck>",
		Short: "Add a card to a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := f.form(domain.Card{})
			if err != nil {
				return err
			}
			ctrl, _, err := c.open(cmd.Context(), args[0], queryFlags{})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := ctrl.CreateCard(cmd.Context(), form); err != nil {
				return err
			}
			return c.afterMutation(cmd, args[0], ctrl)
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) newEditCmd() *cobra.Command {
	var (
		f formFlags
		q queryFlags
	)
	cmd := &cobra.Command{
		Use:   "edit <deck> <card>",
		Short: "Change the question or answer of a card",
		Long: `Change the question or answer of a card. The card must be on the page
selected by --search, --sort and --page; omitted texts are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, vm, err := c.open(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			row, ok := findRow(vm, args[1])
			if !ok {
				return fmt.Errorf("card %s is not on page %d: %w", args[1], vm.Pagination.CurrentPage, domain.ErrNotFound)
			}
			if err := allowed(row, listview.ActionEdit); err != nil {
				return err
			}
			card := row.Card
			form, err := f.form(card)
			if err != nil {
				return err
			}

			ctrl.SelectForEdit(card)
			if err := ctrl.EditSelected(cmd.Context(), form); err != nil {
				return err
			}
			return c.afterMutation(cmd, args[0], ctrl)
		},
	}
	f.register(cmd)
	q.register(cmd)
	return cmd
}

func (c *cli) newRmCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "rm <deck> <card>",
		Short: "Delete a card",
		Long:  `Delete a card. The card must be on the page selected by --search, --sort and --page.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, vm, err := c.open(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			row, ok := findRow(vm, args[1])
			if !ok {
				return fmt.Errorf("card %s is not on page %d: %w", args[1], vm.Pagination.CurrentPage, domain.ErrNotFound)
			}
			if err := allowed(row, listview.ActionDelete); err != nil {
				return err
			}
			card := row.Card

			ctrl.SelectForDelete(card)
			if err := ctrl.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			return c.afterMutation(cmd, args[0], ctrl)
		},
	}
	q.register(cmd)
	return cmd
}

func (c *cli) newGradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grade <deck> <card> <grade>",
		Short: "Grade how well you recall a card (0-5)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			grade, err := parseGrade(args[2])
			if err != nil {
				return err
			}
			ctrl, _, err := c.open(cmd.Context(), args[0], queryFlags{})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := ctrl.UpdateGrade(cmd.Context(), args[1], grade); err != nil {
				return err
			}
			return c.afterMutation(cmd, args[0], ctrl)
		},
	}
}

// afterMutation prints the list as refetched after a successful mutation.
func (c *cli) afterMutation(cmd *cobra.Command, deckID string, ctrl *listview.Controller) error {
	vm, err := settle(cmd.Context(), ctrl)
	if err != nil {
		return err
	}
	if err := c.printList(deckID, vm); err != nil {
		return err
	}
	return vm.Err
}
