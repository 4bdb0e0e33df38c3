package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview"
)

type printer struct {
	out      io.Writer
	format   string
	terminal bool
}

func (c *cli) printer() printer {
	return printer{
		out:      c.env.Out,
		format:   c.output,
		terminal: !c.raw && c.env.Terminal != nil && c.env.Terminal(),
	}
}

// print writes v as JSON or YAML, or the markdown produced by table. Markdown
// is rendered with glamour when the output is a terminal.
func (p printer) print(v any, table func(w io.Writer)) error {
	switch p.format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = p.out.Write(b)
		return err
	}

	var buf bytes.Buffer
	table(&buf)
	if p.terminal {
		if rendered, err := glamour.Render(buf.String(), "dark"); err == nil {
			_, err = io.WriteString(p.out, rendered)
			return err
		}
	}
	_, err := p.out.Write(buf.Bytes())
	return err
}

type cardView struct {
	Row      int       `json:"row"                yaml:"row"`
	ID       string    `json:"id"                 yaml:"id"`
	Question string    `json:"question"           yaml:"question"`
	Answer   string    `json:"answer"             yaml:"answer"`
	Grade    int       `json:"grade"              yaml:"grade"`
	Updated  time.Time `json:"updated"            yaml:"updated"`
	Actions  []string  `json:"actions,omitempty"  yaml:"actions,omitempty"`
}

type listView struct {
	Deck       string     `json:"deck"                  yaml:"deck"`
	DeckName   string     `json:"deck_name,omitempty"   yaml:"deck_name,omitempty"`
	State      string     `json:"state"                 yaml:"state"`
	Owner      bool       `json:"owner"                 yaml:"owner"`
	LearnPath  string     `json:"learn_path,omitempty"  yaml:"learn_path,omitempty"`
	Search     string     `json:"search,omitempty"      yaml:"search,omitempty"`
	Sort       string     `json:"sort,omitempty"        yaml:"sort,omitempty"`
	Page       int        `json:"page"                  yaml:"page"`
	Pages      int        `json:"pages"                 yaml:"pages"`
	TotalCards int        `json:"total_cards"           yaml:"total_cards"`
	Cards      []cardView `json:"cards"                 yaml:"cards"`
	Error      string     `json:"error,omitempty"       yaml:"error,omitempty"`
	Notice     string     `json:"notice,omitempty"      yaml:"notice,omitempty"`
}

func newListView(deckID string, vm listview.ViewModel) listView {
	lv := listView{
		Deck:       deckID,
		State:      vm.State.String(),
		Owner:      vm.IsOwner,
		LearnPath:  vm.Actions.LearnPath,
		Search:     vm.SearchText,
		Sort:       vm.Sort.Token(),
		Page:       vm.Pagination.CurrentPage,
		Pages:      vm.Pagination.Pages(),
		TotalCards: vm.Pagination.TotalItems,
		Cards:      make([]cardView, 0, len(vm.Rows)),
	}
	if vm.Deck != nil {
		lv.DeckName = vm.Deck.Name
	}
	if vm.Err != nil {
		lv.Error = vm.Err.Error()
	}
	if vm.Notice != nil {
		lv.Notice = vm.Notice.Error()
	}
	for i, row := range vm.Rows {
		cv := cardView{
			Row:      i + 1,
			ID:       row.Card.ID,
			Question: row.Card.Question,
			Answer:   row.Card.Answer,
			Grade:    int(row.Card.Grade),
			Updated:  row.Card.Updated,
		}
		for _, a := range row.Actions {
			cv.Actions = append(cv.Actions, string(a))
		}
		lv.Cards = append(lv.Cards, cv)
	}
	return lv
}

// printList prints the list as the view model describes it: the actions
// column only for the owner, the table only when the deck has cards.
func (c *cli) printList(deckID string, vm listview.ViewModel) error {
	return c.printer().print(newListView(deckID, vm), func(w io.Writer) {
		writeListMarkdown(w, deckID, vm)
	})
}

func writeListMarkdown(w io.Writer, deckID string, vm listview.ViewModel) {
	title := deckID
	if vm.Deck != nil && vm.Deck.Name != "" {
		title = vm.Deck.Name
	}
	fmt.Fprintf(w, "## %s\n\n", cell(title))

	switch {
	case vm.IsOwner:
		fmt.Fprintln(w, "_You own this deck: add, edit and delete are available._")
		fmt.Fprintln(w)
	case vm.Actions.Learn && vm.Actions.LearnPath != "":
		fmt.Fprintf(w, "_Learn this deck at %s_\n\n", vm.Actions.LearnPath)
	}

	if vm.Err != nil {
		fmt.Fprintf(w, "**Error:** %s\n\n", cell(vm.Err.Error()))
	}
	if vm.Notice != nil {
		fmt.Fprintf(w, "**Notice:** %s\n\n", cell(vm.Notice.Error()))
	}

	if vm.Deck != nil && !vm.ShowTable {
		fmt.Fprintln(w, "This deck is empty.")
		return
	}

	headers := []string{"#"}
	for _, col := range vm.Columns {
		title := col.Title
		if col.Key == listview.ColumnActions {
			title = "Actions"
		}
		if vm.Sort != nil && vm.Sort.ColumnKey == col.Key {
			title += sortMarker(vm.Sort.Direction)
		}
		headers = append(headers, title)
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(w, "|%s\n", strings.Repeat("---|", len(headers)))

	for i, row := range vm.Rows {
		cells := []string{fmt.Sprint(i + 1)}
		for _, col := range vm.Columns {
			cells = append(cells, columnValue(col.Key, row))
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	if len(vm.Rows) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No cards match.")
	}

	fmt.Fprintln(w)
	footer := fmt.Sprintf("Page %d of %d, %d cards", vm.Pagination.CurrentPage, max(vm.Pagination.Pages(), 1), vm.Pagination.TotalItems)
	if vm.SearchText != "" {
		footer += fmt.Sprintf(", search %q", vm.SearchText)
	}
	fmt.Fprintln(w, footer)
}

func columnValue(key string, row listview.Row) string {
	switch key {
	case "question":
		return cell(row.Card.Question)
	case "answer":
		return cell(row.Card.Answer)
	case "updated":
		if row.Card.Updated.IsZero() {
			return ""
		}
		return row.Card.Updated.Local().Format("2006-01-02")
	case "grade":
		return gradeStars(row.Card.Grade)
	case listview.ColumnActions:
		actions := make([]string, 0, len(row.Actions))
		for _, a := range row.Actions {
			actions = append(actions, string(a))
		}
		return strings.Join(actions, ", ")
	}
	return ""
}

func sortMarker(d domain.SortDirection) string {
	if d == domain.SortDesc {
		return " ▼"
	}
	return " ▲"
}

func gradeStars(g domain.Grade) string {
	if !g.IsValid() {
		return fmt.Sprint(int(g))
	}
	return strings.Repeat("★", int(g)) + strings.Repeat("☆", int(domain.MaxGrade-g))
}

// cell makes s safe inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
