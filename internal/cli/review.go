package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wedding-attendees/internal/board"
	"wedding-attendees/internal/models"
	"wedding-attendees/internal/notify"
)

// NewReviewCommand creates the interactive review command.
func NewReviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Browse attendees interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, rootOpts, opts)
		},
	}
	opts.register(cmd, false)
	return cmd
}

func runReview(cmd *cobra.Command, rootOpts *RootOptions, opts *viewOptions) error {
	if rootOpts.Format != "text" {
		return NewExitError(ExitCommandError, "review is interactive and only supports --format text")
	}
	e, err := loadEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	b, store, err := e.prepare(opts.PageID)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r := &reviewer{
		ctx:     ctx,
		board:   b,
		scanner: bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
		env:     e,
	}

	fmt.Fprintf(r.out, "🎉 RSVP review: %s\n", b.PageID())
	fmt.Fprintln(r.out, "============================")

	src, err := e.fill(ctx, b, store, opts.Offline)
	var lf *loadFailure
	switch {
	case errors.As(err, &lf):
		// the board is empty; the loop still runs so the user can retry
		fmt.Fprintf(r.out, "❌ %s\n", lf.message)
	case err != nil:
		return err
	case src.Offline:
		fmt.Fprintf(r.out, "Showing offline snapshot from %s\n", src.FetchedAt.In(e.loc).Format(time.DateTime))
	}
	r.show()

	return r.loop()
}

type reviewer struct {
	ctx     context.Context
	board   *board.Board
	scanner *bufio.Scanner
	out     io.Writer
	env     *env
}

func (r *reviewer) loop() error {
	for {
		fmt.Fprintln(r.out, "\nCommands:")
		fmt.Fprintln(r.out, "  1. Search")
		fmt.Fprintln(r.out, "  2. Filter by category")
		fmt.Fprintln(r.out, "  3. Next page")
		fmt.Fprintln(r.out, "  4. Previous page")
		fmt.Fprintln(r.out, "  5. Go to page")
		fmt.Fprintln(r.out, "  6. Refresh")
		fmt.Fprintln(r.out, "  7. Show summary")
		fmt.Fprintln(r.out, "  8. Export CSV")
		fmt.Fprintln(r.out, "  9. Exit")
		fmt.Fprint(r.out, "\nEnter command (1-9): ")

		if !r.scanner.Scan() {
			return r.scanner.Err()
		}

		switch strings.TrimSpace(r.scanner.Text()) {
		case "1":
			r.search()
		case "2":
			r.filterByCategory()
		case "3":
			r.board.NextPage()
			r.show()
		case "4":
			r.board.PrevPage()
			r.show()
		case "5":
			r.goToPage()
		case "6":
			r.refresh()
		case "7":
			r.summary()
		case "8":
			r.export()
		case "9":
			fmt.Fprintln(r.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(r.out, "Invalid command. Please try again.")
		}
	}
}

func (r *reviewer) prompt(label string) (string, bool) {
	fmt.Fprint(r.out, label)
	if !r.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.scanner.Text()), true
}

func (r *reviewer) show() {
	printPage(r.out, r.board.View(), r.env.loc)
}

func (r *reviewer) search() {
	term, ok := r.prompt("Search name or phone (empty to clear): ")
	if !ok {
		return
	}
	r.board.Search(term)
	r.show()
}

func (r *reviewer) filterByCategory() {
	fmt.Fprintln(r.out, "\nSelect category:")
	for i, c := range models.Categories {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, c)
	}
	choice, ok := r.prompt(fmt.Sprintf("Enter choice (1-%d): ", len(models.Categories)))
	if !ok {
		return
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(models.Categories) {
		fmt.Fprintln(r.out, "Invalid choice.")
		return
	}
	r.board.SetCategory(models.Categories[n-1])
	r.show()
}

func (r *reviewer) goToPage() {
	raw, ok := r.prompt("Page number: ")
	if !ok {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(r.out, "Invalid page number.")
		return
	}
	r.board.GoToPage(n)
	r.show()
}

func (r *reviewer) refresh() {
	fmt.Fprintln(r.out, "Refreshing...")
	res := r.board.Refresh(r.ctx)
	switch {
	case res.Stale:
		return
	case res.Err != nil:
		fmt.Fprintf(r.out, "❌ %s\n", res.Message)
	default:
		fmt.Fprintf(r.out, "✅ Loaded %d replies\n", res.Count)
	}
	r.show()
}

func (r *reviewer) summary() {
	title := notify.Subject(r.env.cfg.GroomName, r.env.cfg.BrideName)
	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, notify.FormatDigest(title, r.board.View().Summary, time.Now().In(r.env.loc)))
}

func (r *reviewer) export() {
	def := fmt.Sprintf("attendees-%s-%s.csv", r.board.PageID(), time.Now().In(r.env.loc).Format("20060102"))
	path, ok := r.prompt(fmt.Sprintf("File name [%s]: ", def))
	if !ok {
		return
	}
	if path == "" {
		path = def
	}

	records := r.board.View().Filtered
	if err := writeCSVFile(path, records, r.env.loc); err != nil {
		fmt.Fprintf(r.out, "❌ Error writing CSV: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "✅ Exported %d attendees to %s\n", len(records), path)
}
