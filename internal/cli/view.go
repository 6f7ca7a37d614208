package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/board"
	"wedding-attendees/internal/models"
	"wedding-attendees/internal/notify"
	"wedding-attendees/internal/storage"
)

// viewOptions are the flags shared by the read commands.
type viewOptions struct {
	PageID   string
	Search   string
	Category string
	Page     int
	Offline  bool
}

func (o *viewOptions) register(cmd *cobra.Command, withPaging bool) {
	cmd.Flags().StringVarP(&o.PageID, "page-id", "p", "", "invitation page ID (default $RSVP_PAGE_ID)")
	cmd.Flags().BoolVar(&o.Offline, "offline", false, "use the last stored snapshot instead of the proxy")
	if !withPaging {
		return
	}
	cmd.Flags().StringVarP(&o.Search, "query", "q", "", "search guest names and phone numbers")
	cmd.Flags().StringVar(&o.Category, "category", string(models.CategoryAll), "filter category ("+categoryNames()+")")
	cmd.Flags().IntVar(&o.Page, "page", 1, "page number")
}

// Source tells where the shown records came from.
type Source struct {
	PageID    string    `json:"page_id" yaml:"page_id"`
	Offline   bool      `json:"offline" yaml:"offline"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// SummaryResult is the output of the summary command.
type SummaryResult struct {
	Source  Source              `json:"source" yaml:"source"`
	Summary models.SummaryStats `json:"summary" yaml:"summary"`
}

// ListResult is the output of the list command.
type ListResult struct {
	Source Source         `json:"source" yaml:"source"`
	View   attendees.View `json:"view" yaml:"view"`
	Total  int            `json:"filtered_total" yaml:"filtered_total"`
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show reply counters for an invitation page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, rootOpts, opts)
		},
	}
	opts.register(cmd, false)
	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendees with search, category filter and paging",
		Long: `List the replies of an invitation page, ten per page.

Examples:
  rsvp-admin list --page-id wedding-01
  rsvp-admin list -q 김 --category bride_side
  rsvp-admin list --category meal_yes --page 2 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts, opts)
		},
	}
	opts.register(cmd, true)
	return cmd
}

func runSummary(cmd *cobra.Command, rootOpts *RootOptions, opts *viewOptions) error {
	e, err := loadEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	b, store, err := e.prepare(opts.PageID)
	if err != nil {
		return err
	}

	src, err := e.fill(cmd.Context(), b, store, opts.Offline)
	if err != nil {
		return e.reportFailure(err, SummaryResult{Source: src})
	}

	result := SummaryResult{Source: src, Summary: b.View().Summary}
	return e.out.Success(result, func(w io.Writer) {
		title := notify.Subject(e.cfg.GroomName, e.cfg.BrideName)
		fmt.Fprint(w, notify.FormatDigest(title, result.Summary, src.FetchedAt.In(e.loc)))
		if src.Offline {
			fmt.Fprintln(w, "\n(offline snapshot)")
		}
	})
}

func runList(cmd *cobra.Command, rootOpts *RootOptions, opts *viewOptions) error {
	e, err := loadEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	category, err := parseCategory(opts.Category)
	if err != nil {
		return err
	}
	b, store, err := e.prepare(opts.PageID)
	if err != nil {
		return err
	}

	src, err := e.fill(cmd.Context(), b, store, opts.Offline)
	if err != nil {
		return e.reportFailure(err, ListResult{Source: src, View: b.View()})
	}

	b.Search(opts.Search)
	b.SetCategory(category)
	view := b.GoToPage(opts.Page)

	result := ListResult{Source: src, View: view, Total: len(view.Filtered)}
	return e.out.Success(result, func(w io.Writer) {
		printPage(w, view, e.loc)
	})
}

// prepare checks the page ID and builds its board
func (e *env) prepare(pageFlag string) (*board.Board, *storage.Storage, error) {
	pageID := e.pageID(pageFlag)
	if pageID == "" {
		_ = e.out.Failure(board.MsgPageIDRequired, nil)
		return nil, nil, NewExitError(ExitCommandError, "page ID is required (--page-id or RSVP_PAGE_ID)")
	}
	return e.newBoard(pageID)
}

// loadFailure carries the user-facing message of a failed refresh
type loadFailure struct {
	message string
	err     error
}

func (f *loadFailure) Error() string { return f.message }
func (f *loadFailure) Unwrap() error { return f.err }

// fill loads b from the proxy, or from its stored snapshot when offline
func (e *env) fill(ctx context.Context, b *board.Board, store *storage.Storage, offline bool) (Source, error) {
	src := Source{PageID: b.PageID(), Offline: offline}

	if offline {
		snap, err := store.GetSnapshot(b.PageID())
		if err != nil {
			msg := "no offline snapshot, run once without --offline"
			if ids := store.PageIDs(); len(ids) > 0 {
				msg = fmt.Sprintf("%s (snapshots exist for: %s)", msg, strings.Join(ids, ", "))
			}
			return src, WrapExitError(ExitCommandError, msg, err)
		}
		b.Replace(snap.Records)
		src.FetchedAt = snap.FetchedAt
		return src, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	res := b.Refresh(ctx)
	if res.Err != nil {
		return src, &loadFailure{message: res.Message, err: res.Err}
	}
	src.FetchedAt = time.Now()
	return src, nil
}

// reportFailure prints a load failure next to the empty result. Any other
// error is returned as is.
func (e *env) reportFailure(err error, empty any) error {
	lf, ok := err.(*loadFailure)
	if !ok {
		return err
	}
	if outErr := e.out.Failure(lf.message, empty); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitFailure, lf.message, lf.err)
}

func parseCategory(s string) (models.Category, error) {
	c, ok := models.ParseCategory(strings.TrimSpace(s))
	if !ok {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("unknown category %q: must be one of %s", s, categoryNames()))
	}
	return c, nil
}

func categoryNames() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, "|")
}

func printPage(w io.Writer, view attendees.View, loc *time.Location) {
	page := view.Page
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "\nNo attendees found.")
		return
	}

	fmt.Fprintf(w, "\n📋 Attendees %d-%d of %d (page %d/%d, %s):\n",
		page.StartIndex+1, page.EndIndex, len(view.Filtered),
		page.CurrentPage, page.TotalPages, view.State.Category)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, r := range page.Items {
		fmt.Fprintf(w, "%d. %s\n", page.StartIndex+i+1, r.GuestName)
		fmt.Fprintf(w, "Side: %s\n", attendees.SideLabel(r.GuestSide))
		fmt.Fprintf(w, "Attending: %s (%d)\n", attendees.AttendanceLabel(r.Attending), r.GuestCount)
		fmt.Fprintf(w, "Meal: %s\n", attendees.MealLabel(r.MealChoice))
		if r.PhoneNumber != "" {
			fmt.Fprintf(w, "Phone: %s\n", r.PhoneNumber)
		}
		if !r.CreatedAt.IsZero() {
			fmt.Fprintf(w, "Replied: %s\n", r.CreatedAt.In(loc).Format(attendees.CSVTimeLayout))
		}
		fmt.Fprintln(w, strings.Repeat("-", 60))
	}
}
