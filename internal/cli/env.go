package cli

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wedding-attendees/internal/board"
	"wedding-attendees/internal/config"
	"wedding-attendees/internal/proxy"
	"wedding-attendees/internal/storage"
)

// snapshotFile is the snapshot store inside the data directory
const snapshotFile = "snapshots.json"

// NewLogger builds the console logger used by every command. Logs go to w
// so they never mix with structured output on stdout.
func NewLogger(w io.Writer, level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// env is what every command needs after flags are parsed
type env struct {
	cfg *config.Config
	log zerolog.Logger
	loc *time.Location
	out *OutputFormatter
}

func loadEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	return &env{
		cfg: cfg,
		log: NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.Verbose),
		loc: cfg.Location(),
		out: &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}, nil
}

// pageID prefers the --page-id flag over the configured page
func (e *env) pageID(flag string) string {
	if id := strings.TrimSpace(flag); id != "" {
		return id
	}
	return strings.TrimSpace(e.cfg.PageID)
}

func (e *env) client() *proxy.Client {
	return proxy.NewClient(&proxy.Config{
		BaseURL: e.cfg.ProxyURL,
		Timeout: e.cfg.RequestTimeout,
	}, e.log)
}

func (e *env) storage() (*storage.Storage, error) {
	s, err := storage.NewStorage(filepath.Join(e.cfg.DataDir, snapshotFile))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open snapshot store", err)
	}
	return s, nil
}

// newBoard builds a board for pageID with the snapshot store attached
func (e *env) newBoard(pageID string) (*board.Board, *storage.Storage, error) {
	store, err := e.storage()
	if err != nil {
		return nil, nil, err
	}
	b := board.New(e.client(), store, &board.Config{
		PageID:   pageID,
		PageSize: e.cfg.PageSize,
	}, e.log)
	return b, store, nil
}
