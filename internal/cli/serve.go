package cli

import (
	"github.com/spf13/cobra"

	"wedding-attendees/internal/session"
	"wedding-attendees/internal/web"
)

// NewServeCommand creates the dashboard API command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin dashboard API",
		Long: `Start the read-only admin dashboard API.

Examples:
  rsvp-admin serve --addr :8080
  RSVP_ADMIN_PASSWORD=... RSVP_SESSION_SECRET=... rsvp-admin serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $RSVP_HTTP_ADDR or :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, addr string) error {
	e, err := loadEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	if e.cfg.AdminPassword == "" || e.cfg.SessionSecret == "" {
		return NewExitError(ExitCommandError, "RSVP_ADMIN_PASSWORD and RSVP_SESSION_SECRET must be set")
	}
	if addr == "" {
		addr = e.cfg.HTTPAddr
	}

	sessions := session.NewManager(e.cfg.SessionSecret, e.cfg.AdminPassword, e.cfg.SessionTTL)
	server := web.NewServer(e.client(), sessions, web.Config{
		PageSize:  e.cfg.PageSize,
		Location:  e.loc,
		RateLimit: e.cfg.RateLimit,
	}, e.log)

	if err := server.Run(addr); err != nil {
		return WrapExitError(ExitFailure, "web server stopped", err)
	}
	return nil
}
