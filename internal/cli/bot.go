package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wedding-attendees/internal/handler"
	"wedding-attendees/internal/whatsapp"
)

// NewBotCommand creates the WhatsApp digest bot command.
func NewBotCommand(rootOpts *RootOptions) *cobra.Command {
	var pageID string
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Answer digest requests from admin phones over WhatsApp",
		Long: `Link a WhatsApp device and answer "현황" or "summary" messages sent
from the numbers in RSVP_NOTIFY_PHONES with the current reply digest.

On first start a QR code is printed; scan it from WhatsApp > Linked devices.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd, rootOpts, pageID)
		},
	}
	cmd.Flags().StringVarP(&pageID, "page-id", "p", "", "invitation page ID (default $RSVP_PAGE_ID)")
	return cmd
}

func runBot(cmd *cobra.Command, rootOpts *RootOptions, pageFlag string) error {
	e, err := loadEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	pageID := e.pageID(pageFlag)
	if pageID == "" {
		return NewExitError(ExitCommandError, "page ID is required (--page-id or RSVP_PAGE_ID)")
	}
	if len(e.cfg.NotifyPhones) == 0 {
		return NewExitError(ExitCommandError, "RSVP_NOTIFY_PHONES is empty, nobody could ask the bot")
	}

	service, err := whatsapp.NewService(&whatsapp.Config{DataDir: e.cfg.DataDir}, e.log)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize WhatsApp service", err)
	}

	digestHandler := handler.NewDigestHandler(service, e.client(), &handler.Config{
		PageID:      pageID,
		BrideName:   e.cfg.BrideName,
		GroomName:   e.cfg.GroomName,
		Location:    e.loc,
		AdminPhones: e.cfg.NotifyPhones,
		Timeout:     e.cfg.RequestTimeout,
	})
	service.SetMessageHandler(digestHandler.HandleMessage)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Connecting to WhatsApp...")
	if err := service.Connect(); err != nil {
		return WrapExitError(ExitFailure, "failed to connect to WhatsApp", err)
	}
	fmt.Fprintln(out, "\n✅ Connected to WhatsApp!")
	fmt.Fprintf(out, "Answering digest requests for %s.\n", pageID)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(out, "\nShutting down...")
	service.Disconnect()
	fmt.Fprintln(out, "Goodbye! 👋")
	return nil
}
