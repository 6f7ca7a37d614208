package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/board"
	"wedding-attendees/internal/notify"
	"wedding-attendees/internal/whatsapp"
)

type notifyOptions struct {
	PageID   string
	Email    bool
	WhatsApp bool
	DryRun   bool
}

// NotifyResult is the output of the notify command.
type NotifyResult struct {
	PageID   string   `json:"page_id" yaml:"page_id"`
	Subject  string   `json:"subject" yaml:"subject"`
	Body     string   `json:"body" yaml:"body"`
	Channels []string `json:"channels" yaml:"channels"`
}

// NewNotifyCommand creates the digest notification command.
func NewNotifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &notifyOptions{}
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send the reply digest by e-mail and/or WhatsApp",
		Long: `Fetch the current replies and send the summary digest.

Examples:
  rsvp-admin notify --email
  rsvp-admin notify --whatsapp --page-id wedding-01
  rsvp-admin notify --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotify(cmd, rootOpts, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.PageID, "page-id", "p", "", "invitation page ID (default $RSVP_PAGE_ID)")
	cmd.Flags().BoolVar(&opts.Email, "email", false, "send by e-mail through SendGrid")
	cmd.Flags().BoolVar(&opts.WhatsApp, "whatsapp", false, "send to $RSVP_NOTIFY_PHONES over WhatsApp")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the digest without sending it")
	return cmd
}

func runNotify(cmd *cobra.Command, rootOpts *RootOptions, opts *notifyOptions) error {
	if !opts.Email && !opts.WhatsApp && !opts.DryRun {
		return NewExitError(ExitCommandError, "specify --email and/or --whatsapp, or --dry-run")
	}
	e, err := loadEnv(rootOpts, cmd)
	if err != nil {
		return err
	}
	pageID := e.pageID(opts.PageID)
	if pageID == "" {
		_ = e.out.Failure(board.MsgPageIDRequired, nil)
		return NewExitError(ExitCommandError, "page ID is required (--page-id or RSVP_PAGE_ID)")
	}

	res := board.Load(cmd.Context(), e.client(), pageID)
	if !res.OK() {
		return e.reportFailure(&loadFailure{message: res.Message, err: res.Err}, nil)
	}

	subject := notify.Subject(e.cfg.GroomName, e.cfg.BrideName)
	result := NotifyResult{
		PageID:   pageID,
		Subject:  subject,
		Body:     notify.FormatDigest(subject, attendees.ComputeSummary(res.Records), time.Now().In(e.loc)),
		Channels: []string{},
	}

	if !opts.DryRun {
		var targets notify.Multi
		if opts.Email {
			email, err := notify.NewEmail(notify.EmailConfig{
				APIKey: e.cfg.SendGridAPIKey,
				From:   e.cfg.MailFrom,
				To:     e.cfg.MailTo,
			}, e.log)
			if err != nil {
				return WrapExitError(ExitCommandError, "e-mail is not configured", err)
			}
			targets = append(targets, email)
			result.Channels = append(result.Channels, "email")
		}
		if opts.WhatsApp {
			if len(e.cfg.NotifyPhones) == 0 {
				return NewExitError(ExitCommandError, "RSVP_NOTIFY_PHONES is empty")
			}
			service, err := whatsapp.NewService(&whatsapp.Config{DataDir: e.cfg.DataDir}, e.log)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to initialize WhatsApp", err)
			}
			if err := service.Connect(); err != nil {
				return WrapExitError(ExitFailure, "failed to connect to WhatsApp", err)
			}
			defer service.Disconnect()
			targets = append(targets, notify.NewWhatsApp(service, e.cfg.NotifyPhones))
			result.Channels = append(result.Channels, "whatsapp")
		}

		if err := targets.Notify(cmd.Context(), result.Subject, result.Body); err != nil {
			return WrapExitError(ExitFailure, "failed to deliver digest", err)
		}
	}

	return e.out.Success(result, func(w io.Writer) {
		fmt.Fprint(w, result.Body)
		for _, ch := range result.Channels {
			fmt.Fprintf(w, "✅ Sent via %s\n", ch)
		}
	})
}
