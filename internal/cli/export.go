package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/export"
	"wedding-attendees/internal/models"
)

type exportOptions struct {
	viewOptions
	Out    string
	Upload bool
}

// ExportResult is the output of the export command.
type ExportResult struct {
	Source   Source `json:"source" yaml:"source"`
	Rows     int    `json:"rows" yaml:"rows"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered attendee list as an Excel-compatible CSV",
		Long: `Export the attendees matching --query and --category as CSV.

The file starts with a UTF-8 byte order mark so spreadsheet tools read the
Korean headers correctly. With --upload the file is also stored in the
configured S3 bucket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, rootOpts, opts)
		},
	}
	opts.register(cmd, true)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default attendees-<page-id>-<date>.csv, - for stdout)")
	cmd.Flags().BoolVar(&opts.Upload, "upload", false, "upload the CSV to the export bucket")
	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, opts *exportOptions) error {
	if opts.Out == "-" && opts.Upload {
		return NewExitError(ExitCommandError, "--upload needs a file, it cannot be combined with --out -")
	}
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
		return e.reportFailure(err, ExportResult{Source: src})
	}

	b.Search(opts.Search)
	records := b.SetCategory(category).Filtered
	now := time.Now()
	result := ExportResult{Source: src, Rows: len(records)}

	out := opts.Out
	if out == "" {
		out = fmt.Sprintf("attendees-%s-%s.csv", src.PageID, now.In(e.loc).Format("20060102"))
	}
	if out == "-" {
		// the CSV is the output
		return attendees.WriteCSV(cmd.OutOrStdout(), records, e.loc)
	}
	if err := writeCSVFile(out, records, e.loc); err != nil {
		return WrapExitError(ExitFailure, "failed to write CSV", err)
	}
	result.File = out
	e.log.Info().Str("file", out).Int("rows", len(records)).Msg("CSV written")

	if opts.Upload {
		uploader, err := export.NewUploader(cmd.Context(), export.S3Config{
			Bucket:          e.cfg.ExportBucket,
			Endpoint:        e.cfg.ExportEndpoint,
			AccessKeyID:     e.cfg.ExportAccessKeyID,
			SecretAccessKey: e.cfg.ExportSecretAccessKey,
		}, e.log)
		if err != nil {
			return WrapExitError(ExitCommandError, "upload is not configured", err)
		}
		location, err := uploader.UploadCSV(cmd.Context(), export.ObjectKey(src.PageID, now), records, e.loc)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to upload CSV", err)
		}
		result.Location = location
	}

	return e.out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✅ Exported %d attendees to %s\n", result.Rows, result.File)
		if result.Location != "" {
			fmt.Fprintf(w, "✅ Uploaded to %s\n", result.Location)
		}
	})
}

func writeCSVFile(path string, records []models.AttendeeRecord, loc *time.Location) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if err := attendees.WriteCSV(f, records, loc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
