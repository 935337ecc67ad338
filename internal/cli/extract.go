package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/cardscan/internal/app"
	"github.com/markdave123-py/cardscan/internal/config"
	"github.com/markdave123-py/cardscan/internal/core/extraction_engine"
	"github.com/markdave123-py/cardscan/internal/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image]",
	Short: "Extract card fields from one image",
	Long:  `Uploads the image to the configured bucket, runs OCR and the model, prints the fields, and removes the upload.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractBucket string
	extractJSON   bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractBucket, "bucket", "b", "", "Bucket to stage the image in (default BUCKET_NAME)")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the record as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	cfg := config.LoadConfig()
	if extractBucket != "" {
		cfg.BucketName = extractBucket
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := cmd.Context()
	a, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer a.Close()

	rec, err := a.Pipeline.Extract(ctx, extraction_engine.ExtractInput{
		Image:    data,
		FileName: filepath.Base(args[0]),
		Bucket:   cfg.BucketName,
	})
	if err != nil {
		return err
	}

	return printRecord(cmd.OutOrStdout(), rec, extractJSON)
}

// printRecord writes rec as indented JSON or as a label/value table in display order.
func printRecord(w io.Writer, rec models.ExtractedRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range rec.Fields() {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
	}
	return tw.Flush()
}
