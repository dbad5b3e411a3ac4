package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/ftva-etl/internal/etl"
	"github.com/lehigh-university-libraries/ftva-etl/internal/export"
	"github.com/lehigh-university-libraries/ftva-etl/internal/filemaker"
	"github.com/lehigh-university-libraries/ftva-etl/internal/httpx"
	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
	"github.com/spf13/cobra"
)

type composeOptions struct {
	inventoryNumber string
	digitalDataID   int
	matchAsset      string
	format          string
	output          string

	bibFile       string
	inventoryFile string
	assetFile     string
}

func (o composeOptions) local() bool {
	return o.bibFile != ""
}

func (o composeOptions) validate() error {
	if o.matchAsset != "" {
		if _, err := uuid.Parse(o.matchAsset); err != nil {
			return fmt.Errorf("--match-asset must be a UUID: %w", err)
		}
	}
	if o.local() {
		if o.inventoryNumber != "" || o.digitalDataID != 0 {
			return errors.New("--bib-file cannot be combined with --inventory-number or --dd-id")
		}
		return nil
	}
	if o.inventoryFile != "" || o.assetFile != "" {
		return errors.New("--inventory-file and --asset-file require --bib-file")
	}
	if strings.TrimSpace(o.inventoryNumber) == "" {
		return errors.New("--inventory-number is required")
	}
	if o.digitalDataID <= 0 {
		return errors.New("--dd-id must be a positive integer")
	}
	return nil
}

func newComposeCmd(configPath *string) *cobra.Command {
	var opts composeOptions

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose the metadata record for one item",
		Long: `Compose fetches the FileMaker inventory row, the matching Alma bib record and
the Digital Data asset record for one item, and prints the canonical
metadata record.

With --bib-file the records are read from local files instead and no
collaborator is contacted. The bib file may be MARCXML (.xml) or MARC
mnemonic text; the inventory and asset files are JSON objects.`,
		Example: `  # Compose from the live services
  ftva-etl compose --inventory-number DVD12345 --dd-id 6789

  # Write a Parquet file for ingest
  ftva-etl compose --inventory-number DVD12345 --dd-id 6789 --format parquet --output item.parquet

  # Compose from local files
  ftva-etl compose --bib-file bib.mrk --inventory-file inventory.json --asset-file asset.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			format, err := export.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			var rec metadata.Record
			if opts.local() {
				composer, err := newComposer(cfg, httpx.NewClient(cfg.HTTP.Timeout, cfg.HTTP.RetryMax, userAgent), nil)
				if err != nil {
					return err
				}
				rec, err = composeLocal(cmd.Context(), composer, opts)
				if err != nil {
					return err
				}
			} else {
				service, fileMaker, err := newService(cfg, nil)
				if err != nil {
					return err
				}
				defer closeFileMaker(fileMaker)

				rec, err = service.Compose(cmd.Context(), etl.Request{
					InventoryNumber: opts.inventoryNumber,
					DigitalDataID:   opts.digitalDataID,
					MatchAsset:      opts.matchAsset,
				})
				if err != nil {
					return err
				}
			}

			return writeRecord(cmd.OutOrStdout(), opts.output, format, rec)
		},
	}

	cmd.Flags().StringVar(&opts.inventoryNumber, "inventory-number", "", "FTVA inventory number to look up")
	cmd.Flags().IntVar(&opts.digitalDataID, "dd-id", 0, "Digital Data record id")
	cmd.Flags().StringVar(&opts.matchAsset, "match-asset", "", "UUID of the asset this record matches")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(export.JSON), "Output format (json, yaml, or parquet)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&opts.bibFile, "bib-file", "", "Local MARCXML or mnemonic bib record")
	cmd.Flags().StringVar(&opts.inventoryFile, "inventory-file", "", "Local FileMaker inventory row (JSON)")
	cmd.Flags().StringVar(&opts.assetFile, "asset-file", "", "Local Digital Data asset record (JSON)")

	return cmd
}

// composeLocal composes from files. Missing inventory or asset files leave
// those inputs empty.
func composeLocal(ctx context.Context, composer *metadata.Composer, opts composeOptions) (metadata.Record, error) {
	bib, err := readBibFile(opts.bibFile)
	if err != nil {
		return metadata.Record{}, err
	}

	inv := metadata.InventoryRecord{}
	if opts.inventoryFile != "" {
		var fields map[string]any
		if err := readJSONFile(opts.inventoryFile, &fields); err != nil {
			return metadata.Record{}, err
		}
		inv = filemaker.NewInventoryRecord(fields)
	}

	asset := metadata.AssetRecord{}
	if opts.assetFile != "" {
		if err := readJSONFile(opts.assetFile, &asset); err != nil {
			return metadata.Record{}, err
		}
	}

	return composer.Compose(ctx, bib, inv, asset, opts.matchAsset)
}

func readBibFile(path string) (marc.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return marc.Record{}, fmt.Errorf("failed to read bib file: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".xml") {
		rec, err := marc.ParseMnemonic(string(data))
		if err != nil {
			return marc.Record{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return rec, nil
	}

	records, err := marc.ParseXML(bytes.NewReader(data))
	if err != nil {
		return marc.Record{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) != 1 {
		return marc.Record{}, fmt.Errorf("%s holds %d MARC records, expected 1", path, len(records))
	}
	return records[0], nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeRecord(stdout io.Writer, path string, format export.Format, rec metadata.Record) (err error) {
	if path == "" {
		return export.Write(stdout, format, rec)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := export.Write(f, format, rec); err != nil {
		return err
	}
	slog.Info("Wrote metadata record", "path", path, "format", format)
	return nil
}

func closeFileMaker(c *filemaker.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), httpx.DefaultTimeout)
	defer cancel()
	if err := c.Close(ctx); err != nil {
		slog.Warn("Unable to close FileMaker session", "err", err)
	}
}
