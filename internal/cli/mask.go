package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"datamask/internal/addressgen"
	"datamask/internal/config"
	"datamask/internal/masker"
	"datamask/internal/model"
)

// MaskCommand creates the mask command: CSV in, masked CSV out.
func MaskCommand() *cobra.Command {
	var (
		inputPath      string
		outputPath     string
		typeSpec       string
		skipSpec       string
		countrySpec    string
		preserveFormat bool
		noAzure        bool
		seed           int64
		batchSize      int
		maxRetries     int
		threshold      int
		poolCap        int
	)

	cmd := &cobra.Command{
		Use:   "mask",
		Short: "Mask a CSV dataset",
		Long: `Mask a CSV dataset column by column.

Column types are guessed from the header names and corrected against
the actual values; use --types to pin a column to a specific type and
--skip to pass columns through unmasked.

Examples:
  # Mask a file, writing the result next to it
  datamask mask --input customers.csv --output customers_masked.csv

  # Pin column types and skip the primary key
  datamask mask --input data.csv --output out.csv \
    --types "created=dateTime,ref=string" --skip id

  # Restrict generated countries
  datamask mask --input data.csv --output out.csv \
    --countries "Germany,Japan"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := ParseTypeOverrides(typeSpec)
			if err != nil {
				return err
			}
			skip := make(map[string]bool)
			for _, name := range strings.Split(skipSpec, ",") {
				if name = strings.TrimSpace(name); name != "" {
					skip[name] = true
				}
			}

			cfg := config.Load()
			geminiKey := cfg.GeminiAPIKey
			if noAzure {
				geminiKey = ""
			}
			opts := cfg.Options()
			opts.PreserveFormat = preserveFormat
			opts.BatchSize = batchSize
			opts.MaxRetries = maxRetries
			opts.LargeDatasetThreshold = threshold
			opts.AddressPoolCap = poolCap
			if noAzure {
				opts.UseAzureOpenAI = false
			}
			if countrySpec != "" {
				opts.UseCountryDropdown = true
				for _, c := range strings.Split(countrySpec, ",") {
					if c = strings.TrimSpace(c); c != "" {
						opts.SelectedCountries = append(opts.SelectedCountries, c)
					}
				}
			}

			if outputPath == "" {
				outputPath = timestampedOutput(inputPath)
			}
			return runMask(cmd, inputPath, outputPath, overrides, skip, opts, geminiKey, seed)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Input CSV file (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output CSV file (default: <input>_masked_<timestamp>.csv)")
	cmd.Flags().StringVar(&typeSpec, "types", "", "Explicit column types, e.g. \"created=dateTime,code=string\"")
	cmd.Flags().StringVar(&skipSpec, "skip", "", "Comma-separated columns to pass through unmasked")
	cmd.Flags().StringVar(&countrySpec, "countries", "", "Restrict masked countries to this comma-separated list")
	cmd.Flags().BoolVar(&preserveFormat, "preserve-format", true, "Keep value formats (phone groups, postal templates, casing)")
	cmd.Flags().BoolVar(&noAzure, "no-azure", false, "Disable external address generation even when configured")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible output (0 = time-based)")
	cmd.Flags().IntVar(&batchSize, "batch-size", model.DefaultBatchSize, "Addresses requested per generation call")
	cmd.Flags().IntVar(&maxRetries, "max-retries", model.DefaultMaxRetries, "Generation retry budget per country")
	cmd.Flags().IntVar(&threshold, "threshold", model.DefaultLargeDatasetThreshold, "Row count at which address pooling kicks in")
	cmd.Flags().IntVar(&poolCap, "pool-cap", model.DefaultAddressPoolCap, "Maximum fresh addresses per country for large datasets")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runMask(cmd *cobra.Command, inputPath, outputPath string, overrides map[string]model.DataType, skip map[string]bool, opts model.MaskingOptions, geminiKey string, seed int64) error {
	header, rows, err := readCSV(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	columns := BuildColumns(header, overrides, skip)

	engine := masker.New(opts)
	if seed != 0 {
		engine = masker.NewSeeded(opts, seed)
	}

	// Azure takes precedence when configured; with only a Gemini key the
	// address subsystem runs on the Gemini backend instead.
	if !opts.UseAzureOpenAI && geminiKey != "" {
		gemini, err := addressgen.NewGeminiClient(cmd.Context(), geminiKey, logrus.NewEntry(logrus.StandardLogger()))
		if err != nil {
			return fmt.Errorf("initializing gemini client: %w", err)
		}
		if gemini != nil {
			defer gemini.Close()
			engine.SetClient(gemini)
		}
	}
	masked, err := engine.MaskDataSet(cmd.Context(), rows, columns)
	if err != nil {
		return fmt.Errorf("masking: %w", err)
	}

	if err := writeCSV(outputPath, header, masked); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	logrus.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"rows":   len(masked),
	}).Info("dataset masked")
	return nil
}

// readCSV loads the file into header and row maps.
func readCSV(path string) ([]string, []model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	var rows []model.Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", len(rows)+2, err)
		}
		row := make(model.Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// writeCSV writes the masked rows back in the original column order.
func writeCSV(path string, header []string, rows []model.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, name := range header {
			record[i] = row[name]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// timestampedOutput derives a default output name from the input.
func timestampedOutput(inputPath string) string {
	base := strings.TrimSuffix(inputPath, ".csv")
	return fmt.Sprintf("%s_masked_%s.csv", base, time.Now().Format("20060102_150405"))
}
