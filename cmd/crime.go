package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tripdesk/berlin-cli/internal/crime"
)

func init() {
	crimeCmd.Flags().String("file", "", "crime dataset path (.csv or .xlsx; default from config)")
	crimeCmd.Flags().String("sheet", "", "XLSX sheet name")
	crimeCmd.Flags().Int("skip-rows", 0, "XLSX rows to skip before the header")
	crimeCmd.Flags().String("delimiter", "", "CSV delimiter")
	crimeCmd.Flags().String("encoding", "", "CSV encoding (utf-8, windows-1252, latin-1)")
	crimeCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(crimeCmd)
}

var crimeCmd = &cobra.Command{
	Use:   "crime",
	Short: "Aggregate district crime totals for the latest year",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if v, _ := cmd.Flags().GetString("file"); v != "" {
			cfg.Crime.File = v
		}
		if v, _ := cmd.Flags().GetString("sheet"); v != "" {
			cfg.Crime.Sheet = v
		}
		if v, _ := cmd.Flags().GetInt("skip-rows"); v != 0 {
			cfg.Crime.SkipRows = v
		}
		if v, _ := cmd.Flags().GetString("delimiter"); v != "" {
			cfg.Crime.Delimiter = v
		}
		if v, _ := cmd.Flags().GetString("encoding"); v != "" {
			cfg.Crime.Encoding = v
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		table, err := loadCrimeTable()
		if err != nil {
			return eris.Wrap(err, "crime")
		}

		summary, err := crime.Summarize(table)
		if err != nil {
			return eris.Wrap(err, "crime")
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(summary)
		}

		if len(summary.Totals) == 0 {
			fmt.Fprintln(os.Stderr, "No districts found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DISTRICT\tTOTAL")
		for _, t := range summary.Totals {
			fmt.Fprintf(w, "%s\t%d\n", t.District, t.TotalCrime)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if summary.Year != 0 {
			fmt.Printf("\nYear: %d\n", summary.Year)
		}
		fmt.Printf("Total: %d\n", summary.TotalCrime)
		fmt.Printf("Highest district: %s\n", summary.TopDistrict)
		if summary.TopCrimeType != "" {
			fmt.Printf("Most frequent type: %s\n", summary.TopCrimeType)
		}
		return nil
	},
}
