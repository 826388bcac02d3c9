// Package cli wires the datamask command tree.
package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"datamask/internal/config"
	"datamask/internal/geo"
)

// NewRootCommand builds the datamask root command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "datamask",
		Short: "Mask tabular datasets with realistic substitute values",
		Long: `datamask anonymizes tabular data while keeping it useful: formats,
patterns and geographic consistency of the original survive masking.

Azure OpenAI address generation is enabled when AZURE_OPENAI_ENDPOINT,
AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT are set (a .env file
is honored); otherwise addresses are synthesized locally.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetLevel(config.Load().LogLevel)
		},
		SilenceUsage: true,
	}

	root.AddCommand(MaskCommand())
	root.AddCommand(CountriesCommand())
	return root
}

// CountriesCommand lists the countries with dedicated geo reference
// data.
func CountriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries with dedicated reference data",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := geo.Countries()
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COUNTRY\tISO\tNATIONALITY")
			for _, name := range names {
				info, ok := geo.Lookup(name)
				if !ok {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.ISO2, info.Nationality)
			}
			return w.Flush()
		},
	}
}
