package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haneulgyeol/cloud-atlas/internal/catalog"
)

// options are the flags shared by every subcommand.
type options struct {
	catalogPath string
	format      string
	noColor     bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "atlasctl",
		Short: "Browse the 하늘결 cloud atlas and query the classifier",
		Long: `atlasctl reads the same taxonomy catalog as the atlas service. It lists and
searches the ten cloud genera, prints the species, variety and supplementary
feature indexes, and sends photos to the classification service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			f, err := parseFormat(o.format)
			if err != nil {
				return err
			}
			o.format = f
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.catalogPath, "catalog", "", "catalog YAML to use instead of the embedded one")
	pf.StringVarP(&o.format, "format", "f", formatText, "output format: text or json")
	pf.BoolVar(&o.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newGeneraCmd(o),
		newShowCmd(o),
		newSearchCmd(o),
		newIndexCmd(o),
		newSubCmd(o),
		newWatchCmd(o),
		newClassifyCmd(o),
		newHealthCmd(o),
	)
	return root
}

func (o *options) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogPath == "" {
		return catalog.Default(), nil
	}
	data, err := os.ReadFile(o.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Load(data)
}

func (o *options) styles(cmd *cobra.Command) styles {
	out := cmd.OutOrStdout()
	return newStyles(out, colorEnabled(out, o.noColor))
}

func (o *options) emit(cmd *cobra.Command, r outputter) error {
	return write(cmd.OutOrStdout(), o.format, o.styles(cmd), r)
}
