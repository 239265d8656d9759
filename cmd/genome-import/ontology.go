package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/genome-import/internal/genome"
	"github.com/inodb/genome-import/internal/ontology"
)

func newOntologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Manage the ontology term dictionary",
		Long:  "Load and query the DuckDB term dictionary used to name GO and PO terms during import.",
	}
	cmd.PersistentFlags().String("db", "", "Term dictionary database (default: ontology.db config key)")

	cmd.AddCommand(newOntologyLoadCmd())
	cmd.AddCommand(newOntologyLookupCmd())
	return cmd
}

func newOntologyLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "load <tsv>",
		Short:   "Bulk load a term dictionary TSV (columns term_id and name)",
		Example: `  genome-import ontology load --db ~/.genome-import/ontology.duckdb go_terms.tsv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, path, err := openOntologyStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Load(args[0]); err != nil {
				return err
			}
			n, err := store.Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d terms into %s\n", n, path)
			return nil
		},
	}
}

func newOntologyLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <term-id>...",
		Short: "Print the names of terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openOntologyStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			missing := 0
			for _, id := range args {
				name, ok := store.Lookup(genome.TermSource(id), id)
				if !ok {
					missing++
					name = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, name)
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d terms not found", missing, len(args))
			}
			return nil
		},
	}
}

func openOntologyStore(cmd *cobra.Command) (*ontology.Store, string, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString("ontology.db")
	}
	if path == "" {
		return nil, "", &usageError{msg: "no term dictionary database: pass --db or set ontology.db"}
	}
	store, err := ontology.Open(path)
	if err != nil {
		return nil, "", err
	}
	return store, path, nil
}
