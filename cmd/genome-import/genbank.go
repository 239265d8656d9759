package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/genome-import/internal/genbank"
)

func newGenbankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genbank [flags] <file>...",
		Short: "Import GenBank flat files",
		Long: `Import one or more GenBank flat files (plain or gzipped, '-' for stdin).
Records that cannot be parsed are skipped with a warning; the import fails
only when no record survives.`,
		Example: `  genome-import genbank NC_000913.gbk
  genome-import genbank --source Ensembl -o features.tsv chr*.gbk.gz
  genome-import genbank --store genomes.duckdb --ontology-tsv go_terms.tsv NC_000913.gbk`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindImportFlags(cmd, map[string]string{
				"source":  "source",
				"workers": "workers",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenbank(cmd, args)
		},
	}

	addImportFlags(cmd.Flags())
	cmd.Flags().String("source", "", "Annotation source, e.g. RefSeq or Ensembl (Ensembl swaps gene and locus_tag ids)")
	cmd.Flags().Int("workers", 0, "Record parse workers (0 = number of CPUs)")

	return cmd
}

func runGenbank(cmd *cobra.Command, paths []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fps, err := fingerprints(paths)
	if err != nil {
		return err
	}
	if skip, err := alreadyImported(cmd, "genbank", fps); err != nil || skip {
		return err
	}

	terms, closeTerms, err := loadTerms(logger)
	if err != nil {
		return err
	}
	defer closeTerms()

	var readers []io.Reader
	for _, p := range paths {
		in, err := openInput(p)
		if err != nil {
			return err
		}
		defer in.Close()
		// Files may lack a final newline after their last "//".
		readers = append(readers, in, strings.NewReader("\n"))
	}

	im := genbank.NewImporter(genbank.Options{
		Source:            viper.GetString("source"),
		GeneticCode:       viper.GetInt("genetic_code"),
		GenerateIDs:       viper.GetBool("generate_ids"),
		Terms:             terms,
		ExcludeOntologies: viper.GetBool("exclude_ontologies"),
		Workers:           viper.GetInt("workers"),
	})
	im.SetLogger(logger)

	res, err := im.Import(io.MultiReader(readers...))
	if err != nil {
		return err
	}
	for _, re := range res.RecordErrors {
		logger.Debug("record skipped", zap.Int("index", re.Index), zap.String("accession", re.Accession), zap.Error(re.Err))
	}
	return finishImport(cmd, logger, "genbank", fps, res.Contigs, res.Genome)
}
