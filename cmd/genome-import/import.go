package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/genome-import/internal/duckdb"
	"github.com/inodb/genome-import/internal/genome"
	"github.com/inodb/genome-import/internal/ontology"
	"github.com/inodb/genome-import/internal/output"
)

// importFlagKeys maps viper keys to the flags shared by the import commands.
var importFlagKeys = map[string]string{
	"genetic_code":       "genetic-code",
	"generate_ids":       "generate-ids",
	"exclude_ontologies": "exclude-ontologies",
	"ontology.db":        "ontology-db",
	"ontology.tsv":       "ontology-tsv",
	"store":              "store",
	"max_warnings":       "max-warnings",
}

func addImportFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "", "Write the feature table to this file ('-' for stdout)")
	fs.Int("genetic-code", 11, "NCBI genetic code table for translation")
	fs.Bool("generate-ids", false, "Allocate ids for features without an identifying qualifier")
	fs.Bool("exclude-ontologies", false, "Skip ontology cross-referencing")
	fs.String("ontology-db", "", "DuckDB term dictionary (see 'ontology load')")
	fs.String("ontology-tsv", "", "Term dictionary TSV with term_id and name columns")
	fs.String("store", "", "Persist the feature graph to this DuckDB file")
	fs.Bool("force", false, "Import again even if the store holds an import of the same files")
	fs.Int("max-warnings", 20, "Warnings to list after the summary (0 lists all)")
}

// bindImportFlags binds the running command's flags to viper. Binding at run
// time lets several subcommands share the same keys.
func bindImportFlags(cmd *cobra.Command, extra map[string]string) error {
	for key, name := range importFlagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	for key, name := range extra {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// loadTerms opens the configured term dictionary. It returns nil when none
// is configured.
func loadTerms(logger *zap.Logger) (genome.TermDictionary, func(), error) {
	noop := func() {}
	if viper.GetBool("exclude_ontologies") {
		return nil, noop, nil
	}
	if path := viper.GetString("ontology.db"); path != "" {
		store, err := ontology.Open(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open ontology store: %w", err)
		}
		if !store.Loaded() {
			store.Close()
			return nil, noop, fmt.Errorf("ontology store %s is empty; load it with 'genome-import ontology load'", path)
		}
		if err := store.PreloadToMemory(); err != nil {
			store.Close()
			return nil, noop, err
		}
		logger.Info("loaded ontology store", zap.String("path", path), zap.Int("terms", store.MemCacheSize()))
		return store, func() { store.Close() }, nil
	}
	if path := viper.GetString("ontology.tsv"); path != "" {
		d, err := ontology.LoadTSV(path)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("loaded term dictionary", zap.String("path", path), zap.Int("terms", len(d)))
		return d, noop, nil
	}
	return nil, noop, nil
}

// fingerprints stats the input files. Stdin has no fingerprint.
func fingerprints(paths []string) ([]duckdb.FileFingerprint, error) {
	var fps []duckdb.FileFingerprint
	for _, p := range paths {
		if p == "-" || p == "" {
			continue
		}
		fp, err := duckdb.StatFile(p)
		if err != nil {
			return nil, err
		}
		fps = append(fps, fp)
	}
	return fps, nil
}

// alreadyImported reports whether the store already holds an import of the
// same input files.
func alreadyImported(cmd *cobra.Command, format string, fps []duckdb.FileFingerprint) (bool, error) {
	path := viper.GetString("store")
	force, _ := cmd.Flags().GetBool("force")
	if path == "" || force || len(fps) == 0 {
		return false, nil
	}
	store, err := duckdb.Open(path)
	if err != nil {
		return false, err
	}
	defer store.Close()

	id, ok, err := store.FindImport(format, fps...)
	if err != nil || !ok {
		return false, err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Already imported as import %d in %s (use --force to import again)\n", id, path)
	return true, nil
}

// finishImport prints the summary and writes the requested outputs.
func finishImport(cmd *cobra.Command, logger *zap.Logger, format string, fps []duckdb.FileFingerprint, contigs *genome.ContigSet, g *genome.Genome) error {
	stderr := cmd.ErrOrStderr()
	if err := output.WriteSummary(stderr, output.Summarize(contigs, g)); err != nil {
		return err
	}
	if len(g.Warnings) > 0 {
		fmt.Fprintln(stderr)
		if err := output.WriteWarnings(stderr, g.Warnings, viper.GetInt("max_warnings")); err != nil {
			return err
		}
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		if err := writeFeatureTable(cmd.OutOrStdout(), outPath, g); err != nil {
			return err
		}
	}

	if path := viper.GetString("store"); path != "" {
		store, err := duckdb.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.WriteGenome(format, fps, contigs, g)
		if err != nil {
			return fmt.Errorf("store feature graph: %w", err)
		}
		logger.Info("stored feature graph", zap.String("path", path), zap.Int64("import_id", id))
		fmt.Fprintf(stderr, "Stored as import %d in %s\n", id, path)
	}
	return nil
}

func writeFeatureTable(stdout io.Writer, path string, g *genome.Genome) error {
	if path == "-" {
		return output.NewTabWriter(stdout).WriteGenome(g)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := output.NewTabWriter(f).WriteGenome(g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
