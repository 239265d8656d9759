package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/genome-import/internal/gff"
)

func newGFFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gff [flags] <gff3-file>",
		Short: "Import GFF3 annotation with FASTA sequence",
		Long: `Import a GFF3 file (plain or gzipped, '-' for stdin) with contig sequences
from --fasta or from the ##FASTA section of the GFF3 file. The first
malformed line aborts the import.`,
		Example: `  genome-import gff --fasta genome.fa annotation.gff3
  genome-import gff -o features.tsv annotation_with_fasta.gff3.gz`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindImportFlags(cmd, nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fastaPath, _ := cmd.Flags().GetString("fasta")
			return runGFF(cmd, args[0], fastaPath)
		},
	}

	addImportFlags(cmd.Flags())
	cmd.Flags().String("fasta", "", "FASTA file with the contig sequences (plain or gzipped)")

	return cmd
}

func runGFF(cmd *cobra.Command, gffPath, fastaPath string) error {
	if gffPath == "-" && fastaPath == "-" {
		return &usageError{msg: "GFF3 and FASTA cannot both be read from stdin"}
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fps, err := fingerprints([]string{gffPath, fastaPath})
	if err != nil {
		return err
	}
	if skip, err := alreadyImported(cmd, "gff3", fps); err != nil || skip {
		return err
	}

	terms, closeTerms, err := loadTerms(logger)
	if err != nil {
		return err
	}
	defer closeTerms()

	gffIn, err := openInput(gffPath)
	if err != nil {
		return err
	}
	defer gffIn.Close()

	var fastaIn io.Reader
	if fastaPath != "" {
		in, err := openInput(fastaPath)
		if err != nil {
			return err
		}
		defer in.Close()
		fastaIn = in
	}

	im := gff.NewImporter(gff.Options{
		GeneticCode:       viper.GetInt("genetic_code"),
		GenerateIDs:       viper.GetBool("generate_ids"),
		Terms:             terms,
		ExcludeOntologies: viper.GetBool("exclude_ontologies"),
	})
	im.SetLogger(logger)

	res, err := im.Import(gffIn, fastaIn)
	if err != nil {
		return err
	}
	return finishImport(cmd, logger, "gff3", fps, res.Contigs, res.Genome)
}
