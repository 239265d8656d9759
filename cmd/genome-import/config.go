package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/genome-import/internal/genome"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage genome-import configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.genome-import.yaml.",
		Example: `  genome-import config                                   # show all config
  genome-import config set ontology.db ~/go_terms.duckdb  # use a term dictionary
  genome-import config set generate_ids true             # allocate missing ids
  genome-import config set genetic_code 4                # mycoplasma translation table
  genome-import config get genetic_code                  # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

func runConfigShow(w io.Writer) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(w, "# No configuration set. Config file: ~/.genome-import.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

// checkConfigValue rejects values the import commands would fail on later.
func checkConfigValue(key string, value any) error {
	switch key {
	case "genetic_code":
		n, ok := value.(int)
		if !ok || !genome.ValidGeneticCode(n) {
			return &usageError{msg: fmt.Sprintf("genetic_code %v is not an NCBI translation table", value)}
		}
	case "workers", "max_warnings":
		if n, ok := value.(int); !ok || n < 0 {
			return &usageError{msg: fmt.Sprintf("%s must be a non-negative integer, got %v", key, value)}
		}
	case "generate_ids", "exclude_ontologies":
		if _, ok := value.(bool); !ok {
			return &usageError{msg: fmt.Sprintf("%s must be true or false, got %v", key, value)}
		}
	}
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	var parsed any = value
	switch value {
	case "true", "yes", "on":
		parsed = true
	case "false", "no", "off":
		parsed = false
	default:
		if n, err := strconv.Atoi(value); err == nil {
			parsed = n
		}
	}
	if err := checkConfigValue(key, parsed); err != nil {
		return err
	}
	viper.Set(key, parsed)

	// Ensure config file exists
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, ".genome-import.yaml")
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}
