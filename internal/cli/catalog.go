package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"marcserializer/internal/catalog"
)

func (a *app) openCatalog() (*catalog.Store, error) {
	store, err := catalog.Open(a.cfg.Catalog.DataDir, a.logger)
	if err != nil {
		return nil, &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
	}
	return store, nil
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <data>",
		Short: "Store Aleph sequential records in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if errors.Is(err, fs.ErrNotExist) {
				return &exitError{code: exitUnsupported, msg: fmt.Sprintf("File \"%s\" does not exist\n", args[0])}
			}
			if err != nil {
				return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
			}
			defer f.Close()

			store, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			batch, err := store.Import(cmd.Context(), f, a.readerOptions()...)
			if err != nil {
				a.logger.Error().Err(err).Str("file", args[0]).Msg("import failed")
				return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
			}
			fmt.Fprintf(a.stdout, "%s\t%d\n", batch.ID, batch.Count)
			return nil
		},
	}
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newRecordWriter(a.stdout, a.cfg.Output)
			if err != nil {
				return &exitError{code: exitUsage, msg: err.Error() + "\n"}
			}

			store, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.Get(args[0])
			if err != nil {
				return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
			}
			if err := out.write(record); err != nil {
				return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
			}
			return nil
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every stored record as Aleph sequential text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Export(a.stdout)
			if err != nil {
				return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
			}
			a.logger.Info().Int("records", count).Msg("export finished")
			return nil
		},
	}
}
