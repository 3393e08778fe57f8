// Package cli implements the marc-record-serializer command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"marcserializer/internal/config"
	"marcserializer/internal/logging"
	"marcserializer/pkg/alephseq"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitFailure     = 2
	exitUnsupported = 255
)

const usage = "marc-record-serializer [--json] <record-type> <data>\n\n" +
	"\tAvailable record types:\n" +
	"\t\talephseq\t-\tAleph sequential\n\n" +
	"\t--json - Print records in JSON representation\n" +
	"\t--output text|json|alephseq|html - Output form (default text)\n\n" +
	"\tCatalog commands:\n" +
	"\t\timport <data>\t-\tStore records in the catalog\n" +
	"\t\tget <id>\t-\tPrint one stored record\n" +
	"\t\texport\t\t-\tWrite all stored records as Aleph sequential\n"

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	output     string
	json       bool
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

// Run executes the command line with args (without the program name) and
// returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.msg != "" {
			fmt.Fprint(stderr, exit.msg)
		}
		return exit.code
	}
	// Flag parsing errors and unknown subcommand arguments.
	fmt.Fprintf(stderr, "%s\n\n%s", err, usage)
	return exitUsage
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "marc-record-serializer [--json] <record-type> <data>",
		Short: "Convert MARC records between serializations",
		Long:  usage,
		Args:  cobra.ArbitraryArgs,

		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.output, "output", "", "output form: text, json, alephseq or html")
	flags.BoolVar(&a.json, "json", false, "print records in JSON representation")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error or off")

	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(a.importCommand(), a.getCommand(), a.exportCommand())
	return root
}

// setup resolves the configuration: defaults, then the config file, then
// flags.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.DefaultConfig()
	if a.configPath != "" {
		cfg, err := config.LoadConfig(a.configPath)
		if err != nil {
			return &exitError{code: exitUsage, msg: err.Error() + "\n"}
		}
		a.cfg = cfg
	}

	if cmd.Flags().Changed("output") {
		a.cfg.Output.Format = a.output
	}
	if a.json {
		a.cfg.Output.Format = config.FormatJSON
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return &exitError{code: exitUsage, msg: err.Error() + "\n"}
	}

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(a.cfg.Logging.Level); ok {
		logCfg.Level = lvl
	}
	logging.ApplyEnvOverrides(&logCfg)
	if lvl, ok := logging.ParseLevel(a.logLevel); ok {
		logCfg.Level = lvl
	}
	a.logger = logging.New(a.stderr, logCfg)
	return nil
}

func (a *app) readerOptions() []alephseq.Option {
	return []alephseq.Option{
		alephseq.WithChunkSize(a.cfg.Reader.ChunkSize),
		alephseq.WithLogger(a.logger),
	}
}

// convert implements the positional form: <record-type> <data>.
func (a *app) convert(args []string) error {
	if len(args) < 2 {
		return &exitError{code: exitUsage, msg: usage}
	}
	recordType, path := args[0], args[1]

	if _, ok := recordTypes[recordType]; !ok {
		return &exitError{code: exitUnsupported, msg: usage + "\nUnsupported record type\n"}
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &exitError{code: exitUnsupported, msg: fmt.Sprintf("File \"%s\" does not exist\n", path)}
	}
	if err != nil {
		return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
	}
	defer f.Close()

	out, err := newRecordWriter(a.stdout, a.cfg.Output)
	if err != nil {
		return &exitError{code: exitUsage, msg: err.Error() + "\n"}
	}

	reader := recordTypes[recordType](f, a.readerOptions()...)
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			a.logger.Error().Err(err).Str("file", path).Int("record", reader.Count()).Msg("reading records failed")
			return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
		}
		if err := out.write(record); err != nil {
			return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
		}
	}

	a.logger.Debug().Str("file", path).Int("records", reader.Count()).Msg("conversion finished")
	if _, err := io.WriteString(a.stdout, "\n"); err != nil {
		return &exitError{code: exitFailure, msg: fmt.Sprintf("Error: %s\n", err)}
	}
	return nil
}

// recordTypes maps the record-type argument to a reader for that
// serialization.
var recordTypes = map[string]func(io.Reader, ...alephseq.Option) *alephseq.Reader{
	"alephseq": alephseq.NewReader,
}
