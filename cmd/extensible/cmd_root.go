package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"extensible-data/internal/logging"
)

const appName = "extensible"

type rootOptions struct {
	debug bool
	dump  bool

	restore func()
	logger  *zap.Logger
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   appName + " [command]",
		Short: "Compose records and variants from their fields",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.debug {
				return nil
			}

			logger, err := logging.New(true)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			opts.logger, opts.restore = logger, logging.Set(logger)

			return nil
		},
	}

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log schema, cast and wiring decisions to stderr")
	root.PersistentFlags().BoolVar(&opts.dump, "dump", false, "dump composed values with go-spew")

	root.SilenceErrors = true
	root.SilenceUsage = true

	root.AddCommand(newGreetCmd(opts), newEmployeeCmd(opts), newShapesCmd(opts))

	return root, opts
}

// execute runs root, then flushes and uninstalls the --debug logger whether
// or not the command failed.
func execute(root *cobra.Command, opts *rootOptions) error {
	defer opts.close()

	return root.Execute()
}

func (o *rootOptions) close() {
	if o.restore == nil {
		return
	}

	_ = o.logger.Sync()
	o.restore()
	o.restore = nil
}

// show prints v, followed by a spew dump when --dump is set.
func (o *rootOptions) show(cmd *cobra.Command, label string, v any) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %+v\n", label, v)

	if o.dump {
		fmt.Fprint(cmd.OutOrStdout(), spew.Sdump(v))
	}
}
