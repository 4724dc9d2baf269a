package command

import (
	"fmt"
	"os"

	"github.com/birdayz/kplan/pkg/log"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/spf13/cobra"
)

type options struct {
	logLevel  string
	logFormat string
}

// NewRootCommand creates the kplan command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "kplan",
		Short: "Inspect and prepare logical plan descriptions",
		Long: "kplan loads plan descriptions written in HCL, prunes operators that do not\n" +
			"contribute to a sink and isolates loops, printing the resulting plan graph.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level. One of: (debug | info | warn | error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "Log format. One of: (console | json)")

	cmd.AddCommand(
		newPlanCommand(opts, actionPrune),
		newPlanCommand(opts, actionSources),
		newPlanCommand(opts, actionPrepare),
	)
	return cmd
}

func (o *options) logger(cmd *cobra.Command) logr.Logger {
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	return zerologr.New(log.New(cmd.ErrOrStderr(), o.logLevel, o.logFormat))
}

// Execute runs the root command and exits the process.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
