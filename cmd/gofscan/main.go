package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gofscan/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliState is shared by every subcommand once the root has run.
type cliState struct {
	cfg     *config.Config
	asJSON  bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "gofscan",
		Short:         "Goodness-of-fit and scan statistics for numeric samples",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !state.verbose {
				log.SetOutput(io.Discard)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			state.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&state.asJSON, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(
		newEDFCmd(state),
		newChi2Cmd(state),
		newScanCmd(state),
		newScanProbCmd(state),
		newBatchCmd(state),
		newServeCmd(state),
	)
	return rootCmd
}

func (s *cliState) printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
