// Package cmd provides the command-line interface for overlaynet.
package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/overlaynet/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
)

var (
	envFile string
	env     config.Env
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "overlaynet",
	Short: "Run simulated overlay networks of media, text and chat servers.",
	Long: `overlaynet builds a network from a topology file, runs every node ` +
		`in its own goroutine and drives clients through a scripted ` +
		`scenario. Settings can also come from OVERLAYNET_* environment ` +
		`variables or a dotenv file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error

		env, err = config.LoadEnv(envFile)
		if err != nil {
			return err
		}

		logger, _, err = config.NewLoggerFromEnv(env)
		if err != nil {
			return err
		}

		atexit.Register(func() { _ = logger.Sync() })

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env",
		"dotenv file to load before reading the environment")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It runs the exit handlers before returning control to the
// operating system.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
