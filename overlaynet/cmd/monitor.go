package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/browser"
	"github.com/sarchlab/overlaynet/monitoring"
	"github.com/sarchlab/overlaynet/simulation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the scenario behind the web monitor.",
	Long: "`monitor --topology net.yaml` starts the monitoring server, runs " +
		"the scripted scenario and keeps the network up for inspection " +
		"until interrupted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		topoFile, _ := cmd.Flags().GetString("topology")
		port, _ := cmd.Flags().GetInt("port")
		open, _ := cmd.Flags().GetBool("open")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		monitor := monitoring.NewMonitor().
			WithLogger(logger).
			WithPortNumber(port)

		s, err := buildSimulation(topoFile, env.RecordDB, false,
			func(b simulation.Builder) simulation.Builder {
				return b.WithMonitor(monitor)
			})
		if err != nil {
			return err
		}

		defer func() {
			if err := s.Terminate(); err != nil {
				logger.Error("closing recording", zap.Error(err))
			}
		}()

		actualPort, err := monitor.StartServer()
		if err != nil {
			return err
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(), 5*time.Second)
			defer cancel()

			if err := monitor.Close(shutdownCtx); err != nil {
				logger.Warn("stopping monitor", zap.Error(err))
			}
		}()

		if open {
			url := fmt.Sprintf("http://localhost:%d", actualPort)
			if err := browser.OpenURL(url); err != nil {
				logger.Warn("cannot open browser", zap.Error(err))
			}
		}

		s.Start(ctx)

		bar := monitor.CreateProgressBar("scenario", 0)
		exchanges := simulation.Scenario{Timeout: timeout, Progress: bar}.
			Run(ctx, s)
		monitor.CompleteProgressBar(bar)

		printExchanges(cmd.OutOrStdout(), exchanges)
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

		<-ctx.Done()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().String("topology", "", "Topology file (YAML)")
	monitorCmd.Flags().Int("port", 0,
		"Port of the monitor; a random port is used when below 1000")
	monitorCmd.Flags().Bool("open", false, "Open the monitor in a browser")
	monitorCmd.Flags().Duration("timeout", 5*time.Second,
		"How long to wait for each answer")
	_ = monitorCmd.MarkFlagRequired("topology")
}
