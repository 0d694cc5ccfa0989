package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/sarchlab/overlaynet/config"
	"github.com/sarchlab/overlaynet/datarecording"
	"github.com/sarchlab/overlaynet/simulation"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the scripted scenario once and print every exchange.",
	Long: "`simulate --topology net.yaml` builds the network, lets every " +
		"client query every server, relays chat messages between the " +
		"clients and prints what came back. With --record, node events " +
		"are written to a SQLite file and summarized at the end.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		topoFile, _ := cmd.Flags().GetString("topology")
		record, _ := cmd.Flags().GetString("record")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		logEvents, _ := cmd.Flags().GetBool("log-events")

		if !cmd.Flags().Changed("record") {
			record = env.RecordDB
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		s, err := buildSimulation(topoFile, record, logEvents, nil)
		if err != nil {
			return err
		}

		s.Start(ctx)

		exchanges := simulation.Scenario{Timeout: timeout}.Run(ctx, s)

		if err := s.Terminate(); err != nil {
			return err
		}

		failed := printExchanges(cmd.OutOrStdout(), exchanges)

		if record != "" {
			if err := printSummary(ctx, cmd.OutOrStdout(), record); err != nil {
				return err
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d exchanges failed", failed, len(exchanges))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().String("topology", "", "Topology file (YAML)")
	simulateCmd.Flags().String("record", "",
		"Record node events to this SQLite file, without extension")
	simulateCmd.Flags().Duration("timeout", 5*time.Second,
		"How long to wait for each answer")
	simulateCmd.Flags().Bool("log-events", false, "Log every node event")
	_ = simulateCmd.MarkFlagRequired("topology")
}

func buildSimulation(
	topoFile, record string,
	logEvents bool,
	configure func(simulation.Builder) simulation.Builder,
) (*simulation.Simulation, error) {
	topo, err := config.LoadTopology(topoFile)
	if err != nil {
		return nil, err
	}

	b := simulation.MakeBuilder().WithLogger(logger)

	if logEvents {
		b = b.WithEventLogging()
	}

	if record != "" {
		b = b.WithDataRecorder(datarecording.New(record))
	}

	if configure != nil {
		b = configure(b)
	}

	return simulation.BuildFromTopology(topo, b)
}

func printExchanges(w io.Writer, exchanges []simulation.Exchange) int {
	failed := 0

	for _, e := range exchanges {
		if e.Err != nil {
			failed++
		}

		fmt.Fprintln(w, e.String())
	}

	return failed
}

func printSummary(ctx context.Context, w io.Writer, record string) error {
	reader, err := datarecording.NewEventReader(record + ".sqlite3")
	if err != nil {
		return err
	}
	defer reader.Close()

	counts, err := reader.CountByKind(ctx)
	if err != nil {
		return err
	}

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	fmt.Fprintf(w, "\nRecorded events (%s.sqlite3):\n", record)

	for _, k := range kinds {
		fmt.Fprintf(w, "  %-20s %d\n", k, counts[k])
	}

	return nil
}
