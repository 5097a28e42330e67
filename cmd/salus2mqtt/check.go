package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/berfenger/salus2mqtt/internal/metrics"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Connect to the gateway once and list its devices",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	client, err := newGatewayClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.TaskTimeout())
	defer cancel()

	mac, err := client.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%s error: %w", metrics.ErrorClass(err), err)
	}
	fmt.Printf("connected to gateway %s\n", mac)

	pollErr := client.PollStatus(ctx)

	snapshot := client.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tDEVICES")
	fmt.Fprintf(w, "climate\t%d\n", len(snapshot.Climate))
	fmt.Fprintf(w, "binary_sensor\t%d\n", len(snapshot.BinarySensors))
	fmt.Fprintf(w, "switch\t%d\n", len(snapshot.Switches))
	fmt.Fprintf(w, "cover\t%d\n", len(snapshot.Covers))
	fmt.Fprintf(w, "sensor\t%d\n", len(snapshot.Sensors))
	w.Flush()

	if pollErr != nil {
		return fmt.Errorf("%s error: %w", metrics.ErrorClass(pollErr), pollErr)
	}
	return nil
}
