package main

import (
	"log/slog"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"github.com/samirrijal/saferoute/internal/workflows"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan safe routes through the Temporal planner worker",
	Long: `Start a SafeRouteWorkflow on the planner task queue and wait for the
ranked result. The planner worker (cmd/planner) must be running.`,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.String("origin", "", "origin address or lat,lng")
	f.String("destination", "", "destination address or lat,lng")
	f.String("format", formatTable, "output format: table, json or geojson")
	_ = planCmd.MarkFlagRequired("origin")
	_ = planCmd.MarkFlagRequired("destination")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	origin, _ := cmd.Flags().GetString("origin")
	destination, _ := cmd.Flags().GetString("destination")
	format, _ := cmd.Flags().GetString("format")
	if err := validFormat(format); err != nil {
		return err
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		return eris.Wrap(err, "plan: temporal client")
	}
	defer c.Close()

	event, err := workflows.Plan(cmd.Context(), c, cfg.Temporal.TaskQueue, workflows.PlanInput{
		Origin:      origin,
		Destination: destination,
	})
	if err != nil {
		return eris.Wrap(err, "plan: workflow")
	}
	slog.Info("assessment ready", "event_id", event.ID, "routes", len(event.Routes))

	return writeRoutes(cmd.OutOrStdout(), format, event.Routes)
}
