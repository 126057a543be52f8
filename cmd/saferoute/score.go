package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/samirrijal/saferoute/internal/bootstrap"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/usecases"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidate routes",
	Long: `Score routes against the configured zone catalog and print them safest first.

Routes come either from the directions provider (--origin/--destination,
requires directions.api_key) or from a JSON file holding a list of routes
or an object with a "routes" list.

Examples:
  # Ask the provider for alternatives
  saferoute score --origin "Guindy, Chennai" --destination "Adyar, Chennai"

  # Score routes from a file and export GeoJSON for a map
  saferoute score --routes routes.json --format geojson --output routes.geojson`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("origin", "", "origin address or lat,lng")
	f.String("destination", "", "destination address or lat,lng")
	f.String("routes", "", "JSON file with routes to score instead of calling the provider")
	f.String("format", formatTable, "output format: table, json or geojson")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	origin, _ := cmd.Flags().GetString("origin")
	destination, _ := cmd.Flags().GetString("destination")
	routesFile, _ := cmd.Flags().GetString("routes")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if err := validFormat(format); err != nil {
		return err
	}
	if routesFile == "" && (origin == "" || destination == "") {
		return eris.New("score: either --routes or both --origin and --destination are required")
	}

	store, err := bootstrap.OpenZones(ctx, cfg)
	if err != nil {
		return eris.Wrap(err, "score: open zones")
	}
	defer store.Close()

	scorer, err := bootstrap.Scorer(cfg.Scoring)
	if err != nil {
		return eris.Wrap(err, "score: scorer")
	}
	svc := usecases.NewSafetyService(
		bootstrap.Directions(cfg.Directions),
		usecases.NewZoneService(store.Repo, nil, 0),
		scorer,
	)

	var scored []domain.ScoredRoute
	if routesFile != "" {
		routes, err := readRoutes(routesFile)
		if err != nil {
			return err
		}
		scored, err = svc.ScoreRoutes(ctx, routes)
		if err != nil {
			return eris.Wrap(err, "score: score routes")
		}
	} else {
		event, err := svc.PlanSafeRoutes(ctx, origin, destination)
		if err != nil {
			return eris.Wrap(err, "score: plan")
		}
		scored = event.Routes
	}

	w, closeOut, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := writeRoutes(w, format, scored); err != nil {
		_ = closeOut()
		return eris.Wrap(err, "score: write")
	}
	return closeOut()
}

// readRoutes accepts either a bare list of routes or {"routes": [...]}.
func readRoutes(path string) ([]domain.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err == nil {
		return routes, nil
	}

	var wrapped struct {
		Routes []domain.Route `json:"routes"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	return wrapped.Routes, nil
}
