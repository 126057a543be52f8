package main

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/samirrijal/saferoute/internal/bootstrap"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/usecases"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the zone catalog",
	Long: `List zones from the configured source, optionally filtered by category
or restricted to a radius around a point.

Examples:
  saferoute zones --category high_risk
  saferoute zones --near 13.0827,80.2707 --radius 3000 --format geojson`,
	RunE: runZones,
}

func init() {
	f := zonesCmd.Flags()
	f.String("category", "", "filter by category: high_risk, low_light or crowded")
	f.String("near", "", "only zones near lat,lon")
	f.Float64("radius", 1000, "radius in meters for --near")
	f.String("format", formatTable, "output format: table, json or geojson")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(zonesCmd)
}

func runZones(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	category, _ := cmd.Flags().GetString("category")
	near, _ := cmd.Flags().GetString("near")
	radius, _ := cmd.Flags().GetFloat64("radius")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if err := validFormat(format); err != nil {
		return err
	}

	store, err := bootstrap.OpenZones(ctx, cfg)
	if err != nil {
		return eris.Wrap(err, "zones: open")
	}
	defer store.Close()
	svc := usecases.NewZoneService(store.Repo, nil, 0)

	var zones []domain.Zone
	if near != "" {
		p, err := parseLatLon(near)
		if err != nil {
			return err
		}
		zones, err = svc.Nearby(ctx, p, radius)
		if err != nil {
			return eris.Wrap(err, "zones: nearby")
		}
	} else {
		zones, err = svc.List(ctx, nil)
		if err != nil {
			return eris.Wrap(err, "zones: list")
		}
	}

	if category != "" {
		cat, err := domain.ParseZoneCategory(category)
		if err != nil {
			return err
		}
		zones = domain.FilterZones(zones, &cat)
	}

	w, closeOut, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := writeZones(w, format, zones); err != nil {
		_ = closeOut()
		return eris.Wrap(err, "zones: write")
	}
	return closeOut()
}

func parseLatLon(s string) (domain.GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.GeoPoint{}, eris.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.GeoPoint{}, eris.Wrapf(err, "parse latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.GeoPoint{}, eris.Wrapf(err, "parse longitude %q", parts[1])
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	return p, p.Validate()
}
