package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/samirrijal/saferoute/internal/adapters/geojson"
	"github.com/samirrijal/saferoute/internal/core/domain"
)

// Output formats shared by every subcommand.
const (
	formatTable   = "table"
	formatJSON    = "json"
	formatGeoJSON = "geojson"
)

func validFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatGeoJSON:
		return nil
	default:
		return eris.Errorf("unknown format %q (want table, json or geojson)", f)
	}
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRoutes(w io.Writer, format string, routes []domain.ScoredRoute) error {
	switch format {
	case formatJSON:
		return writeJSON(w, routes)
	case formatGeoJSON:
		data, err := geojson.EncodeRoutes(routes)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tTIER\tHIGH RISK\tCROWDED\tLIGHT\tROUTE\tNOTE")
	for _, r := range routes {
		if r.Assessment == nil {
			fmt.Fprintf(tw, "%d\t-\t-\t-\t-\t-\t%s\t%s\n", r.Rank, routeName(r.Route), r.Error)
			continue
		}
		note := ""
		if r.Fallback {
			note = "fallback: " + r.Error
		}
		a := r.Assessment
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%+d\t%s\t%s\n",
			r.Rank, a.Score, r.Tier, a.HighRiskCount, a.CrowdedCount, a.WellLitDelta, routeName(r.Route), note)
	}
	return tw.Flush()
}

func writeZones(w io.Writer, format string, zones []domain.Zone) error {
	switch format {
	case formatJSON:
		return writeJSON(w, zones)
	case formatGeoJSON:
		data, err := geojson.EncodeZones(zones)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tLAT\tLON\tRADIUS (m)\tDISTANCE (m)\tNAME")
	for _, z := range zones {
		dist := "-"
		if z.Distance != nil {
			dist = fmt.Sprintf("%.0f", *z.Distance)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.5f\t%.5f\t%.0f\t%s\t%s\n",
			z.ID, z.Category, z.Center.Lat, z.Center.Lon, z.RadiusMeters, dist, z.Name)
	}
	return tw.Flush()
}

func routeName(r domain.Route) string {
	if r.Summary != "" {
		return r.Summary
	}
	return fmt.Sprintf("route %d", r.Index)
}
