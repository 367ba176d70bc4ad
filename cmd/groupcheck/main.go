// Command groupcheck prints the escort grouping for a roster file using a
// straight-line matrix. It is a diagnostic aid; road distances differ.
package main

import (
	"context"
	"escort-route-service/internal/adapters/distance"
	"escort-route-service/internal/adapters/repositories"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/obs"
	"escort-route-service/internal/services"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

func main() {
	var (
		rosterPath = flag.String("roster", "data/seeds/employees.json", "employee roster JSON")
		officeLat  = flag.Float64("office-lat", 12.9716, "office latitude")
		officeLon  = flag.Float64("office-lon", 77.5946, "office longitude")
		capacity   = flag.Int("capacity", 4, "seats per vehicle, guard included")
		detour     = flag.Float64("detour", 0.3, "max detour as a fraction")
		speed      = flag.Float64("speed", distance.DefaultStraightLineSpeed, "assumed speed in m/s")
	)
	flag.Parse()
	obs.Setup("warn", true)

	if err := run(*rosterPath, domain.Coordinates{Lat: *officeLat, Lon: *officeLon}, *capacity, *detour, *speed); err != nil {
		fmt.Fprintln(os.Stderr, "groupcheck:", err)
		os.Exit(1)
	}
}

func run(rosterPath string, office domain.Coordinates, capacity int, detour, speed float64) error {
	employees, err := repositories.LoadSeedFile(rosterPath)
	if err != nil {
		return err
	}

	locations := []domain.Coordinates{office}
	for i := range employees {
		employees[i].OriginalIdx = i + 1
		locations = append(locations, employees[i].Location)
	}

	provider := &distance.StraightLineProvider{SpeedMetersPerSecond: speed}
	matrix, err := provider.GetMatrix(context.Background(), locations)
	if err != nil {
		return err
	}

	grouping, err := services.GroupEmployees(employees, office, matrix, services.GroupingParams{
		VehicleCapacity:  capacity,
		MaxDetourPercent: detour,
	})
	if err != nil {
		return err
	}
	windows := services.BuildNodeTimeWindows(grouping.Nodes, matrix, detour)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tKIND\tDEMAND\tSERVICE_S\tWINDOW\tMEMBERS")
	for i, n := range grouping.Nodes {
		ids := make([]string, 0, len(n.Members()))
		for _, m := range n.Members() {
			ids = append(ids, m.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\t[%d, %d]\t%s\n",
			n.ID(), n.Kind(), n.Demand(), n.ServiceTime(),
			windows[i].Earliest, windows[i].Latest, strings.Join(ids, ","))
	}
	return tw.Flush()
}
