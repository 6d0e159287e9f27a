package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jburns/trailnet/pkg/geo"
	"github.com/jburns/trailnet/pkg/world"
)

func newRouteCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "route <file.gpx>...",
		Short: "Print the fastest path between two waypoints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := world.New(worldConfig())
			if err := ingestFiles(w, args); err != nil {
				return err
			}

			q := resolvedQuantile()
			path, err := w.FastestPath(from, to, q)
			if err != nil {
				return err
			}

			attrs := w.Graph().Vertices()
			for i, v := range path {
				label := v.Here
				if v.IsSplit() {
					label = fmt.Sprintf("%s (%s->%s)", v.Here, v.From, v.To)
				}
				fmt.Println(label)
				if i > 0 {
					a, aOK := attrs[path[i-1]]
					b, bOK := attrs[v]
					if aOK && bOK {
						fmt.Printf("  straight-line: %.0fm\n", geo.Haversine(a.Lat, a.Lon, b.Lat, b.Lon))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source waypoint name")
	cmd.Flags().StringVar(&to, "to", "", "destination waypoint name")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}
