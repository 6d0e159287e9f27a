package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jburns/trailnet/pkg/world"
)

func newPeriodsCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "periods <file.gpx>...",
		Short: "Print the name->seconds period table reachable from a waypoint",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := world.New(worldConfig())
			if err := ingestFiles(w, args); err != nil {
				return err
			}

			periods, err := w.SingleSourcePeriods(from, resolvedQuantile())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(periods))
			for name := range periods {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				if periods[names[i]] != periods[names[j]] {
					return periods[names[i]] < periods[names[j]]
				}
				return names[i] < names[j]
			})

			for _, name := range names {
				fmt.Printf("%-20s %ds\n", name, periods[name])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source waypoint name")
	cmd.MarkFlagRequired("from")

	return cmd
}
