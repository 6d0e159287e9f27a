package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jburns/trailnet/pkg/world"
)

func newIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file.gpx>...",
		Short: "Load GPX files and print a summary of what was learned",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := world.New(worldConfig())
			if err := ingestFiles(w, args); err != nil {
				return err
			}
			if err := w.Build(); err != nil {
				return err
			}
			zone, _ := w.Zone()
			log.Printf("ingested %d trackpoints, %d waypoints across %d file(s)",
				w.NumTrackpoints(), w.NumWaypoints(), len(args))
			log.Printf("detected UTM zone %d%c", zone.Number, zone.Letter)
			return nil
		},
	}
	return cmd
}

// ingestFiles opens and ingests every named GPX file into w, in order.
func ingestFiles(w *world.World, paths []string) error {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = w.Ingest(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
