// Command trailctl is the CLI adapter over pkg/world: it ingests GPX files
// into a throwaway World and answers routing queries against it. There is
// no persistence format; every invocation rebuilds the world from the GPX
// files named on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jburns/trailnet/pkg/world"
)

var (
	cfgFile  string
	maxHDOP  float64
	maxDist  float64
	quantile float64
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "trailctl",
		Short: "Learn a personal transport network from GPS tracks and query it",
		Long: `trailctl ingests recorded GPS trackpoints and named waypoints from GPX
files, learns a directed weighted graph of travel times between waypoints,
and answers quantile-weighted fastest-path and single-source-period
queries against it.

Examples:
  trailctl ingest trip1.gpx trip2.gpx
  trailctl route trip1.gpx trip2.gpx --from alice --to bob
  trailctl periods trip1.gpx trip2.gpx --from alice --quantile 0.5`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./trailctl.yaml)")
	root.PersistentFlags().Float64Var(&maxHDOP, "max-hdop", world.DefaultConfig().MaxHDOP, "discard trackpoints with accuracy worse than this")
	root.PersistentFlags().Float64Var(&maxDist, "max-dist", world.DefaultConfig().MaxDist, "metres; nearest-waypoint search radius")
	root.PersistentFlags().Float64Var(&quantile, "quantile", world.DefaultQuantile, "quantile of observed travel times to optimise")

	viper.BindPFlag("max-hdop", root.PersistentFlags().Lookup("max-hdop"))
	viper.BindPFlag("max-dist", root.PersistentFlags().Lookup("max-dist"))
	viper.BindPFlag("quantile", root.PersistentFlags().Lookup("quantile"))

	root.AddCommand(newIngestCommand())
	root.AddCommand(newRouteCommand())
	root.AddCommand(newPeriodsCommand())

	return root
}

// initConfig wires viper to read TRAILCTL_* environment variables and an
// optional YAML config file, flags taking precedence over both.
func initConfig() {
	viper.SetEnvPrefix("TRAILCTL")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trailctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "trailctl: reading config: %v\n", err)
		}
	}
}

// worldConfig resolves the effective MaxHDOP/MaxDist, honouring whichever
// of flag, env, or config file viper resolved (flags win via BindPFlag).
func worldConfig() world.Config {
	return world.Config{
		MaxHDOP: viper.GetFloat64("max-hdop"),
		MaxDist: viper.GetFloat64("max-dist"),
	}
}

// resolvedQuantile resolves --quantile the same way.
func resolvedQuantile() float64 {
	return viper.GetFloat64("quantile")
}

func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
