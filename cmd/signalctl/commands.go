package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iliyamo/lagos-signal-directory/internal/config"
	"github.com/iliyamo/lagos-signal-directory/internal/database"
	"github.com/iliyamo/lagos-signal-directory/internal/directory"
	"github.com/iliyamo/lagos-signal-directory/internal/lookup"
	"github.com/iliyamo/lagos-signal-directory/internal/model"
)

// state holds the persistent flags shared by every subcommand.
type state struct {
	file   string
	source string
}

// load builds the directory the flags (or the environment) point at.
// Unlike the server, a failed load is an error here.
func (s *state) load(ctx context.Context) (*directory.Directory, directory.Report, error) {
	cfg := config.Config{Source: config.SourceFile, DataFile: "data/locations.json"}
	if s.file == "" || (s.source != "" && s.source != config.SourceFile) {
		cfg = config.Load()
	}
	if s.source != "" {
		cfg.Source = strings.ToLower(s.source)
	}
	if s.file != "" {
		cfg.DataFile = s.file
	}
	switch cfg.Source {
	case config.SourceFile:
		return directory.LoadFile(cfg.DataFile)
	case config.SourceMySQL, config.SourcePostgres:
		db, err := database.OpenFromConfig(cfg)
		if err != nil {
			return nil, directory.Report{}, err
		}
		defer db.Close()
		return directory.LoadSQL(ctx, db, cfg.DBTable)
	}
	return nil, directory.Report{}, fmt.Errorf("unknown source %q", cfg.Source)
}

func (s *state) dir(cmd *cobra.Command) (*directory.Directory, error) {
	d, _, err := s.load(cmd.Context())
	return d, err
}

// locationsSubcommand returns the locations subcommand.
func locationsSubcommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List every location in stored order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := s.dir(cmd)
			if err != nil {
				return err
			}
			for _, name := range lookup.AllLocations(d) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// signalSubcommand returns the signal subcommand.
func signalSubcommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "signal <location> [network]",
		Short: "Show readings for a location, or one network at it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := s.dir(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 2 {
				sig, err := lookup.GetSignal(d, args[0], args[1])
				if err != nil {
					return describeMiss(err)
				}
				fmt.Fprintf(out, "%s\t%s\t%g\n", sig.Location, sig.Network, sig.Strength)
				return nil
			}
			entry, err := lookup.GetLocation(d, args[0])
			if err != nil {
				return describeMiss(err)
			}
			fmt.Fprintln(out, entry.Name)
			return writeReadings(out, entry.Readings)
		},
	}
}

// searchSubcommand returns the search subcommand.
func searchSubcommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find locations whose name contains query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := s.dir(cmd)
			if err != nil {
				return err
			}
			matches := lookup.Search(d, args[0])
			if len(matches) == 0 {
				return fmt.Errorf("no locations found matching: %s", strings.ToLower(args[0]))
			}
			out := cmd.OutOrStdout()
			for _, e := range matches {
				pairs := make([]string, 0, len(e.Readings))
				for _, r := range e.Readings {
					pairs = append(pairs, fmt.Sprintf("%s=%g", r.Network, r.Strength))
				}
				fmt.Fprintf(out, "%s\t%s\n", e.Name, strings.Join(pairs, " "))
			}
			return nil
		},
	}
}

// summarySubcommand returns the summary subcommand.
func summarySubcommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <location>",
		Short: "Rate every network at a location and show the average",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := s.dir(cmd)
			if err != nil {
				return err
			}
			entry, err := lookup.GetLocation(d, args[0])
			if err != nil {
				return describeMiss(err)
			}
			sum := lookup.Summarize(entry)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: average %g (%s)\n", sum.Location, sum.Average, sum.Quality)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range sum.Networks {
				fmt.Fprintf(tw, "%s\t%g\t%s\t%s\n", r.Network, r.Strength, r.Quality, strings.Repeat("|", r.Bars))
			}
			return tw.Flush()
		},
	}
}

// validateSubcommand returns the validate subcommand.  It fails when any
// entry was quarantined.
func validateSubcommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the snapshot and report quarantined entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, rep, err := s.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "loaded %d locations, %d quarantined\n", rep.Loaded, len(rep.Quarantined))
			for _, q := range rep.Quarantined {
				fmt.Fprintf(out, "  %q: %s\n", q.Location, q.Reason)
			}
			if len(rep.Quarantined) > 0 {
				return fmt.Errorf("%d entries quarantined", len(rep.Quarantined))
			}
			return nil
		},
	}
}

func writeReadings(w io.Writer, readings []model.NetworkReading) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range readings {
		fmt.Fprintf(tw, "  %s\t%g\n", r.Network, r.Strength)
	}
	return tw.Flush()
}

// describeMiss turns a lookup miss into the same wording the API uses.
func describeMiss(err error) error {
	var nf *lookup.NotFoundError
	if !errors.As(err, &nf) {
		return err
	}
	if nf.Kind == lookup.KindNetwork {
		return fmt.Errorf("no data found for network: %s in %s (available: %s)",
			nf.Input, nf.Location, strings.Join(nf.Available, ", "))
	}
	return fmt.Errorf("no data found for location: %s", nf.Input)
}
