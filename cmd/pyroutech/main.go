// Command pyroutech is the interactive console front-end for the journey
// planner: prompt for a station pair and a date/time, print the best
// journeys, loop.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pyroutech.ch/internal/analysis"
	"pyroutech.ch/internal/config"
	"pyroutech.ch/internal/feedstore"
	"pyroutech.ch/internal/format"
	"pyroutech.ch/internal/logging"
	"pyroutech.ch/internal/query"
)

func main() {
	configPath := scanConfigFlag(os.Args[1:])
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	flag.String("config", configPath, "optional YAML config file")
	config.RegisterFlags(flag.CommandLine, &cfg)
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.SlogLevel(), false)

	if args := flag.Args(); len(args) > 0 && args[0] == "report" {
		runReport(cfg, args[1:])
		return
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println(" PyRouteCH - public transit journey planner")
	fmt.Println(strings.Repeat("=", 50))

	fs, err := feedstore.Load(cfg.GTFSDir, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load GTFS feed:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := query.Options{
		MaxRoutes:      cfg.DefaultMaxRoutes,
		MinTransferSec: cfg.MinTransferSec,
		LabelsPerStop:  cfg.LabelsPerStop,
		LookbackSec:    cfg.LookbackSec,
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			os.Exit(130)
		default:
		}

		start, end, date, clock, ok := promptJourney(reader)
		if !ok {
			return
		}

		journeys, err := query.Find(ctx, fs, start, end, date, clock, opts)
		if err != nil {
			fmt.Println("Error:", err)
		} else if len(journeys) == 0 {
			fmt.Println("No journey found.")
		} else {
			for _, j := range journeys {
				fmt.Println(format.Journey(j, start, end))
			}
		}

		if !promptAgain(reader) {
			return
		}
	}
}

// promptJourney reads a station pair and an optional date/time, defaulting
// the date/time to now when left blank.
func promptJourney(reader *bufio.Reader) (start, end, date, clock string, ok bool) {
	start, ok = prompt(reader, "From station: ")
	if !ok {
		return
	}
	end, ok = prompt(reader, "To station: ")
	if !ok {
		return
	}

	now := time.Now()
	dateInput, ok := prompt(reader, fmt.Sprintf("Date [%s]: ", now.Format("2006-01-02")))
	if !ok {
		return
	}
	if dateInput == "" {
		dateInput = now.Format("2006-01-02")
	}

	clockInput, ok := prompt(reader, fmt.Sprintf("Time [%s]: ", now.Format("15:04")))
	if !ok {
		return
	}
	if clockInput == "" {
		clockInput = now.Format("15:04")
	}

	return start, end, dateInput, clockInput, true
}

func promptAgain(reader *bufio.Reader) bool {
	answer, ok := prompt(reader, "Plan another journey? [y/N]: ")
	if !ok {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// scanConfigFlag extracts -config/--config's value from argv without going
// through the flag package, so the config file can be loaded before the
// rest of the flags (whose defaults depend on it) are registered.
func scanConfigFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func prompt(reader *bufio.Reader, label string) (string, bool) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func runReport(cfg config.Config, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: pyroutech report [busiest-stops|overnight|fastest-per-hour]")
		os.Exit(2)
	}

	fs, err := feedstore.Load(cfg.GTFSDir, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load GTFS feed:", err)
		os.Exit(1)
	}

	switch args[0] {
	case "busiest-stops":
		for _, row := range analysis.TopFrequentedStops(fs, 10) {
			fmt.Printf("%-30s %d\n", row.StopName, row.Frequency)
		}
	case "overnight":
		for _, row := range analysis.OvernightConnections(fs, 10) {
			fmt.Printf("%-10s %-30s %s -> %s (%s)\n", row.TripID, row.StopName,
				format.SecondsToClock(row.DepartureSec), format.SecondsToClock(row.ArrivalSec), row.RouteShortName)
		}
	case "fastest-per-hour":
		for _, row := range analysis.FastestDirectConnectionPerHour(fs) {
			fmt.Printf("%02d:00  %3d min  %s\n", row.DepartureHour, row.DurationMinutes, row.RouteShortName)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown report:", args[0])
		os.Exit(2)
	}
}
