// Package main provides the offline run evaluation tool. It replays a
// run file through a model, assembles the forecast and ground-truth
// fields, and prints error statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"time"

	"github.com/stormlab/geomag-api/internal/adapter/export"
	"github.com/stormlab/geomag-api/internal/adapter/model"
	"github.com/stormlab/geomag-api/internal/adapter/store/csv"
	"github.com/stormlab/geomag-api/internal/adapter/store/netcdf"
	"github.com/stormlab/geomag-api/internal/domain"
	"github.com/stormlab/geomag-api/internal/usecase"
)

const version = "0.1.0"

func main() {
	runPath := flag.String("run", "", "Path to the run NetCDF file (required)")
	modelName := flag.String("model", model.PrecomputedName, "Model to evaluate")
	batchSize := flag.Int("batch", 256, "Batch size in timesteps")
	scalersPath := flag.String("scalers", "", "CSV file overriding the run's embedded scalers")
	parquetPath := flag.String("parquet", "", "Write the assembled run to this Parquet file")
	peaks := flag.Bool("peaks", false, "Report the peak horizontal disturbance per station")
	minPeak := flag.Float64("min-peak", 50.0, "Minimum peak height in nT for the peak report")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("geomag-evaluate version %s\n", version)
		return
	}
	if *runPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -run is required")
		fmt.Fprintf(os.Stderr, "Available models: %v\n", model.Names())
		flag.Usage()
		os.Exit(2)
	}

	run, err := netcdf.Load(*runPath)
	if err != nil {
		log.Fatalf("Failed to load run file: %v", err)
	}
	log.Printf("Run loaded: nmax=%d, %d timesteps, %d stations", run.Nmax, len(run.Times), run.Stations())

	scalers := run.Scalers
	if *scalersPath != "" {
		log.Printf("Loading scaler overrides from %s", *scalersPath)
		scalers, err = csv.LoadScalers(*scalersPath)
		if err != nil {
			log.Fatalf("Failed to load scalers: %v", err)
		}
	}

	components := make([]string, 0, len(run.Targets))
	for comp := range run.Targets {
		components = append(components, comp)
	}
	sort.Strings(components)

	times := make([]int64, len(run.Times))
	for i, t := range run.Times {
		times[i] = t.Unix()
	}
	mdl, err := model.New(*modelName, model.Config{
		Nmax:         run.Nmax,
		Components:   components,
		Coefficients: run.Coefficients,
		Times:        times,
	})
	if err != nil {
		log.Fatalf("Failed to initialize model: %v", err)
	}

	assembler, err := usecase.NewAssembler(usecase.RunConfig{
		Nmax:            run.Nmax,
		Components:      components,
		Scalers:         scalers,
		StationCapacity: run.Stations(),
	}, mdl)
	if err != nil {
		log.Fatalf("Failed to configure run: %v", err)
	}

	source, err := run.Batches(*batchSize)
	if err != nil {
		log.Fatalf("Failed to open batch source: %v", err)
	}

	start := time.Now()
	result, err := assembler.Run(source)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}
	log.Printf("Assembled %s forecast in %v", mdl.Name(), time.Since(start).Round(time.Millisecond))

	summary, err := usecase.Evaluate(result)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	printSummary(summary)

	if *parquetPath != "" {
		if err := export.WriteRun(*parquetPath, result, components); err != nil {
			log.Fatalf("Parquet export failed: %v", err)
		}
		log.Printf("Wrote %s", *parquetPath)
	}

	if *peaks {
		printPeaks(result, *minPeak)
	}
}

// printSummary prints the per-component error table.
func printSummary(summary *usecase.RunSummary) {
	fmt.Printf("%-12s %10s %10s %10s\n", "component", "MAE nT", "RMSE nT", "bias nT")
	for _, cs := range summary.Components {
		fmt.Printf("%-12s %10.2f %10.2f %10.2f\n", cs.Component, cs.MAE, cs.RMSE, cs.Bias)
	}
	if summary.Horizontal != nil {
		h := summary.Horizontal
		fmt.Printf("%-12s %10.2f %10.2f %10.2f\n", h.Component, h.MAE, h.RMSE, h.Bias)
	}

	fmt.Println()
	fmt.Println("per-station MAE nT:")
	for _, cs := range summary.Components {
		fmt.Printf("  %-10s", cs.Component)
		for _, mae := range cs.PerStationMAE {
			fmt.Printf(" %8.2f", mae)
		}
		fmt.Println()
	}
}

// printPeaks reports the refined peak of the predicted horizontal
// disturbance for each station slot.
func printPeaks(result *usecase.RunResult, minPeak float64) {
	north, okN := result.Components[domain.ComponentNorth]
	east, okE := result.Components[domain.ComponentEast]
	if !okN || !okE {
		log.Printf("Peak report needs both %s and %s", domain.ComponentNorth, domain.ComponentEast)
		return
	}

	fmt.Println()
	fmt.Printf("peak horizontal disturbance (>= %.0f nT):\n", minPeak)
	for station := 0; station < result.StationCapacity; station++ {
		n := usecase.StationSeries(north.Pred, station)
		e := usecase.StationSeries(east.Pred, station)
		h := domain.HorizontalMagnitude(n, e)

		found := domain.FindPeaks(north.Times, h, minPeak)
		if len(found) == 0 {
			fmt.Printf("  station %2d: no peak above threshold\n", station)
			continue
		}
		best := found[0]
		for _, p := range found[1:] {
			if p.Value > best.Value {
				best = p
			}
		}
		if math.IsNaN(best.Value) {
			continue
		}
		fmt.Printf("  station %2d: %8.1f nT at %s\n", station, best.Value, best.Time.UTC().Format(time.RFC3339))
	}
}
