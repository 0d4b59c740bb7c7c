// Command ttp runs the heuristic line-up on one instance file and prints
// per-heuristic metrics and the best solution found.
//
//	ttp [-seed N] [-heuristics nn-2opt,pnn-2opt] [-temps 0.3,0.5] [-max-passes 100] [-json] <instance-file>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/api/dto"
	"ttp-solver-service/internal/config"
	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/platform/logging"
	"ttp-solver-service/internal/services"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ttp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ttp [flags] <instance-file>")
		fs.PrintDefaults()
	}

	seed := fs.Int64("seed", 1, "base seed for the stochastic heuristics")
	heuristics := fs.String("heuristics", strings.Join(services.DefaultHeuristicKeys, ","),
		"comma separated heuristic keys: "+strings.Join(services.Catalog{}.Keys(), ", "))
	temps := fs.String("temps", formatFloats(services.DefaultTemperatures), "comma separated temperatures for pnn-2opt")
	maxPasses := fs.Int("max-passes", services.DefaultTwoOptMaxPasses, "2-opt pass cap")
	format := fs.String("format", "", "instance format (ttp, compact, json); detected when empty")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	logLevel := fs.String("log-level", config.Get("LOG_LEVEL", "warn"), "progress log level")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	logger := logging.NewWithWriter(logging.Config{Service: "ttp", Level: *logLevel}, stderr)
	slog.SetDefault(logger)

	temperatures, err := parseFloats(*temps)
	if err != nil {
		fmt.Fprintf(stderr, "ttp: -temps: %v\n", err)
		return 2
	}

	inst, err := loadInstance(fs.Arg(0), reader.Format(*format))
	if err != nil {
		fmt.Fprintf(stderr, "ttp: %v\n", err)
		return 1
	}

	solver := services.NewSolver(services.SolveOptions{}, services.WithSolverLogger(logger))
	report, err := solver.Solve(ctx, inst, services.SolveOptions{
		Heuristics:   splitList(*heuristics),
		Temperatures: temperatures,
		Seed:         *seed,
		MaxPasses:    *maxPasses,
	})
	if report != nil {
		if *asJSON {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(dto.NewReportResponse(report)); encErr != nil {
				fmt.Fprintf(stderr, "ttp: %v\n", encErr)
				return 1
			}
		} else {
			PrintReport(stdout, report)
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, services.ErrNoValidSolution):
		fmt.Fprintln(stderr, "ttp: no valid solution found")
		return 1
	default:
		fmt.Fprintf(stderr, "ttp: %v\n", err)
		return 1
	}
}

func loadInstance(path string, format reader.Format) (*domain.Instance, error) {
	if format == "" {
		return reader.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read instance %q: %w", path, err)
	}
	defer f.Close()

	base := filepath.Base(path)
	inst, err := reader.Decode(f, format, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("read instance %q: %w", path, err)
	}
	return inst, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
