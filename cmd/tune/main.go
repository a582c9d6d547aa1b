package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/wallwalk/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 360, "Ticks per corner run")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	method := flag.String("method", "nelder-mead", "Optimizer: nelder-mead or cmaes")
	paramList := flag.String("params", strings.Join(DefaultParams, ","), "Comma-separated tunable paths")
	approachList := flag.String("approaches", "0,25,-25", "Comma-separated approach yaw offsets in degrees")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *outputDir, *method, *paramList, *approachList, *maxTicks, *maxEvals); err != nil {
		logger.Error("tuning failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir, methodName, paramList, approachList string, maxTicks, maxEvals int) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	params, err := NewParamVector(splitList(paramList))
	if err != nil {
		return err
	}
	approaches, err := parseFloats(splitList(approachList))
	if err != nil {
		return fmt.Errorf("approaches: %w", err)
	}
	method, err := newMethod(methodName, params.Dim())
	if err != nil {
		return err
	}

	evaluator := NewFitnessEvaluator(params, maxTicks, approaches, baseCfg)
	initX := params.Normalize(params.FromConfig(baseCfg))
	baseline := evaluator.Evaluate(params.FromConfig(baseCfg))
	slog.Info("baseline", "fitness", baseline)

	logPath := filepath.Join(outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	if err := logWriter.Write(append([]string{"eval", "fitness"}, params.Names()...)); err != nil {
		return fmt.Errorf("writing log header: %w", err)
	}

	evalCount := 0
	bestFitness := baseline
	bestParams := params.FromConfig(baseCfg)
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			row := []string{strconv.Itoa(evalCount), strconv.FormatFloat(fitness, 'f', 4, 64)}
			for _, v := range clamped {
				row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
			}
			logWriter.Write(row)
			logWriter.Flush()

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			slog.Info("eval",
				"n", evalCount,
				"fitness", fitness,
				"best", bestFitness,
				"elapsed", elapsed.Round(time.Second),
				"eta", remaining.Round(time.Second),
			)
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // scenarios already run in parallel
	}
	slog.Info("starting optimization",
		"method", methodName,
		"params", params.Dim(),
		"approaches", len(approaches),
		"max_evals", maxEvals,
	)
	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if err := logWriter.Error(); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}

	slog.Info("optimization complete",
		"evals", evalCount,
		"elapsed", time.Since(startTime).Round(time.Second),
		"baseline", baseline,
		"best", bestFitness,
	)
	for i, name := range params.Names() {
		slog.Info("best parameter", "path", name, "value", bestParams[i])
	}

	bestCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := params.ApplyToConfig(bestCfg, bestParams); err != nil {
		return fmt.Errorf("best parameters: %w", err)
	}
	configOutPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fragment, err := bestCfg.TunablesYAML(params.Specs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "best_tunables.yaml"), fragment, 0644); err != nil {
		return fmt.Errorf("writing tunables: %w", err)
	}
	slog.Info("best config saved", "path", configOutPath)
	return nil
}

// newMethod returns the named gonum optimizer.
func newMethod(name string, dim int) (optimize.Method, error) {
	switch name {
	case "nelder-mead":
		return &optimize.NelderMead{SimplexSize: 0.2}, nil
	case "cmaes":
		return &optimize.CmaEsChol{
			InitStepSize: 0.3,
			Population:   4 + 3*dim/2,
		}, nil
	default:
		return nil, fmt.Errorf("unknown method %q: want nelder-mead or cmaes", name)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(parts []string) ([]float64, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
