// Package main measures the end-to-end latency of the destiny CLI.
// It runs each command several times per session backend, treating the first
// successful run as cold and averaging the rest as warm, and writes a CSV report.
//
// Prerequisites:
// - destiny binary installed and available in PATH
//
// Usage: go run benchmark/main.go [runs]
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// BenchmarkResult holds the timings of one command on one session backend.
type BenchmarkResult struct {
	Command  string
	Backend  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout  time.Duration
	Runs     int
	Backends []string
	Commands map[string][]string
	Order    []string
}

func main() {
	runs := 5
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 2 {
			fmt.Printf("Usage: %s [runs >= 2]\n", os.Args[0])
			os.Exit(1)
		}
		runs = n
	}

	config := BenchmarkConfig{
		Timeout:  30 * time.Second,
		Runs:     runs,
		Backends: []string{"none", "sqlite"},
		Commands: map[string][]string{
			"signs":   {"signs", "--output", "json"},
			"match":   {"match", "aries", "leo", "--output", "json", "--seed", "1"},
			"session": {"session", "show", "--output", "json"},
		},
		Order: []string{"signs", "match", "session"},
	}

	if _, err := exec.LookPath("destiny"); err != nil {
		fmt.Printf("Prerequisites check failed: destiny binary not found in PATH\n")
		os.Exit(1)
	}

	// Start from an empty session store
	fmt.Printf("Clearing sessions...\n")
	clearCmd := exec.Command("destiny", "session", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear sessions: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every command on every backend.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d commands, %d backends, %d runs, %v timeout\n",
		len(config.Order), len(config.Backends), config.Runs, config.Timeout)

	for _, name := range config.Order {
		for _, backend := range config.Backends {
			cold, warm := runBenchmark(config, config.Commands[name], backend)
			result := BenchmarkResult{Command: name, Backend: backend, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
			if cold > 0 {
				result.ColdTime = fmt.Sprintf("%.3fs", cold)
			}
			if len(warm) > 0 {
				var sum float64
				for _, t := range warm {
					sum += t
				}
				result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
			}
			fmt.Printf("  %-8s %-7s cold: %s, warm: %s\n", name, backend, result.ColdTime, result.WarmTime)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmark runs one command numRuns times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, args []string, backend string) (coldTime float64, warmTimes []float64) {
	args = append(append([]string{}, args...), "--session-backend", backend)

	var times []float64
	for range config.Runs {
		start := time.Now()
		cmd := exec.Command("destiny", args...)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.Output()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/destiny_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "session_backend", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.Backend, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by backend.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, backend := range []string{"none", "sqlite"} {
		fmt.Printf("Session backend %s:\n", backend)
		for _, result := range results {
			if result.Backend == backend {
				fmt.Printf("  %-8s: Cold: %s, Warm: %s\n", result.Command, result.ColdTime, result.WarmTime)
			}
		}
	}
}
