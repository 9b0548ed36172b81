package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/workload"
)

var (
	// CLI flags for the generate command
	genCount          int     // Number of customers
	genSeed           int64   // RNG seed
	genOutput         string  // Destination CSV; "-" writes to stdout
	genArrivalProcess string  // poisson, gamma, constant
	genArrivalRate    float64 // Customers per minute
	genArrivalCV      float64 // Gamma coefficient of variation
	genMeanService    float64 // Mean service minutes
	genCorporate      float64 // Corporate mix weight
	genPreferred      float64 // Preferred mix weight
	genRegular        float64 // Regular mix weight
)

// generateCmd writes a synthetic customer CSV that `run` can consume.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic customer CSV",
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateCustomers(os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func generateConfigFromFlags() workload.GeneratorConfig {
	return workload.GeneratorConfig{
		Count:          genCount,
		Seed:           genSeed,
		ArrivalProcess: genArrivalProcess,
		ArrivalRate:    genArrivalRate,
		ArrivalCV:      genArrivalCV,
		MeanService:    genMeanService,
		Mix: map[sim.Category]float64{
			sim.CategoryCorporate: genCorporate,
			sim.CategoryPreferred: genPreferred,
			sim.CategoryRegular:   genRegular,
		},
	}
}

// generateCustomers writes the generated CSV to genOutput, or to stdout for "-".
func generateCustomers(stdout io.Writer) error {
	customers, err := workload.Generate(generateConfigFromFlags())
	if err != nil {
		return err
	}
	if genOutput == "-" {
		return workload.WriteCustomersCSV(stdout, customers)
	}
	file, err := os.Create(genOutput)
	if err != nil {
		return fmt.Errorf("creating %s: %w", genOutput, err)
	}
	if err := workload.WriteCustomersCSV(file, customers); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", genOutput, err)
	}
	logrus.Infof("Wrote %d customers to %s", len(customers), genOutput)
	return nil
}

func init() {
	generateCmd.Flags().IntVar(&genCount, "count", 100, "Number of customers to generate")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 42, "Seed for random customer generation")
	generateCmd.Flags().StringVar(&genOutput, "output", "customers.csv", "Output CSV path (- for stdout)")
	generateCmd.Flags().StringVar(&genArrivalProcess, "arrival", "poisson", "Arrival process: poisson, gamma, constant")
	generateCmd.Flags().Float64Var(&genArrivalRate, "rate", 0.5, "Customer arrivals per minute")
	generateCmd.Flags().Float64Var(&genArrivalCV, "cv", 2.0, "Inter-arrival coefficient of variation (gamma only)")
	generateCmd.Flags().Float64Var(&genMeanService, "mean-service", 1.8, "Mean service time in minutes")
	generateCmd.Flags().Float64Var(&genCorporate, "corporate-weight", 0.1, "Relative weight of corporate customers")
	generateCmd.Flags().Float64Var(&genPreferred, "preferred-weight", 0.2, "Relative weight of preferred customers")
	generateCmd.Flags().Float64Var(&genRegular, "regular-weight", 0.7, "Relative weight of regular customers")
}
