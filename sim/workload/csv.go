// Package workload loads customer records from CSV and generates synthetic workloads.
package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim"
)

// CSV column headers for customer files. The header row is optional on input.
var customerColumns = []string{
	"id", "name", "type", "service_time_minutes", "arrival_time_minutes",
}

// LoadCustomersCSV reads customer records from a CSV file.
func LoadCustomersCSV(path string) ([]*sim.Customer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening customer file: %w", err)
	}
	defer func() { _ = file.Close() }()

	customers, err := ReadCustomers(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return customers, nil
}

// ReadCustomers parses CSV rows of id,name,type,service_time_minutes,arrival_time_minutes.
// The first row is treated as a header when it has all five columns and its arrival
// column is not numeric. Rows with fewer than five columns are skipped with a warning;
// any other malformed row, or a repeated id, is an error naming its line.
func ReadCustomers(r io.Reader) ([]*sim.Customer, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var customers []*sim.Customer
	idLines := make(map[string]int)
	for first := true; ; first = false {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if first && isHeaderRow(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(row) < len(customerColumns) {
			logrus.Warnf("skipping CSV line %d: %d columns, expected %d", line, len(row), len(customerColumns))
			continue
		}
		c, err := parseCustomer(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if prev, dup := idLines[c.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate id %q (first on line %d)", line, c.ID, prev)
		}
		idLines[c.ID] = line
		customers = append(customers, c)
	}
	return customers, nil
}

func isHeaderRow(row []string) bool {
	if len(row) < len(customerColumns) {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	return err != nil
}

func parseCustomer(row []string) (*sim.Customer, error) {
	id := strings.TrimSpace(row[0])
	category, ok := sim.ParseCategory(row[2])
	if !ok {
		return nil, fmt.Errorf("customer %q: unknown type %q", id, row[2])
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("customer %q: invalid service time %q: %w", id, row[3], err)
	}
	arrival, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return nil, fmt.Errorf("customer %q: invalid arrival time %q: %w", id, row[4], err)
	}
	return sim.NewCustomer(id, strings.TrimSpace(row[1]), category, duration, arrival), nil
}

// WriteCustomersCSV writes customers with a header row, in the format ReadCustomers accepts.
func WriteCustomersCSV(w io.Writer, customers []*sim.Customer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(customerColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, c := range customers {
		row := []string{
			c.ID,
			c.Name,
			string(c.Category),
			strconv.FormatFloat(c.ServiceDuration, 'f', -1, 64),
			strconv.FormatFloat(c.ArrivalTime, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", c.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
