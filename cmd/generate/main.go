package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/eod-backtest/internal/config"
	"github.com/rxtech-lab/eod-backtest/internal/strategy"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "eod-backtest-config.json"
	sampleConfigName = "eod-backtest-config.yaml"
)

// sampleConfig is the starting point written next to the schema.
func sampleConfig() config.BacktestConfig {
	c := config.Default()
	c.Symbol = "SPY"
	c.SeriesPath = "data/SPY.csv"
	c.InitialCapital = 10000
	c.Strategy.Name = strategy.EOMName

	return c
}

func validateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("schema name %q must have .json extension", name)
	}

	return nil
}

func getSchemaReference(name string) string {
	return "# yaml-language-server: $schema=" + name + "\n"
}

func generateSchemaFile(c config.BacktestConfig, path string) error {
	schemaJSON, err := c.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	return nil
}

// generateSampleConfig writes the sample config unless path already exists.
func generateSampleConfig(c config.BacktestConfig, path string, schema string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schema)), yamlBytes...)
	if err := os.WriteFile(path, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config: %w", err)
	}

	return nil
}

func main() {
	if err := validateSchemaName(schemaName); err != nil {
		log.Fatal(err)
	}

	c := sampleConfig()
	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", sampleConfigName)

	if err := generateSchemaFile(c, schemaPath); err != nil {
		log.Fatal(err)
	}

	if err := generateSampleConfig(c, sampleConfigPath, schemaName); err != nil {
		log.Fatal(err)
	}

	log.Printf("Schema generated at %s, sample config at %s", schemaPath, sampleConfigPath)
}
