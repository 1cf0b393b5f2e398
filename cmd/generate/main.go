package main

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/deltrader-lab/deltrader/internal/backtest"
)

func main() {
	config := backtest.EmptyConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	schemaName := "backtest-config.json"
	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", "backtest.yaml")

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		log.Fatalf("Failed to write schema to file: %v", err)
	}

	// Seed a sample config next to the schema unless one already exists.
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(backtest.TestConfig())
		if err != nil {
			log.Fatalf("Failed to marshal sample config to yaml: %v", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			log.Fatalf("Failed to write sample config to file: %v", err)
		}

		log.Printf("Sample config successfully generated at %s", sampleConfigPath)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)
}
