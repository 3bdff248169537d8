// cmd/tools/registry-updater/main.go

// registry-updater exports the built-in activity registry to JSON for
// process designers and validates externally maintained registry files
// against the task types this binary actually serves.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"assessment-workers/pkg/registry"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportPath := exportCmd.String("path", "configs/activity-registry.json", "Output path for the registry file")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", "configs/activity-registry.json", "Path to the registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := export(*exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry exported to %s\n", *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validate(*validatePath); err != nil {
			fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry %s is valid\n", *validatePath)

	default:
		help()
		os.Exit(1)
	}
}

func export(path string) error {
	reg := registry.Default()
	reg.LastUpdated = time.Now().UTC().Format("2006-01-02")

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func validate(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return err
	}

	known := registry.Default()
	seen := map[string]bool{}
	for _, a := range reg.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %q has no task type", a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate task type %q", a.TaskType)
		}
		seen[a.TaskType] = true

		if known.Find(a.TaskType) == nil {
			return fmt.Errorf("task type %q is not served by this binary", a.TaskType)
		}
	}
	return nil
}

func help() {
	fmt.Println("Usage: registry-updater <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export    Write the built-in activity registry to a JSON file")
	fmt.Println("  validate  Check a registry file against the served task types")
}
