// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"career-workers/pkg/registry"
)

func main() {
	activity := flag.String("activity", "", "Activity ID from the registry (e.g., rank-careers)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "configs/task-registry.json", "Path to the task registry JSON file")
	force := flag.Bool("force", false, "Overwrite files that already exist")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>] [-force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/worker-generator -activity rank-careers")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}
	act, ok := reg.Find(*activity)
	if !ok {
		fmt.Fprintf(os.Stderr, "Activity '%s' not found in %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	files, err := render(newWorkerData(act))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", act.ID, err)
		os.Exit(1)
	}

	dir := filepath.Join(*outputDir, categoryDir(act.Category), act.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
		os.Exit(1)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Printf("skipped %s (exists)\n", path)
			continue
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("generated %s\n", path)
	}

	fmt.Printf("\nWorker scaffold for %s written to %s\n", act.TaskType, dir)
	fmt.Println("Next steps:")
	fmt.Println("  1. Implement execute in handler.go")
	fmt.Println("  2. Add an input schema to internal/common/validation/schemas.go")
	fmt.Println("  3. Start the worker in cmd/worker-manager/main.go")
	fmt.Printf("  4. Add workers.%s to configs/config.yaml\n", act.TaskType)
	fmt.Printf("  5. registry-updater update -id %s -field status -value in-progress\n", act.ID)
}

func categoryDir(category string) string {
	switch category {
	case "", "business-logic":
		return "career"
	default:
		return strings.ToLower(category)
	}
}
