// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"career-workers/pkg/registry"
)

const defaultRegistryPath = "configs/task-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "help", "-h", "--help":
		help()
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInit(args []string) error {
	cmd := flag.NewFlagSet("init", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	force := cmd.Bool("force", false, "Overwrite an existing registry")
	_ = cmd.Parse(args)

	if _, err := os.Stat(*path); err == nil && !*force {
		return fmt.Errorf("%s already exists, use -force to overwrite", *path)
	}
	reg := registry.Careers(time.Now())
	if err := registry.Save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Wrote %d activities to %s\n", len(reg.Activities), *path)
	return nil
}

func runAdd(args []string) error {
	cmd := flag.NewFlagSet("add", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	id := cmd.String("id", "", "Activity ID (e.g., rank-careers)")
	displayName := cmd.String("displayName", "", "Display Name (e.g., Rank Careers)")
	description := cmd.String("description", "", "Description")
	category := cmd.String("category", "career", "Category (career, data-access)")
	taskType := cmd.String("taskType", "", "Zeebe task type; defaults to the ID")
	version := cmd.String("version", "1.0.0", "Version")
	status := cmd.String("status", registry.StatusPlanned, "Implementation status (planned, in-progress, completed, verified)")
	timeout := cmd.String("timeout", "10s", "Job timeout")
	_ = cmd.Parse(args)

	if *id == "" || *displayName == "" || *description == "" {
		cmd.Usage()
		return fmt.Errorf("id, displayName and description are required for add")
	}
	if *taskType == "" {
		*taskType = *id
	}

	reg, err := registry.LoadRegistry(*path)
	if os.IsNotExist(err) {
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	} else if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	err = reg.Add(registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputVariables:      []string{},
		ErrorCodes:           []string{},
		Timeout:              *timeout,
		Tags:                 []string{},
	}, time.Now())
	if err != nil {
		return err
	}
	if err := registry.Save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	cmd := flag.NewFlagSet("update", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	id := cmd.String("id", "", "Activity ID to update")
	field := cmd.String("field", "", "Field to update (status, version, timeout, retries, ...)")
	value := cmd.String("value", "", "New value for the field")
	_ = cmd.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		cmd.Usage()
		return fmt.Errorf("id, field and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Update(*id, *field, *value, time.Now()); err != nil {
		return err
	}
	if err := registry.Save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	cmd := flag.NewFlagSet("validate", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	_ = cmd.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  init     Write the registry for the career workers
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file (schemas, error codes, timeouts)
  help     Show this help message

Examples:
  registry-updater init -path configs/task-registry.json
  registry-updater add -id rank-careers -displayName "Rank Careers" -description "Orders matches by demand"
  registry-updater update -id rank-careers -field status -value in-progress
  registry-updater validate -path configs/task-registry.json

Use 'registry-updater <command> -h' for more information about a command.`)
}
