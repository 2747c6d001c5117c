package main

import (
	"fmt"
	"strings"

	"wealth-planner/pkg/registry"

	"github.com/spf13/cobra"
)

var registryPath string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the service tasks the worker-manager serves",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Planning()
		if registryPath != "" {
			var err error
			if reg, err = registry.LoadRegistry(registryPath); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		for _, a := range reg.Activities {
			fmt.Fprintf(out, "%s (%s)\n", a.TaskType, a.DisplayName)
			fmt.Fprintf(out, "  in:  %s\n", strings.Join(a.InputVariables, ", "))
			fmt.Fprintf(out, "  out: %s\n", strings.Join(a.OutputVariables, ", "))
			if len(a.ErrorCodes) > 0 {
				fmt.Fprintf(out, "  bpmn errors: %s\n", strings.Join(a.ErrorCodes, ", "))
			}
			if len(a.DegradedCodes) > 0 {
				fmt.Fprintf(out, "  notices: %s\n", strings.Join(a.DegradedCodes, ", "))
			}
		}
		return nil
	},
}

func init() {
	tasksCmd.Flags().StringVar(&registryPath, "file", "", "read the registry from a JSON file instead")
}
