package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaichen/claco/internal/scopestore"
)

// NewCommandsCommand creates the commands verb: manage slash commands.
func NewCommandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage slash commands",
	}
	cmd.AddCommand(newCommandsListCommand())
	cmd.AddCommand(newCommandsCleanCommand())
	return cmd
}

func newCommandsListCommand() *cobra.Command {
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all slash commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scopeFlag == "" {
				if err := listCommandsForScope(scopestore.ScopeUser); err != nil {
					return err
				}
				return listCommandsForScope(scopestore.ScopeProject)
			}
			scope, err := scopestore.ParseScope(scopeFlag)
			if err != nil {
				return err
			}
			return listCommandsForScope(scope)
		},
	}

	cmd.Flags().StringVar(&scopeFlag, "scope", "",
		"Scope to list (user or project; defaults to both)")
	return cmd
}

func listCommandsForScope(scope scopestore.Scope) error {
	dir, err := scopestore.CommandsDir(scope)
	if err != nil {
		return err
	}

	commands, err := scopestore.ListCommands(scope)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		fmt.Printf("No %s commands found at: %s\n", scope, dir)
		return nil
	}

	fmt.Printf("Slash commands (%s): %s\n", scope, dir)
	for _, c := range commands {
		if c.Description != "" {
			fmt.Printf("  %s - %s\n", c.Name, c.Description)
		} else {
			fmt.Printf("  %s\n", c.Name)
		}
	}
	fmt.Println()
	return nil
}

func newCommandsCleanCommand() *cobra.Command {
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove all slash commands (with confirmation)",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopestore.ParseScope(scopeFlag)
			if err != nil {
				return err
			}
			return runCommandsClean(scope)
		},
	}

	cmd.Flags().StringVar(&scopeFlag, "scope", "project",
		"Scope to clean (user or project)")
	return cmd
}

func runCommandsClean(scope scopestore.Scope) error {
	count, err := scopestore.CountCommands(scope)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Printf("No commands found in %s scope\n", scope)
		return nil
	}

	fmt.Printf("Found %d command(s) in %s scope.\n", count, scope)
	fmt.Print("Are you sure you want to remove all commands? (y/N): ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		fmt.Println("Operation cancelled")
		return nil
	}

	if err := scopestore.CleanCommands(scope); err != nil {
		return err
	}
	fmt.Printf("Removed all commands from %s scope\n", scope)
	return nil
}
