package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kaichen/claco/internal/scopestore"
)

// NewHooksCommand creates the hooks verb: inspect and edit the hooks
// section of settings.json without clobbering fields claco does not
// understand.
func NewHooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage hooks",
	}
	cmd.AddCommand(newHooksListCommand())
	cmd.AddCommand(newHooksAddCommand())
	cmd.AddCommand(newHooksRemoveCommand())
	return cmd
}

func newHooksListCommand() *cobra.Command {
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopestore.ParseScope(scopeFlag)
			if err != nil {
				return err
			}
			return runHooksList(scope)
		},
	}

	cmd.Flags().StringVar(&scopeFlag, "scope", "project", "Scope to list hooks from (user or project)")
	return cmd
}

func runHooksList(scope scopestore.Scope) error {
	path, err := scopestore.SettingsPath(scope)
	if err != nil {
		return err
	}
	settings, err := scopestore.LoadSettings(path)
	if err != nil {
		return err
	}

	if len(settings.Hooks) == 0 {
		fmt.Printf("No hooks configured in %s scope\n", scope)
		return nil
	}

	fmt.Printf("Hooks (%s): %s\n", scope, path)
	for event, matchers := range settings.Hooks {
		fmt.Printf("  %s:\n", event)
		index := 0
		for _, m := range matchers {
			for _, h := range m.Hooks {
				fmt.Printf("    [%d] matcher=%q command=%q\n", index, m.Matcher, h.Command)
				index++
			}
		}
	}
	return nil
}

func newHooksAddCommand() *cobra.Command {
	var scopeFlag, event, matcher, command string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new hook",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopestore.ParseScope(scopeFlag)
			if err != nil {
				return err
			}
			return runHooksAdd(scope, event, matcher, command)
		},
	}

	cmd.Flags().StringVar(&scopeFlag, "scope", "project", "Scope to add hook to (user or project)")
	cmd.Flags().StringVar(&event, "event", "", "Event type to hook into")
	cmd.Flags().StringVar(&matcher, "matcher", "", "Matcher pattern for the hook")
	cmd.Flags().StringVar(&command, "command", "", "Command to run when the hook fires")
	cmd.MarkFlagRequired("event")
	cmd.MarkFlagRequired("command")
	return cmd
}

func runHooksAdd(scope scopestore.Scope, event, matcher, command string) error {
	path, err := scopestore.SettingsPath(scope)
	if err != nil {
		return err
	}
	settings, err := scopestore.LoadSettings(path)
	if err != nil {
		return err
	}

	settings.AddHook(event, matcher, command)
	if err := scopestore.SaveSettings(path, settings); err != nil {
		return err
	}

	fmt.Printf("Added %s hook to %s scope\n", event, scope)
	return nil
}

func newHooksRemoveCommand() *cobra.Command {
	var scopeFlag, event string

	cmd := &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a hook by its list index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopestore.ParseScope(scopeFlag)
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			return runHooksRemove(scope, event, index)
		},
	}

	cmd.Flags().StringVar(&scopeFlag, "scope", "project", "Scope to remove hook from (user or project)")
	cmd.Flags().StringVar(&event, "event", "", "Event the hook belongs to")
	cmd.MarkFlagRequired("event")
	return cmd
}

func runHooksRemove(scope scopestore.Scope, event string, index int) error {
	path, err := scopestore.SettingsPath(scope)
	if err != nil {
		return err
	}
	settings, err := scopestore.LoadSettings(path)
	if err != nil {
		return err
	}

	if !settings.RemoveHook(event, index) {
		fmt.Printf("No hook at index %d for event %s\n", index, event)
		return nil
	}
	if err := scopestore.SaveSettings(path, settings); err != nil {
		return err
	}

	fmt.Printf("Removed hook %d from event %s (%s scope)\n", index, event, scope)
	return nil
}
