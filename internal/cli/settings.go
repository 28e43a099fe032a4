package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"focustracker/internal/model"
	"focustracker/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	var path string
	var workMinutes int

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change timer preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				resolved, err := settings.DefaultPath()
				if err != nil {
					return err
				}
				path = resolved
			}

			current, err := settings.Load(path)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("work") {
				if workMinutes < model.MinWorkMinutes || workMinutes > model.MaxWorkMinutes {
					return fmt.Errorf("work minutes must be between %d and %d", model.MinWorkMinutes, model.MaxWorkMinutes)
				}
				current.WorkMinutes = workMinutes
				if err := settings.Save(path, current); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:        %s\n", path)
			fmt.Fprintf(out, "work:        %d min\n", current.WorkMinutes)
			fmt.Fprintf(out, "short break: %d min\n", current.ShortBreakMinutes)
			fmt.Fprintf(out, "long break:  %d min\n", current.LongBreakMinutes)
			fmt.Fprintf(out, "cycle:       %d\n", current.CycleLength)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "settings file (defaults to the user config dir)")
	cmd.Flags().IntVar(&workMinutes, "work", 0, "set the work duration in minutes")
	return cmd
}
