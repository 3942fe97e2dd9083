package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chimgan/sales/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change runtime settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the public settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsList,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting; running servers reload it",
	Long: "Set a setting. Integer values are stored as numbers, everything else as text.\n" +
		"Example: salesctl settings set " + models.SettingDailyUserAdLimit + " 3",
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().Bool("private", false, "Hide the setting from the public config endpoint")
	settingsCmd.AddCommand(settingsListCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	ctx, done, err := connect(cmd)
	if err != nil {
		return err
	}
	defer done()

	if err := current.settings.Load(ctx); err != nil {
		return err
	}
	all, err := current.settings.GetAllPublic(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-30s %v\n", k, all[k])
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	var value interface{} = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	}
	if key == models.SettingDailyUserAdLimit {
		n, ok := value.(int)
		if !ok || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
	}
	private, _ := cmd.Flags().GetBool("private")

	ctx, done, err := connect(cmd)
	if err != nil {
		return err
	}
	defer done()

	if err := current.settings.SetConfigValue(ctx, key, value, !private); err != nil {
		return err
	}
	fmt.Printf("%s = %v\n", key, value)
	return nil
}
