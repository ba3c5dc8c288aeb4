/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftlog/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shiftlog",
	Short: "Parse daily shift schedules and track attendance per branch and person.",
	Long: `
**********************************************
*                 SHIFTLOG                   *
**********************************************

This CLI turns free-text shift schedules into attendance records, keeps them in a
local SQLite database or an .xlsx workbook, derives lateness, overtime and worked
minutes, and serves a weekly/monthly dashboard with a small JSON API.

Supported inputs:
- Schedule text: .txt
- CSV/TSV: .csv, .tsv
- Excel: .xlsx, .xlsm, .xls
`,
	Example: `
  # Create configuration file
  shiftlog config create

  # Preview records parsed from a pasted schedule
  shiftlog parse --date 2024-03-04 < schedule.txt

  # Parse and store them
  shiftlog parse --date 2024-03-04 --save < schedule.txt

  # Import an attendance sheet
  shiftlog import -i ./attendance.xlsx --sheet Attendance_Logs

  # Record an actual check-in, re-deriving lateness
  shiftlog set --id 12 --field actual_in --value 10:07

  # Re-derive every stored record
  shiftlog recompute

  # Export per-person statistics for a month
  shiftlog export --mode members --period month --date 2024-03-01 --output ./march.xlsx

  # Start the dashboard
  shiftlog serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.shiftlog.yaml, then ./.shiftlog.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory, then the working directory.
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".shiftlog")
	}

	viper.SetEnvPrefix("SHIFTLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: shiftlog config create")
	}
}
