package cmd

import (
	"fmt"
	"os"

	"github.com/Manu343726/isasim/cmd/regfile"
	"github.com/Manu343726/isasim/cmd/tools"
	"github.com/Manu343726/isasim/cmd/value"
	"github.com/Manu343726/isasim/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "isasim",
	Short: "Bit accurate values and registers for ISA simulation",
	Long: `isasim models fixed width machine values (unsigned, signed and floating point formats of any width)
with an unknown (X) state, and an AArch64 register file built on top of them.

This CLI is the entry point to inspect value encodings, evaluate expressions and run register file programs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(value.ValueCmd, regfile.RegfileCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.isasim.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "also write JSON logs to this file")
	flags.Bool("color", true, "colorize output")

	cobra.CheckErr(viper.BindPFlag(config.Key_LogLevel, flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag(config.Key_LogFile, flags.Lookup("log-file")))
	cobra.CheckErr(viper.BindPFlag(config.Key_Color, flags.Lookup("color")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".isasim" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".isasim")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
