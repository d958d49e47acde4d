package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Pet Rescue API
// @version 1.0
// @description Registro de mascotas encontradas y perdidas: reportes, claims y notificaciones.
// @BasePath /

var configPath string

var rootCmd = &cobra.Command{
	Use:           "petrescue",
	Short:         "Pet rescue registry API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (env vars override it)")
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
