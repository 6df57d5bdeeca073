package main

import (
	"log"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-storefront/config"

	"github.com/spf13/cobra"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:          "oxy-storefront",
		Short:        "3D storefront viewer with shared object placement",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(envFile)
			if err != nil {
				return err
			}
			*cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file read before the environment")

	root.AddCommand(newViewCommand(cfg), newServeCommand(cfg))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return root
}
