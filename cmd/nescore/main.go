// Command nescore runs an NES ROM through an SDL2 window.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrewthecodertx/nescore/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	logger.Flush()
}

func newRootCmd() *cobra.Command {
	var scale int
	var statePath string

	cmd := &cobra.Command{
		Use:   "nescore <rom-file>",
		Short: "Run an NES ROM in an SDL2 window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runROM(args[0], scale, statePath)
		},
	}

	cmd.Flags().IntVar(&scale, "scale", 3, "integer window scale factor")
	cmd.Flags().StringVar(&statePath, "state", ".nescore.state", "save-state file path (F5 saves, F9 loads)")

	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newNestestCmd())
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <rom-file>",
		Short: "Print a ROM's iNES header fields without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printROMInfo(args[0])
		},
	}
}

func printROMInfo(romPath string) error {
	cart, err := loadCartridge(romPath)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", romPath)
	fmt.Printf("  mapper:     %d\n", cart.GetMapperID())
	fmt.Printf("  prg banks:  %d x 16KB\n", cart.GetPRGBanks())
	fmt.Printf("  chr banks:  %d x 8KB\n", cart.GetCHRBanks())
	fmt.Printf("  mirroring:  %d\n", cart.GetMirroring())
	fmt.Printf("  save ram:   %v\n", cart.HasSaveRAM())
	return nil
}
