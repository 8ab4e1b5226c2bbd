package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrewthecodertx/nescore/pkg/instrument"
	"github.com/andrewthecodertx/nescore/pkg/nes"
)

// nestest.nes reports CPU test results in zero page: $0002 holds the
// failing official-opcode test number, $0003 the unofficial one. Both read
// $00 once every decoded opcode has passed.
const (
	nestestEntry        = 0xC000
	nestestInstructions = 8991
	nestestMaxTicks     = 10_000_000
)

func newNestestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nestest <rom-file>",
		Short: "Run the nestest CPU acceptance ROM headlessly and report the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNestest(args[0])
		},
	}
}

func runNestest(romPath string) error {
	instructions := 0
	chain := instrument.NewChain(instrument.Observer{
		OnCPU: func(cpu instrument.CPUSnapshot) { instructions++ },
	})

	system, err := nes.Create(nes.Config{ROMPath: romPath, Observers: chain})
	if err != nil {
		return fmt.Errorf("loading %s: %w", romPath, err)
	}

	// The automated entry point skips the ROM's interactive menu.
	system.SetPC(nestestEntry)

	for tick := 0; instructions < nestestInstructions; tick++ {
		if tick >= nestestMaxTicks {
			return fmt.Errorf("nestest: %d instructions after %d ticks, expected %d",
				instructions, tick, nestestInstructions)
		}
		system.Tick()
	}

	result := make([]uint8, 2)
	system.ReadMemory(nes.MemCPUSpace, 0x0002, result)
	fmt.Printf("official opcodes:   $%02X\n", result[0])
	fmt.Printf("unofficial opcodes: $%02X\n", result[1])
	if result[0] != 0 {
		return fmt.Errorf("nestest: official opcode test %02X failed", result[0])
	}
	fmt.Println("PASSED")
	return nil
}
