package main

import (
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/andrewthecodertx/nescore/pkg/cartridge"
	"github.com/andrewthecodertx/nescore/pkg/logger"
	"github.com/andrewthecodertx/nescore/pkg/nes"
	"github.com/andrewthecodertx/nescore/sdlfrontend"
)

func loadCartridge(romPath string) (*cartridge.Cartridge, error) {
	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", romPath, err)
	}
	return cart, nil
}

func runROM(romPath string, scale int, statePath string) error {
	front, err := sdlfrontend.New("nescore - "+romPath, scale, sdlfrontend.DefaultKeyMap)
	if err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer front.Close()

	system, err := nes.Create(nes.Config{
		ROMPath:       romPath,
		InputCallback: front.InputCallback,
		VideoCallback: front.VideoCallback,
		AudioCallback: front.AudioCallback,
	})
	if err != nil {
		return fmt.Errorf("loading %s: %w", romPath, err)
	}

	cart := system.GetCartridge()
	logger.Infof("loaded %s: mapper %d, %d PRG bank(s), %d CHR bank(s)",
		romPath, cart.GetMapperID(), cart.GetPRGBanks(), cart.GetCHRBanks())

	paused := false
	front.OnKeyDown = func(sym sdl.Keycode) {
		switch sym {
		case sdl.K_p:
			paused = !paused
		case sdl.K_r:
			system.Reset(nes.PowerUp)
		case sdl.K_F5:
			if err := os.WriteFile(statePath, system.SaveState(), 0o644); err != nil {
				logger.Warningf("save state failed: %v", err)
			} else {
				logger.Infof("state saved to %s", statePath)
			}
		case sdl.K_F9:
			data, err := os.ReadFile(statePath)
			if err != nil {
				logger.Warningf("load state failed: %v", err)
				return
			}
			if err := system.LoadState(data); err != nil {
				logger.Warningf("load state failed: %v", err)
			}
		}
	}

	for {
		if front.PollEvents() {
			return nil
		}

		if !paused {
			system.Frame()
		}

		time.Sleep(16 * time.Millisecond)
	}
}
