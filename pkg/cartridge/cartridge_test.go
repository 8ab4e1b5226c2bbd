package cartridge

import "testing"

func buildINES(mapperID uint8, prgBanks, chrBanks uint8) []byte {
	flags6 := (mapperID & 0x0F) << 4
	flags7 := mapperID & 0xF0

	data := make([]byte, 16+int(prgBanks)*prgROMBankSize+int(chrBanks)*chrROMBankSize)
	copy(data[0:4], []byte(inesMagic))
	data[4] = prgBanks
	data[5] = chrBanks
	data[6] = flags6
	data[7] = flags7
	return data
}

func TestLoadFromBytesRejectsBadMagic(t *testing.T) {
	data := make([]byte, 32)
	copy(data[0:4], []byte("BAD!"))
	if _, err := LoadFromBytes(data); err == nil {
		t.Fatal("expected error for bad iNES magic")
	}
}

func TestLoadFromBytesDispatchesMapper0(t *testing.T) {
	cart, err := LoadFromBytes(buildINES(0, 1, 1))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if cart.GetMapperID() != 0 {
		t.Errorf("mapper id = %d, want 0", cart.GetMapperID())
	}
	if _, ok := cart.GetMapper().(*Mapper0); !ok {
		t.Errorf("mapper type = %T, want *Mapper0", cart.GetMapper())
	}
}

func TestLoadFromBytesRejectsUnsupportedMapper(t *testing.T) {
	if _, err := LoadFromBytes(buildINES(255, 1, 1)); err == nil {
		t.Fatal("expected error for unsupported mapper 255")
	}
}

func TestMapper71BankSelectAndMirroring(t *testing.T) {
	prg := make([]uint8, 4*16384)
	prg[1*16384] = 0x11 // first byte of bank 1
	m := NewMapper71(prg, nil, MirrorVertical)

	m.WritePRG(0x8000, 0x01)
	if got := m.ReadPRG(0x8000); got != 0x11 {
		t.Errorf("bank 1 read = %#02x, want 0x11", got)
	}

	m.WritePRG(0x9000, 0x10)
	if m.GetMirroring() != MirrorSingleHigh {
		t.Error("write to $9000 with bit 4 set should select single-screen upper")
	}
	if got := m.ReadPRG(0x8000); got != 0x11 {
		t.Error("a mirroring-control write must not change the PRG bank")
	}
}

func TestMapper3WRAMReadWriteAndMirror(t *testing.T) {
	m := NewMapper3(make([]uint8, 16384), make([]uint8, 8192), MirrorHorizontal)
	m.WritePRG(0x6000, 0x5A)
	if got := m.ReadPRG(0x6000); got != 0x5A {
		t.Errorf("WRAM readback = %#02x, want 0x5a", got)
	}
	if got := m.ReadPRG(0x6800); got != 0x5A {
		t.Errorf("WRAM 2KB mirror readback = %#02x, want 0x5a", got)
	}
}

func TestMapper1SUROMUsesCHRBankHighBitForPRG(t *testing.T) {
	prg := make([]uint8, 512*1024)
	prg[256*1024] = 0x22 // first byte of the upper 256KB half
	m := NewMapper1(prg, nil, MirrorHorizontal)

	// Shift a 5-bit value into an MMC1 register, LSB first, spacing the
	// writes out so consecutive-write suppression doesn't eat them.
	cycle := uint64(0)
	load := func(addr uint16, v uint8) {
		for i := 0; i < 5; i++ {
			cycle += 2
			m.Tick(cycle, 0)
			m.WritePRG(addr, v>>i)
		}
	}

	load(0x8000, 0x0C) // control: PRG mode 3 (fix last bank)
	load(0xA000, 0x10) // CHR bank 0: bit 4 selects the upper 256KB half
	load(0xE000, 0x00) // PRG bank 0 within the selected half

	if got := m.ReadPRG(0x8000); got != 0x22 {
		t.Errorf("SUROM read = %#02x, want 0x22 from the upper 256KB half", got)
	}
}

func TestCartridgeSaveLoadStateRoundTrip(t *testing.T) {
	cart, err := LoadFromBytes(buildINES(1, 2, 1)) // MMC1, exercises bank state
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	cart.GetMapper().WritePRG(0x8000, 0x01)
	cart.GetMapper().WritePRG(0x8000, 0x00)
	cart.GetMapper().WritePRG(0x8000, 0x01)
	cart.GetMapper().WritePRG(0x8000, 0x00)
	cart.GetMapper().WritePRG(0x8000, 0x01)

	saved := cart.SaveState()

	cart2, err := LoadFromBytes(buildINES(1, 2, 1))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if err := cart2.LoadState(saved); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	restored := cart2.SaveState()
	if len(restored) != len(saved) {
		t.Fatalf("restored length = %d, want %d", len(restored), len(saved))
	}
	for i := range saved {
		if saved[i] != restored[i] {
			t.Fatalf("byte %d diverges: %02x != %02x", i, saved[i], restored[i])
		}
	}
}
