package instrument

import "testing"

func TestChainInvokesInInsertionOrder(t *testing.T) {
	var order []int
	c := NewChain(
		Observer{OnMemory: func(MemoryType, MemoryOp, uint16, *uint8) { order = append(order, 1) }},
		Observer{OnMemory: func(MemoryType, MemoryOp, uint16, *uint8) { order = append(order, 2) }},
	)
	var data uint8
	c.Memory(MemCPU, OpRead, 0x10, &data)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("observers fired out of insertion order: %v", order)
	}
}

func TestWriteObserverCanOverrideData(t *testing.T) {
	c := NewChain(Observer{
		OnMemory: func(memType MemoryType, op MemoryOp, address uint16, data *uint8) {
			if op == OpWrite {
				*data = 0x42
			}
		},
	})
	data := uint8(0x01)
	c.Memory(MemCPU, OpWrite, 0x2007, &data)
	if data != 0x42 {
		t.Errorf("write observer should be able to override data in place, got %#x", data)
	}
}

func TestNilChainIsSafe(t *testing.T) {
	var c *Chain
	data := uint8(0)
	c.Memory(MemCPU, OpRead, 0, &data)
	c.CPU(CPUSnapshot{})
	c.CPUCycle(CPUSnapshot{})
	c.PPU(PPUSnapshot{})
	c.APU(APUSnapshot{})
}

func TestAddAppendsToEnd(t *testing.T) {
	var order []int
	c := NewChain(Observer{OnCPU: func(CPUSnapshot) { order = append(order, 1) }})
	c.Add(Observer{OnCPU: func(CPUSnapshot) { order = append(order, 2) }})
	c.CPU(CPUSnapshot{})
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Add should append after existing observers, got %v", order)
	}
}
