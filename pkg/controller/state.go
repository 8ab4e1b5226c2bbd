package controller

import (
	"bytes"
	"encoding/binary"
)

// SaveState encodes the controller's button latch and shift state.
func (c *Controller) SaveState() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, c.buttons)
	binary.Write(&buf, binary.LittleEndian, c.strobe)
	binary.Write(&buf, binary.LittleEndian, c.index)
	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (c *Controller) LoadState(data []byte) {
	r := bytes.NewReader(data)
	binary.Read(r, binary.LittleEndian, &c.buttons)
	binary.Read(r, binary.LittleEndian, &c.strobe)
	binary.Read(r, binary.LittleEndian, &c.index)
}
