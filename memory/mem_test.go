package memory

import "testing"

func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	m := New(nil)
	rom := make([]byte, 0x8000)
	if err := m.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM() error = %v", err)
	}
	return m
}

func TestEchoRAMMirrorsWorkRAM(t *testing.T) {
	m := newTestMMU(t)

	m.Write(0xC010, 0x77)
	if got := m.Read(0xE010); got != 0x77 {
		t.Errorf("echo read = 0x%02X; want 0x77", got)
	}

	m.Write(0xE020, 0x99)
	if got := m.Read(0xC020); got != 0x99 {
		t.Errorf("work ram read after echo write = 0x%02X; want 0x99", got)
	}
}

func TestHRAMRoundTrip(t *testing.T) {
	m := newTestMMU(t)
	for address := uint16(0xFF80); address < 0xFFFF; address++ {
		m.Write(address, 0xAB)
		if got := m.Read(address); got != 0xAB {
			t.Errorf("HRAM Read(0x%04X) = 0x%02X; want 0xAB", address, got)
		}
	}
}

func TestIFAlwaysReadsUpperBitsSet(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFF0F, 0x00)
	if got := m.Read(0xFF0F); got != 0xE0 {
		t.Errorf("IF = 0x%02X; want 0xE0", got)
	}
}

func TestOAMDMACopiesAfter160Cycles(t *testing.T) {
	m := newTestMMU(t)
	for i := 0; i < 160; i++ {
		m.memory[0xC000+i] = byte(i)
	}

	m.Write(0xFF46, 0xC0) // source = 0xC000

	if !m.dma.Active() {
		t.Fatal("expected DMA to become active immediately after write")
	}

	m.Tick(159)
	if m.dma.bytesDone >= 160 {
		t.Fatalf("DMA completed too early: bytesDone=%d", m.dma.bytesDone)
	}

	m.Tick(1)
	if m.dma.Active() {
		t.Fatal("expected DMA to be finished after 160 T-cycles")
	}
	for i := 0; i < 160; i++ {
		if got := m.memory[0xFE00+i]; got != byte(i) {
			t.Fatalf("OAM[%d] = 0x%02X; want 0x%02X", i, got, byte(i))
		}
	}
}

func TestOAMReadsReturn0xFFWhileDMAActive(t *testing.T) {
	m := newTestMMU(t)
	m.memory[0xFE00] = 0x55
	m.Write(0xFF46, 0xC0)

	if got := m.Read(0xFE00); got != 0xFF {
		t.Errorf("Read(OAM) during DMA = 0x%02X; want 0xFF", got)
	}
}

func TestJoypadInterruptRequestedOnKeyPress(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFF00, 0x10) // select action buttons
	m.Joypad.Set(ButtonA, true)

	if got := m.Read(0xFF0F); got&uint8(0x10) == 0 {
		t.Errorf("IF = 0x%02X; want Joypad interrupt bit set", got)
	}
}
