package memory

import (
	"fmt"
	"log/slog"

	"github.com/Coolman4128/EducationBoy/addr"
	"github.com/Coolman4128/EducationBoy/audio"
	"github.com/Coolman4128/EducationBoy/bit"
	"github.com/Coolman4128/EducationBoy/serial"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// MMU is the DMG's unified memory map: it owns the cartridge, working RAM,
// video RAM, and dispatches I/O register reads/writes to the Timer, Joypad,
// serial port and APU (spec §4.1 MMU).
type MMU struct {
	mbc     MBC
	Info    CartridgeInfo
	memory  []byte
	APU     *audio.APU
	regions [256]region

	Joypad Joypad
	Serial serial.Port
	timer  Timer
	dma    dma

	RequestInterruptFunc func(addr.Interrupt)
}

// New creates an MMU with no cartridge loaded, APU wired to sink, and the
// Timer/Serial interrupt callbacks connected to RequestInterrupt.
func New(sink audio.Sink) *MMU {
	m := &MMU{
		memory: make([]byte, 0x10000),
		APU:    audio.New(44100, sink),
		Joypad: newJoypad(),
	}
	m.Serial = serial.NewLogSink(func() { m.RequestInterrupt(addr.SerialInterrupt) })
	m.timer.InterruptHandler = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	m.Joypad.RequestInterrupt = func() { m.RequestInterrupt(addr.JoypadInterrupt) }
	initRegionMap(m)
	return m
}

// LoadROM parses the cartridge header from rom and wires the matching MBC.
func (m *MMU) LoadROM(rom []byte) error {
	info, err := ParseCartridgeHeader(rom)
	if err != nil {
		return err
	}
	m.Info = info
	m.mbc = NewMBCForCartridge(info, rom)
	slog.Info("cartridge loaded", "title", info.Title, "mbc", info.Kind.String(), "rom_banks", info.ROMBankCount, "ram_bytes", info.RAMSizeBytes)
	return nil
}

func initRegionMap(m *MMU) {
	for i := 0x00; i <= 0x7F; i++ {
		m.regions[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regions[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regions[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regions[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regions[i] = regionEcho
	}
	m.regions[0xFE] = regionOAM
	m.regions[0xFF] = regionIO
}

// Tick advances timer, serial and OAM DMA state by the given T-cycle count.
// The caller (Clock) is responsible for calling APU.Tick separately, since
// it is stepped alongside the PPU rather than through the MMU.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	m.Serial.Tick(cycles)
	m.dma.Tick(cycles, m.Read, func(offset uint16, value byte) {
		m.memory[addr.OAMStart+offset] = value
	})
}

// SetTimerSeed initializes the free-running divider, e.g. to match a
// post-boot-ROM state.
func (m *MMU) SetTimerSeed(seed uint16) {
	m.timer.SetSeed(seed)
}

// RequestInterrupt sets the given bit in IF (0xFF0F).
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	if m.RequestInterruptFunc != nil {
		m.RequestInterruptFunc(interrupt)
		return
	}
	m.Write(addr.IF, m.Read(addr.IF)|uint8(interrupt))
}

func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

func (m *MMU) SetBit(index uint8, address uint16, set bool) {
	m.Write(address, bit.SetTo(index, m.Read(address), set))
}

// Read fetches a byte at address, dispatching through the region map and
// then, within the I/O region, to the relevant subsystem.
func (m *MMU) Read(address uint16) byte {
	switch m.regions[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionOAM:
		if address <= addr.OAMEnd && m.dma.Active() {
			return 0xFF
		}
		return m.memory[address]
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("memory: read at unmapped address 0x%04X", address))
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		return m.Serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return m.timer.Read(address)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return m.APU.ReadRegister(address)
	case address == addr.IF:
		return m.memory[address] | 0xE0
	default:
		return m.memory[address]
	}
}

// Write stores value at address, dispatching the same way as Read.
func (m *MMU) Write(address uint16, value byte) {
	switch m.regions[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			return
		}
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionOAM:
		if address <= addr.OAMEnd && m.dma.Active() {
			return
		}
		m.memory[address] = value
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("memory: write at unmapped address 0x%04X", address))
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.Joypad.WriteSelect(value)
	case address == addr.SB || address == addr.SC:
		m.Serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		m.timer.Write(address, value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.APU.WriteRegister(address, value)
	case address == addr.IF:
		m.memory[address] = value | 0xE0
	case address == addr.DMA:
		m.dma.start(value)
		m.memory[address] = value
	default:
		m.memory[address] = value
	}
}
