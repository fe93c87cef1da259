package memory

import "fmt"

const (
	titleAddress          = 0x134
	titleLength           = 16
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
)

// MBCKind identifies which memory bank controller a cartridge header selects.
type MBCKind uint8

const (
	MBCNone MBCKind = iota
	MBC1Kind
	MBC2Kind
	MBC3Kind
	MBC5Kind
)

func (k MBCKind) String() string {
	switch k {
	case MBCNone:
		return "NoMBC"
	case MBC1Kind:
		return "MBC1"
	case MBC2Kind:
		return "MBC2"
	case MBC3Kind:
		return "MBC3"
	case MBC5Kind:
		return "MBC5"
	default:
		return "Unknown"
	}
}

// CartridgeInfo is the decoded contents of a ROM header (spec §3 Cartridge).
type CartridgeInfo struct {
	Title          string
	Kind           MBCKind
	ROMBankCount   int
	RAMSizeBytes   int
	HasBattery     bool
	HasRTC         bool
	HasRumble      bool
	HeaderChecksum byte
}

// romBankCounts maps the header's ROM size code (0x148) to a bank count.
// Every DMG ROM size code describes 16KiB banks.
var romBankCounts = map[byte]int{
	0x00: 2, 0x01: 4, 0x02: 8, 0x03: 16,
	0x04: 32, 0x05: 64, 0x06: 128, 0x07: 256, 0x08: 512,
}

// ramSizes maps the header's RAM size code (0x149) to a byte count.
var ramSizes = map[byte]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// ParseCartridgeHeader decodes the fixed-layout header of a ROM image per
// spec §3/§4.1 (cartridge type byte 0x147 selects the MBC and its
// battery/RTC/rumble extras; 0x148/0x149 select ROM bank count and external
// RAM size, with MBC2's fixed 512x4-bit RAM overriding the header's RAM size
// byte).
func ParseCartridgeHeader(rom []byte) (CartridgeInfo, error) {
	if len(rom) < 0x150 {
		return CartridgeInfo{}, fmt.Errorf("memory: rom image too small to contain a header (%d bytes)", len(rom))
	}

	info := CartridgeInfo{
		Title:          decodeTitle(rom[titleAddress : titleAddress+titleLength]),
		HeaderChecksum: rom[headerChecksumAddress],
	}

	cartType := rom[cartridgeTypeAddress]
	info.Kind, info.HasBattery, info.HasRTC, info.HasRumble = classifyCartType(cartType)

	// An unrecognized size code is a malformed header, not a reason to
	// abort: fall through to a safe default (spec §7) the same way
	// classifyCartType already defaults an unknown cart-type byte to
	// MBCNone instead of erroring.
	count, ok := romBankCounts[rom[romSizeAddress]]
	if !ok {
		count = romBankCounts[0x00]
	}
	info.ROMBankCount = count

	if info.Kind == MBC2Kind {
		// MBC2 carries its own 512x4-bit RAM on-chip; the header's RAM size
		// byte is meaningless for it.
		info.RAMSizeBytes = 512
	} else {
		size, ok := ramSizes[rom[ramSizeAddress]]
		if !ok {
			size = ramSizes[0x00]
		}
		info.RAMSizeBytes = size
	}

	return info, nil
}

func decodeTitle(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0x00 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

// classifyCartType maps the 0x147 cartridge type byte to an MBC kind plus
// its battery/RTC/rumble extras.
func classifyCartType(t byte) (kind MBCKind, battery, rtc, rumble bool) {
	switch t {
	case 0x00:
		return MBCNone, false, false, false
	case 0x01, 0x02:
		return MBC1Kind, false, false, false
	case 0x03:
		return MBC1Kind, true, false, false
	case 0x05, 0x06:
		return MBC2Kind, t == 0x06, false, false
	case 0x0F, 0x10:
		return MBC3Kind, true, true, false
	case 0x11, 0x12:
		return MBC3Kind, false, false, false
	case 0x13:
		return MBC3Kind, true, false, false
	case 0x19, 0x1A:
		return MBC5Kind, false, false, false
	case 0x1B:
		return MBC5Kind, true, false, false
	case 0x1C, 0x1D:
		return MBC5Kind, false, false, true
	case 0x1E:
		return MBC5Kind, true, false, true
	default:
		return MBCNone, false, false, false
	}
}
