package memory

import "testing"

func makeHeaderROM(title string, cartType, romSizeCode, ramSizeCode byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[titleAddress:], title)
	rom[cartridgeTypeAddress] = cartType
	rom[romSizeAddress] = romSizeCode
	rom[ramSizeAddress] = ramSizeCode
	return rom
}

func TestParseCartridgeHeader(t *testing.T) {
	tests := []struct {
		name        string
		cartType    byte
		romCode     byte
		ramCode     byte
		wantKind    MBCKind
		wantBanks   int
		wantRAM     int
		wantBattery bool
	}{
		{"ROM only", 0x00, 0x00, 0x00, MBCNone, 2, 0, false},
		{"MBC1", 0x01, 0x01, 0x02, MBC1Kind, 4, 8 * 1024, false},
		{"MBC1+RAM+BATTERY", 0x03, 0x02, 0x03, MBC1Kind, 8, 32 * 1024, true},
		{"MBC2+BATTERY", 0x06, 0x00, 0x00, MBC2Kind, 2, 512, true},
		{"MBC3+TIMER+RAM+BATTERY", 0x10, 0x03, 0x02, MBC3Kind, 16, 8 * 1024, true},
		{"MBC5", 0x19, 0x04, 0x00, MBC5Kind, 32, 0, false},
		{"MBC5+RAM+BATTERY", 0x1B, 0x05, 0x03, MBC5Kind, 64, 32 * 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rom := makeHeaderROM("TESTGAME", tt.cartType, tt.romCode, tt.ramCode)
			info, err := ParseCartridgeHeader(rom)
			if err != nil {
				t.Fatalf("ParseCartridgeHeader() error = %v", err)
			}
			if info.Kind != tt.wantKind {
				t.Errorf("Kind = %v; want %v", info.Kind, tt.wantKind)
			}
			if info.ROMBankCount != tt.wantBanks {
				t.Errorf("ROMBankCount = %d; want %d", info.ROMBankCount, tt.wantBanks)
			}
			if info.RAMSizeBytes != tt.wantRAM {
				t.Errorf("RAMSizeBytes = %d; want %d", info.RAMSizeBytes, tt.wantRAM)
			}
			if info.HasBattery != tt.wantBattery {
				t.Errorf("HasBattery = %v; want %v", info.HasBattery, tt.wantBattery)
			}
			if info.Title != "TESTGAME" {
				t.Errorf("Title = %q; want %q", info.Title, "TESTGAME")
			}
		})
	}
}

func TestParseCartridgeHeaderTooSmall(t *testing.T) {
	if _, err := ParseCartridgeHeader(make([]byte, 0x10)); err == nil {
		t.Fatal("expected an error for a too-small ROM image")
	}
}

func TestParseCartridgeHeaderUnknownSizeCodesFallBackInsteadOfErroring(t *testing.T) {
	rom := makeHeaderROM("TESTGAME", 0x00, 0xFE, 0xFE)
	info, err := ParseCartridgeHeader(rom)
	if err != nil {
		t.Fatalf("ParseCartridgeHeader() error = %v; want fallback to defaults, not an error", err)
	}
	if want := romBankCounts[0x00]; info.ROMBankCount != want {
		t.Errorf("ROMBankCount = %d; want default %d", info.ROMBankCount, want)
	}
	if want := ramSizes[0x00]; info.RAMSizeBytes != want {
		t.Errorf("RAMSizeBytes = %d; want default %d", info.RAMSizeBytes, want)
	}
}
