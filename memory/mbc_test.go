package memory

import "testing"

func TestMBC1(t *testing.T) {
	t.Run("ROM Bank 0 is fixed", func(t *testing.T) {
		rom := make([]uint8, 0x8000)
		for i := range rom {
			rom[i] = uint8(i & 0xFF)
		}
		mbc := NewMBC1(rom, false, 0)

		for address := uint16(0x0000); address < 0x4000; address++ {
			if got, want := mbc.Read(address), uint8(address&0xFF); got != want {
				t.Fatalf("Read(0x%04X) = 0x%02X; want 0x%02X", address, got, want)
			}
		}
	})

	t.Run("ROM bank switching", func(t *testing.T) {
		rom := make([]uint8, 0x10000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC1(rom, false, 0)

		tests := []struct {
			name    string
			bank    uint8
			wantVal uint8
		}{
			{"default bank is 1", 1, 1},
			{"switch to bank 2", 2, 2},
			{"switch to bank 3", 3, 3},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.bank > 1 {
					mbc.Write(0x2000, tt.bank)
				}
				if got := mbc.Read(0x4000); got != tt.wantVal {
					t.Errorf("Read(0x4000) = 0x%02X; want 0x%02X", got, tt.wantVal)
				}
			})
		}
	})

	t.Run("bank 0 translates to 1", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), false, 0)
		mbc.Write(0x2000, 0)
		if mbc.romBankLow != 1 {
			t.Errorf("romBankLow = %d; want 1", mbc.romBankLow)
		}
	})

	t.Run("RAM disabled by default", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), false, 1)
		if got := mbc.Read(0xA000); got != 0xFF {
			t.Errorf("Read(0xA000) = 0x%02X; want 0xFF", got)
		}
	})

	t.Run("RAM enable/disable", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), false, 1)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0xA000, 0x42)
		if got := mbc.Read(0xA000); got != 0x42 {
			t.Errorf("Read after enable = 0x%02X; want 0x42", got)
		}
		mbc.Write(0x0000, 0x00)
		if got := mbc.Read(0xA000); got != 0xFF {
			t.Errorf("Read after disable = 0x%02X; want 0xFF", got)
		}
	})

	t.Run("RAM banking mode switches banks", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), false, 4)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x6000, 0x01)

		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			mbc.Write(0xA000, 0x40+bank)
		}
		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			if got, want := mbc.Read(0xA000), 0x40+bank; got != want {
				t.Errorf("bank %d: got 0x%02X; want 0x%02X", bank, got, want)
			}
		}
	})

	t.Run("out of range ROM bank wraps", func(t *testing.T) {
		rom := make([]uint8, 8*0x4000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC1(rom, false, 0)
		mbc.Write(0x6000, 0) // ROM banking mode
		mbc.Write(0x2000, 5)
		mbc.Write(0x4000, 1) // requests bank 37, only 8 banks exist

		if got, want := mbc.Read(0x4000), uint8(37%8); got != want {
			t.Errorf("Read(0x4000) = 0x%02X; want 0x%02X", got, want)
		}
	})
}

func TestMBC2(t *testing.T) {
	t.Run("RAM enable uses address bit 8", func(t *testing.T) {
		mbc := NewMBC2(make([]uint8, 0x8000), false)

		mbc.Write(0x0000, 0x0A) // bit 8 clear -> ram enable
		mbc.Write(0xA000, 0x05)
		if got := mbc.Read(0xA000); got != 0xF5 {
			t.Errorf("Read(0xA000) = 0x%02X; want 0xF5 (nibble OR 0xF0)", got)
		}
	})

	t.Run("ROM bank select uses address bit 8", func(t *testing.T) {
		rom := make([]uint8, 0x10000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC2(rom, false)
		mbc.Write(0x0100, 0x03) // bit 8 set -> rom bank select
		if got := mbc.Read(0x4000); got != 3 {
			t.Errorf("Read(0x4000) = %d; want 3", got)
		}
	})

	t.Run("writes mask to low nibble", func(t *testing.T) {
		mbc := NewMBC2(make([]uint8, 0x8000), false)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0xA000, 0xFF)
		if got := mbc.Read(0xA000); got != 0xFF {
			t.Errorf("Read(0xA000) = 0x%02X; want 0xFF (0x0F stored, OR 0xF0)", got)
		}
	})
}

func TestMBC3(t *testing.T) {
	t.Run("RTC register select and latch", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), true, true, 1)
		mbc.Write(0x0000, 0x0A) // enable
		mbc.rtcRegisters[0] = 30 // seconds

		mbc.Write(0x4000, 0x08) // select seconds register
		mbc.Write(0x6000, 0x00)
		mbc.Write(0x6000, 0x01) // latch 0->1 edge

		if got := mbc.Read(0xA000); got != 30 {
			t.Errorf("latched seconds = %d; want 30", got)
		}
	})

	t.Run("RAM banking still works alongside RTC", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), false, false, 2)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x4000, 0x01)
		mbc.Write(0xA000, 0x99)
		if got := mbc.Read(0xA000); got != 0x99 {
			t.Errorf("Read(0xA000) = 0x%02X; want 0x99", got)
		}
	})
}

func TestMBC5(t *testing.T) {
	t.Run("9-bit ROM bank split across two registers", func(t *testing.T) {
		rom := make([]uint8, 512*0x4000)
		rom[260*0x4000] = 0xAB
		mbc := NewMBC5(rom, false, false, 0)

		mbc.Write(0x2000, byte(260&0xFF))
		mbc.Write(0x3000, byte((260>>8)&0x01))

		if got := mbc.Read(0x4000); got != 0xAB {
			t.Errorf("Read(0x4000) = 0x%02X; want 0xAB", got)
		}
	})

	t.Run("RAM bank 0 still accessible with no rumble", func(t *testing.T) {
		mbc := NewMBC5(make([]uint8, 0x8000), false, false, 1)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0xA000, 0x7E)
		if got := mbc.Read(0xA000); got != 0x7E {
			t.Errorf("Read(0xA000) = 0x%02X; want 0x7E", got)
		}
	})
}
