package memory

import "testing"

func TestJoypadReadComposition(t *testing.T) {
	j := newJoypad()

	t.Run("no selection reads all released", func(t *testing.T) {
		j.WriteSelect(0x30)
		if got := j.Read(); got != 0xFF {
			t.Errorf("Read() = 0x%02X; want 0xFF", got)
		}
	})

	t.Run("direction select reflects pressed d-pad", func(t *testing.T) {
		j.WriteSelect(0x20) // bit4=0 selects d-pad
		j.Set(ButtonDown, true)
		got := j.Read()
		want := byte(0b1110_0111) // bit3 (down) clear, select bits + top bits set
		if got != want {
			t.Errorf("Read() = 0x%02X; want 0x%02X", got, want)
		}
	})

	t.Run("action select reflects pressed buttons", func(t *testing.T) {
		j2 := newJoypad()
		j2.WriteSelect(0x10) // bit5=0 selects action buttons
		j2.Set(ButtonA, true)
		got := j2.Read()
		want := byte(0b1101_1110)
		if got != want {
			t.Errorf("Read() = 0x%02X; want 0x%02X", got, want)
		}
	})
}

func TestJoypadPressTriggersInterruptOnlyWhenLineSelected(t *testing.T) {
	j := newJoypad()
	fired := 0
	j.RequestInterrupt = func() { fired++ }

	j.WriteSelect(0x10) // select action buttons only
	j.Set(ButtonUp, true) // d-pad, line not selected
	if fired != 0 {
		t.Fatalf("unexpected interrupt for unselected line, fired=%d", fired)
	}

	j.Set(ButtonA, true) // action buttons, line selected
	if fired != 1 {
		t.Fatalf("expected one interrupt, fired=%d", fired)
	}

	j.Set(ButtonA, true) // already pressed, no new transition
	if fired != 1 {
		t.Fatalf("expected no additional interrupt on repeated press, fired=%d", fired)
	}
}
