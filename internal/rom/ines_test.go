package rom

import (
	"bytes"
	"testing"

	"nescore/internal/cartridge"
)

func buildINES(mapper uint8, prgBanks, chrBanks uint8, battery, vertical bool) []byte {
	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = prgBanks
	header[5] = chrBanks
	flags6 := mapper << 4 & 0xF0
	if battery {
		flags6 |= 0x02
	}
	if vertical {
		flags6 |= 0x01
	}
	header[6] = flags6
	header[7] = mapper & 0xF0

	body := make([]byte, int(prgBanks)*16384+int(chrBanks)*8192)
	return append(header, body...)
}

func TestLoadReaderParsesClassicINESHeader(t *testing.T) {
	data := buildINES(1, 2, 1, true, true)
	cart, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	h := cart.Header()
	if h.Mapper != 1 {
		t.Fatalf("Mapper = %d, want 1", h.Mapper)
	}
	if h.PRGROMSize != 2*16384 {
		t.Fatalf("PRGROMSize = %d, want %d", h.PRGROMSize, 2*16384)
	}
	if h.CHRROMSize != 1*8192 {
		t.Fatalf("CHRROMSize = %d, want %d", h.CHRROMSize, 8192)
	}
	if !h.Battery {
		t.Fatal("Battery = false, want true")
	}
	if h.Mirroring != cartridge.MirrorVertical {
		t.Fatalf("Mirroring = %v, want vertical", h.Mirroring)
	}
}

func TestLoadReaderRejectsBadMagic(t *testing.T) {
	data := buildINES(0, 1, 1, false, false)
	data[0] = 'X'
	if _, err := LoadReader(bytes.NewReader(data)); err == nil {
		t.Fatal("LoadReader: want error for bad magic, got nil")
	}
}

func TestLoadReaderHandlesCHRRAM(t *testing.T) {
	data := buildINES(0, 1, 0, false, false)
	cart, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if cart.Header().CHRROMSize != 0 {
		t.Fatalf("CHRROMSize = %d, want 0 (CHR-RAM)", cart.Header().CHRROMSize)
	}
}

func TestNES20ExponentSizing(t *testing.T) {
	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[7] = 0x08 // NES 2.0 identifier bits
	// PRG size: exponent form, MSB nibble 0x0F, LSB byte encodes exp/mul
	// for exp=14, mul=0 -> 2^14 * 1 = 16384 bytes (one 16KiB bank).
	header[9] = 0x0F
	header[4] = (14 << 2) | 0

	body := make([]byte, 16384)
	data := append(header, body...)

	cart, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if cart.Header().PRGROMSize != 16384 {
		t.Fatalf("PRGROMSize = %d, want 16384", cart.Header().PRGROMSize)
	}
	if !cart.Header().NES20 {
		t.Fatal("NES20 = false, want true")
	}
}
