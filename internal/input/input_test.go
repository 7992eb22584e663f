package input

import "testing"

func TestPortSerializesButtonsLSBFirst(t *testing.T) {
	var p Port
	p.SetButtons(uint8(ButtonA | ButtonStart))
	p.Write(1)
	p.Write(0)
	var bits [8]uint8
	for i := range bits {
		bits[i] = p.Read()
	}
	if bits[0] != 1 {
		t.Fatalf("first bit should be A (1), got %d", bits[0])
	}
	if bits[3] != 1 {
		t.Fatalf("fourth bit should be Start (1), got %d", bits[3])
	}
}

func TestPortSaturatesAfterEightReads(t *testing.T) {
	var p Port
	p.SetButtons(0)
	p.Write(1)
	p.Write(0)
	for i := 0; i < 8; i++ {
		p.Read()
	}
	if p.Read() != 1 {
		t.Fatal("ninth read should saturate to 1")
	}
}

func TestFourScoreSignatureAfterBothControllers(t *testing.T) {
	var f FourScoreAdapter
	f.Enabled = true
	f.Ports[0].SetButtons(0)
	f.Ports[2].SetButtons(0)
	f.Write(1)
	f.Write(0)
	for i := 0; i < 16; i++ {
		f.Read(0)
	}
	var sig uint8
	for i := 0; i < 8; i++ {
		sig = (sig << 1) | f.Read(0)
	}
	if sig != 0x10 { // bits serialized LSB-of-signature-byte first: 0000 1000 read MSB-first into sig gives 0x10
		t.Fatalf("four score signature on port 0 = %02X", sig)
	}
}

func TestFourScoreDisabledBehavesAsPlainController(t *testing.T) {
	var f FourScoreAdapter // Enabled left false: NoFourPlayer
	f.Ports[0].SetButtons(0)
	f.Write(1)
	f.Write(0)
	for i := 0; i < 8; i++ {
		f.Read(0)
	}
	if got := f.Read(0); got != 1 {
		t.Fatalf("ninth read with Four Score disabled should saturate to 1 like a plain controller, got %d", got)
	}
}

func TestSnapshotRestoreRoundTrips(t *testing.T) {
	var f FourScoreAdapter
	f.Ports[0].SetButtons(uint8(ButtonA | ButtonB))
	f.Ports[0].Write(1)
	f.Ports[0].Write(0)
	f.Ports[0].Read()

	st := f.Snapshot()

	var g FourScoreAdapter
	g.Restore(st)

	if g.Ports[0].shift != f.Ports[0].shift || g.Ports[0].strobe != f.Ports[0].strobe {
		t.Fatalf("restored port 0 = %+v, want shift=%d strobe=%t", g.Ports[0], f.Ports[0].shift, f.Ports[0].strobe)
	}
}
