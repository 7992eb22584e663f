package apu

import (
	"testing"

	"nescore/internal/config"
)

func TestLengthCounterLoadedOnEnabledChannel(t *testing.T) {
	a := New(config.NTSC, nil, 1789773, 44100)
	a.WriteRegister(0x4015, 0x01) // enable pulse 1
	a.WriteRegister(0x4003, 0x08) // length index 1 -> 254
	if a.pulse1.lengthCount != lengthTable[1] {
		t.Fatalf("pulse1 length = %d, want %d", a.pulse1.lengthCount, lengthTable[1])
	}
}

func TestStatusReadReflectsLengthCounters(t *testing.T) {
	a := New(config.NTSC, nil, 1789773, 44100)
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x08)
	if a.ReadStatus()&0x01 == 0 {
		t.Fatal("status bit 0 should reflect nonzero pulse1 length counter")
	}
}

func TestFrameCounterModeWriteResetsSequencer(t *testing.T) {
	a := New(config.NTSC, nil, 1789773, 44100)
	a.frameCounter = 5000
	a.WriteRegister(0x4017, 0x80)
	if a.frameCounter != 0 {
		t.Fatalf("frameCounter after $4017 write = %d, want 0", a.frameCounter)
	}
	if !a.frameMode5Step {
		t.Fatal("bit 7 of $4017 should select 5-step mode")
	}
}

func TestDMCIRQClearsOnDisable(t *testing.T) {
	a := New(config.NTSC, nil, 1789773, 44100)
	a.dmc.irqPending = true
	a.WriteRegister(0x4010, 0x00) // irqEnabled=false
	if a.dmc.irqPending {
		t.Fatal("disabling DMC IRQ enable should clear pending IRQ")
	}
}

func TestNoiseShiftRegisterNeverReachesZero(t *testing.T) {
	n := newNoiseChannel()
	n.timerPeriod = 1
	for i := 0; i < 1000; i++ {
		n.clockTimer()
	}
	if n.shift == 0 {
		t.Fatal("noise LFSR should never settle at 0")
	}
}

func TestSnapshotRestoreRoundTripsChannelState(t *testing.T) {
	a := New(config.NTSC, nil, 1789773, 44100)
	a.WriteRegister(0x4015, 0x0F)
	a.WriteRegister(0x4003, 0x08)
	a.WriteRegister(0x400C, 0x1F)

	st := a.Snapshot()

	b := New(config.NTSC, nil, 1789773, 44100)
	b.Restore(st)

	if b.pulse1.lengthCount != a.pulse1.lengthCount {
		t.Fatalf("pulse1 length = %d, want %d", b.pulse1.lengthCount, a.pulse1.lengthCount)
	}
	if b.noise.env.volume != a.noise.env.volume {
		t.Fatalf("noise volume = %d, want %d", b.noise.env.volume, a.noise.env.volume)
	}
}
