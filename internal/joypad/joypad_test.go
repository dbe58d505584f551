package joypad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWithNoButtonsPressedIsAllOnes(t *testing.T) {
	p := New(nil)
	require.Equal(t, byte(0xCF), p.Read(), "no buttons pressed reads all-1s in the low nibble, top two bits always set")
}

func TestDPadSelectionReflectsPressedButtons(t *testing.T) {
	p := New(nil)
	p.WriteSelect(0x20) // P14=0 selects d-pad, P15=1
	p.SetState(Right | Up)

	got := p.Read() & 0x0F
	require.Equal(t, byte(0x0A), got, "Right and Up pressed clear bits 0 and 2")
}

func TestFaceButtonSelectionReflectsPressedButtons(t *testing.T) {
	p := New(nil)
	p.WriteSelect(0x10) // P15=0 selects face buttons, P14=1
	p.SetState(A | Start)

	got := p.Read() & 0x0F
	require.Equal(t, byte(0x06), got, "A and Start pressed clear bits 0 and 3")
}

func TestBothGroupsSelectedCombineWithAND(t *testing.T) {
	p := New(nil)
	p.WriteSelect(0x00) // both groups selected
	p.SetState(Right)   // clears bit0 via d-pad only
	require.Equal(t, byte(0x0E), p.Read()&0x0F)

	p.SetState(Right | A) // bit0 cleared by both groups at once, still just one bit
	require.Equal(t, byte(0x0E), p.Read()&0x0F)
}

func TestPressingAButtonRaisesInterruptOnFallingEdge(t *testing.T) {
	var raised []byte
	p := New(func(bit byte) { raised = append(raised, bit) })
	p.WriteSelect(0x20) // select d-pad

	p.SetState(Down)
	require.Equal(t, []byte{byte(interruptBit)}, raised)

	raised = nil
	p.SetState(Down) // already pressed, no new edge
	require.Empty(t, raised)

	raised = nil
	p.SetState(Down | Up) // Up is a new press, another falling edge
	require.Equal(t, []byte{byte(interruptBit)}, raised)
}

func TestReleasingAButtonDoesNotRaiseInterrupt(t *testing.T) {
	var raised []byte
	p := New(func(bit byte) { raised = append(raised, bit) })
	p.WriteSelect(0x20)
	p.SetState(Left)
	raised = nil

	p.SetState(0) // release
	require.Empty(t, raised, "rising edge (button release) never requests an interrupt")
}

func TestSwitchingSelectionCanItselfCauseAFallingEdge(t *testing.T) {
	var raised []byte
	p := New(func(bit byte) { raised = append(raised, bit) })
	p.WriteSelect(0x30) // deselect both groups (the default 0x00 selects both)
	p.SetState(A)       // face button pressed while unselected, no edge yet
	raised = nil

	p.WriteSelect(0x10) // selecting face buttons now exposes the press as an edge
	require.Equal(t, []byte{byte(interruptBit)}, raised)
}
