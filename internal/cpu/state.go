package cpu

// instructionState is scratch storage for the instruction currently being
// fetched/executed. It is cleared at the start of every fetch so execute
// handlers never see stale data from the previous instruction.
type instructionState struct {
	fetchedData uint16
	memDest     uint16
	destIsMem   bool
	curOpcode   byte
	curInst     *Instruction
}

func (s *instructionState) reset() {
	s.fetchedData = 0
	s.memDest = 0
	s.destIsMem = false
	s.curOpcode = 0
	s.curInst = nil
}
