package cpu

// fetchInstruction reads the opcode at PC, advances PC past it, and looks up
// the decoded Instruction. For the 0xCB prefix, fetchData reads the following
// sub-opcode byte and executeCB decodes it.
func (c *CPU) fetchInstruction() {
	c.state.curOpcode = c.readBus(c.regs.PC)
	c.regs.PC++
	c.state.curInst = &opcodeTable[c.state.curOpcode]
}

// fetchData loads the operand(s) an instruction's addressing mode names into
// state.fetchedData (and, for memory-destination forms, state.memDest /
// state.destIsMem), following spec.md §4.4's table. Every bus read here costs
// exactly one M-cycle via readBus.
func (c *CPU) fetchData() {
	s := &c.state
	s.memDest = 0
	s.destIsMem = false
	inst := s.curInst

	switch inst.AddrMode {
	case AmImp:
		// No operand.

	case AmR:
		s.fetchedData = uint16(c.get8or16(inst.Primary))

	case AmRR, AmRMr:
		if inst.AddrMode == AmRMr {
			addr := c.addrOf(inst.Secondary)
			s.fetchedData = uint16(c.readBus(addr))
		} else {
			s.fetchedData = uint16(c.get8or16(inst.Secondary))
		}

	case AmRD8, AmD8:
		s.fetchedData = uint16(c.readBus(c.regs.PC))
		c.regs.PC++

	case AmRD16, AmD16:
		s.fetchedData = c.fetchLoHi(c.regs.PC)
		c.regs.PC += 2

	case AmMrR:
		s.fetchedData = uint16(c.regs.Get8(inst.Secondary))
		s.memDest = c.addrOf(inst.Primary)
		s.destIsMem = true

	case AmRHLI:
		addr := c.regs.Get16(RegHL)
		s.fetchedData = uint16(c.readBus(addr))
		c.regs.Set16(RegHL, addr+1)

	case AmRHLD:
		addr := c.regs.Get16(RegHL)
		s.fetchedData = uint16(c.readBus(addr))
		c.regs.Set16(RegHL, addr-1)

	case AmHLIR:
		addr := c.regs.Get16(RegHL)
		s.fetchedData = uint16(c.regs.Get8(inst.Secondary))
		s.memDest = addr
		s.destIsMem = true
		c.regs.Set16(RegHL, addr+1)

	case AmHLDR:
		addr := c.regs.Get16(RegHL)
		s.fetchedData = uint16(c.regs.Get8(inst.Secondary))
		s.memDest = addr
		s.destIsMem = true
		c.regs.Set16(RegHL, addr-1)

	case AmRA8:
		lo := c.readBus(c.regs.PC)
		c.regs.PC++
		s.fetchedData = uint16(c.readBus(0xFF00 + uint16(lo)))

	case AmA8R:
		lo := c.readBus(c.regs.PC)
		c.regs.PC++
		s.memDest = 0xFF00 + uint16(lo)
		s.destIsMem = true
		s.fetchedData = uint16(c.regs.Get8(inst.Secondary))

	case AmHLSPR:
		s.fetchedData = uint16(c.readBus(c.regs.PC))
		c.regs.PC++

	case AmA16R:
		addr := c.fetchLoHi(c.regs.PC)
		c.regs.PC += 2
		s.memDest = addr
		s.destIsMem = true
		s.fetchedData = uint16(c.regs.Get8(inst.Secondary))

	case AmD16R:
		addr := c.fetchLoHi(c.regs.PC)
		c.regs.PC += 2
		s.memDest = addr
		s.destIsMem = true
		s.fetchedData = c.regs.Get16(inst.Secondary)

	case AmMrD8:
		s.fetchedData = uint16(c.readBus(c.regs.PC))
		c.regs.PC++
		s.memDest = c.regs.Get16(inst.Primary)
		s.destIsMem = true

	case AmMr:
		addr := c.regs.Get16(inst.Primary)
		s.memDest = addr
		s.destIsMem = true
		s.fetchedData = uint16(c.readBus(addr))

	case AmRA16:
		addr := c.fetchLoHi(c.regs.PC)
		c.regs.PC += 2
		s.fetchedData = uint16(c.readBus(addr))

	default:
		c.lockUp(ErrUnknownAddrMode)
	}
}

// get8or16 reads a register by id regardless of its width, widening 8-bit
// values so callers that only care about a numeric operand (PUSH/POP, ALU
// immediates folded through fetchedData) don't need two code paths.
func (c *CPU) get8or16(id RegID) uint16 {
	if id.is16() {
		return c.regs.Get16(id)
	}
	return uint16(c.regs.Get8(id))
}

// addrOf resolves a register id used as a memory pointer. 16-bit pairs are
// used as-is; the lone 8-bit case is RegC in LDH's (C) addressing, which
// always means the zero-page address 0xFF00+C.
func (c *CPU) addrOf(id RegID) uint16 {
	if id.is16() {
		return c.regs.Get16(id)
	}
	return 0xFF00 + uint16(c.regs.Get8(id))
}
