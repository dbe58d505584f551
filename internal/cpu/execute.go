package cpu

// execute dispatches on mnemonic and carries out the instruction using the
// operand(s) fetchData already staged in c.state. Each handler ticks any
// cycles it spends beyond what fetchInstruction/fetchData already charged for
// bus accesses — an internal-only cost (ALU on 16-bit registers, branch
// taken, stack push/pop setup) the original source charges inline via
// AddEmulatorCycles in cpu_proc.c's per-opcode handlers.
func (c *CPU) execute(inst *Instruction) {
	switch inst.Mnemonic {
	case MnNop, MnStop:
		// STOP's display-off/speed-switch behavior is out of this core's
		// scope; treat it as a NOP the way a DMG-only core can.

	case MnLd:
		c.execLd(inst)
	case MnLdh:
		c.execLdh(inst)

	case MnInc:
		c.execIncDec(inst, true)
	case MnDec:
		c.execIncDec(inst, false)

	case MnAdd:
		c.execAdd(inst)
	case MnAdc:
		a := c.regs.A
		v := c.operand8(inst)
		res, z, n, h, cy := adc8(a, v, c.regs.flag(flagC))
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	case MnSub:
		a := c.regs.A
		v := c.operand8(inst)
		res, z, n, h, cy := sub8(a, v)
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	case MnSbc:
		a := c.regs.A
		v := c.operand8(inst)
		res, z, n, h, cy := sbc8(a, v, c.regs.flag(flagC))
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	case MnAnd:
		a := c.regs.A
		v := c.operand8(inst)
		res, z, n, h, cy := and8(a, v)
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	case MnXor:
		a := c.regs.A
		v := c.operand8(inst)
		res, z, n, h, cy := xor8(a, v)
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	case MnOr:
		a := c.regs.A
		v := c.operand8(inst)
		res, z, n, h, cy := or8(a, v)
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	case MnCp:
		a := c.regs.A
		v := c.operand8(inst)
		_, z, n, h, cy := cp8(a, v)
		c.regs.setFlags(z, n, h, cy)

	case MnCpl:
		c.regs.A = ^c.regs.A
		c.regs.F = c.regs.F | flagN | flagH
	case MnScf:
		c.regs.F = c.regs.F&flagZ | flagC
	case MnCcf:
		c.regs.F = c.regs.F&(flagZ|flagC) ^ flagC
	case MnDaa:
		c.execDaa()

	case MnRlca:
		c.regs.A = c.rotateLeft(c.regs.A, false)
	case MnRla:
		c.regs.A = c.rotateLeft(c.regs.A, true)
	case MnRrca:
		c.regs.A = c.rotateRight(c.regs.A, false)
	case MnRra:
		c.regs.A = c.rotateRight(c.regs.A, true)

	case MnJr:
		c.execJr(inst)
	case MnJp:
		c.execJp(inst)
	case MnJpHL:
		c.regs.PC = c.regs.Get16(RegHL)

	case MnCall:
		c.execCall(inst)
	case MnRet:
		c.execRet(inst, false)
	case MnReti:
		c.execRet(inst, true)
	case MnRst:
		c.tick(1)
		c.pushWord(c.regs.PC)
		c.regs.PC = uint16(inst.Param)

	case MnPush:
		c.tick(1)
		c.pushWord(c.regs.Get16(inst.Primary))
	case MnPop:
		v := c.popWord()
		if inst.Primary == RegAF {
			v &^= 0x000F
		}
		c.regs.Set16(inst.Primary, v)

	case MnDi:
		c.intr.ime = false
		c.intr.imePending = false
	case MnEi:
		c.intr.imePending = true

	case MnHalt:
		c.execHalt()

	case MnCb:
		c.executeCB(byte(c.state.fetchedData))

	case MnErr:
		c.lockUp(ErrInvalidOpcode)

	default:
		c.lockUp(ErrInvalidOpcode)
	}
}

// operand8 returns the 8-bit operand an ALU instruction already staged,
// regardless of whether it came from a register, (HL), or an immediate —
// fetchData already normalized all three into fetchedData.
func (c *CPU) operand8(inst *Instruction) byte {
	return byte(c.state.fetchedData)
}

func (c *CPU) writeResult8(inst *Instruction, v byte) {
	if c.state.destIsMem {
		c.writeBus(c.state.memDest, v)
		return
	}
	c.regs.Set8(inst.Primary, v)
}

func (c *CPU) execLd(inst *Instruction) {
	switch inst.AddrMode {
	case AmRR:
		if inst.Primary == RegSP && inst.Secondary == RegHL {
			c.tick(1)
		}
		if inst.Primary.is16() {
			c.regs.Set16(inst.Primary, c.state.fetchedData)
		} else {
			c.regs.Set8(inst.Primary, byte(c.state.fetchedData))
		}
	case AmRD16, AmD16:
		c.regs.Set16(inst.Primary, c.state.fetchedData)
	case AmRD8:
		c.regs.Set8(inst.Primary, byte(c.state.fetchedData))
	case AmRMr:
		c.regs.Set8(inst.Primary, byte(c.state.fetchedData))
	case AmMrR, AmHLIR, AmHLDR, AmMrD8, AmA8R, AmA16R:
		c.writeResult8(inst, byte(c.state.fetchedData))
	case AmD16R:
		v := c.state.fetchedData
		c.writeBus(c.state.memDest, byte(v))
		c.writeBus(c.state.memDest+1, byte(v>>8))
	case AmRHLI, AmRHLD, AmRA16, AmRA8:
		c.regs.Set8(inst.Primary, byte(c.state.fetchedData))
	case AmHLSPR:
		res, h, cy := addSPSigned(c.regs.SP, byte(c.state.fetchedData))
		c.tick(1)
		c.regs.Set16(RegHL, res)
		c.regs.setFlags(false, false, h, cy)
	default:
		c.lockUp(ErrUnknownAddrMode)
	}
}

func (c *CPU) execLdh(inst *Instruction) {
	switch inst.AddrMode {
	case AmRA8:
		c.regs.Set8(inst.Primary, byte(c.state.fetchedData))
	case AmA8R:
		c.writeBus(c.state.memDest, byte(c.state.fetchedData))
	case AmMrR:
		c.writeBus(c.state.memDest, byte(c.state.fetchedData))
	case AmRMr:
		c.regs.Set8(inst.Primary, byte(c.state.fetchedData))
	}
}

func (c *CPU) execIncDec(inst *Instruction, isInc bool) {
	switch inst.AddrMode {
	case AmR:
		if inst.Primary.is16() {
			v := c.regs.Get16(inst.Primary)
			if isInc {
				v++
			} else {
				v--
			}
			c.tick(1)
			c.regs.Set16(inst.Primary, v)
			return
		}
		v := c.regs.Get8(inst.Primary)
		var res byte
		var z, h bool
		if isInc {
			res, z, h = inc8(v)
		} else {
			res, z, h = dec8(v)
		}
		c.regs.Set8(inst.Primary, res)
		c.regs.setFlags(z, !isInc, h, c.regs.flag(flagC))
	case AmMr:
		v := byte(c.state.fetchedData)
		var res byte
		var z, h bool
		if isInc {
			res, z, h = inc8(v)
		} else {
			res, z, h = dec8(v)
		}
		c.writeBus(c.state.memDest, res)
		c.regs.setFlags(z, !isInc, h, c.regs.flag(flagC))
	}
}

func (c *CPU) execAdd(inst *Instruction) {
	switch inst.AddrMode {
	case AmRR:
		a := c.regs.Get16(inst.Primary)
		b := c.state.fetchedData
		res, h, cy := add16(a, b)
		c.tick(1)
		c.regs.Set16(inst.Primary, res)
		c.regs.setFlags(c.regs.flag(flagZ), false, h, cy)
	case AmD8:
		if inst.Primary == RegSP {
			res, h, cy := addSPSigned(c.regs.SP, byte(c.state.fetchedData))
			c.tick(2)
			c.regs.SP = res
			c.regs.setFlags(false, false, h, cy)
			return
		}
		a := c.regs.A
		v := byte(c.state.fetchedData)
		res, z, n, h, cy := add8(a, v)
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	default:
		a := c.regs.A
		v := c.operand8(inst)
		res, z, n, h, cy := add8(a, v)
		c.regs.A = res
		c.regs.setFlags(z, n, h, cy)
	}
}

func (c *CPU) execDaa() {
	a := c.regs.A
	n := c.regs.flag(flagN)
	h := c.regs.flag(flagH)
	cy := c.regs.flag(flagC)
	var adjust byte
	newCarry := cy

	if n {
		if h {
			adjust += 0x06
		}
		if cy {
			adjust += 0x60
		}
		a -= adjust
	} else {
		if h || a&0xF > 0x9 {
			adjust += 0x06
		}
		if cy || a > 0x99 {
			adjust += 0x60
			newCarry = true
		}
		a += adjust
	}

	c.regs.A = a
	c.regs.setFlags(a == 0, n, false, newCarry)
}

func (c *CPU) rotateLeft(v byte, throughCarry bool) byte {
	carryOut := v&0x80 != 0
	var res byte
	if throughCarry {
		in := byte(0)
		if c.regs.flag(flagC) {
			in = 1
		}
		res = v<<1 | in
	} else {
		in := byte(0)
		if carryOut {
			in = 1
		}
		res = v<<1 | in
	}
	c.regs.setFlags(false, false, false, carryOut)
	return res
}

func (c *CPU) rotateRight(v byte, throughCarry bool) byte {
	carryOut := v&0x01 != 0
	var res byte
	if throughCarry {
		in := byte(0)
		if c.regs.flag(flagC) {
			in = 0x80
		}
		res = v>>1 | in
	} else {
		in := byte(0)
		if carryOut {
			in = 0x80
		}
		res = v>>1 | in
	}
	c.regs.setFlags(false, false, false, carryOut)
	return res
}

func (c *CPU) checkCondition(cond Condition) bool {
	switch cond {
	case CondNone:
		return true
	case CondNZ:
		return !c.regs.flag(flagZ)
	case CondZ:
		return c.regs.flag(flagZ)
	case CondNC:
		return !c.regs.flag(flagC)
	case CondC:
		return c.regs.flag(flagC)
	}
	return false
}

func (c *CPU) execJr(inst *Instruction) {
	offset := int8(byte(c.state.fetchedData))
	if !c.checkCondition(inst.Condition) {
		return
	}
	c.tick(1)
	c.regs.PC = uint16(int32(c.regs.PC) + int32(offset))
}

func (c *CPU) execJp(inst *Instruction) {
	if !c.checkCondition(inst.Condition) {
		return
	}
	c.tick(1)
	c.regs.PC = c.state.fetchedData
}

func (c *CPU) execCall(inst *Instruction) {
	if !c.checkCondition(inst.Condition) {
		return
	}
	c.tick(1)
	c.pushWord(c.regs.PC)
	c.regs.PC = c.state.fetchedData
}

func (c *CPU) execRet(inst *Instruction, isReti bool) {
	if inst.Condition != CondNone {
		c.tick(1)
	}
	if !c.checkCondition(inst.Condition) {
		return
	}
	c.tick(1)
	c.regs.PC = c.popWord()
	if isReti {
		c.intr.ime = true
		c.intr.imePending = false
	}
}

// execHalt implements the documented HALT bug: if IME is clear but an
// interrupt is already pending (IE&IF != 0) at the moment HALT executes, the
// CPU does not actually halt — instead the byte following HALT is fetched
// twice, because PC fails to advance past it on the next fetch.
func (c *CPU) execHalt() {
	pending := c.bus.IE() & c.bus.IF() & 0x1F
	if !c.intr.ime && pending != 0 {
		c.haltBug = true
		return
	}
	c.halted = true
}
