package cpu

// CPU is the SM83 core: register file, decode/execute state, interrupt
// controller, and the bus it drives. A single value owns all mutable state —
// there is no package-level state and no virtual dispatch, per spec.md §9.
type CPU struct {
	regs  Registers
	bus   Bus
	state instructionState
	intr  interruptState

	halted  bool
	haltBug bool

	// locked is set once an invalid opcode or decode failure is hit; the CPU
	// then refuses to execute further instructions, mirroring real DMG
	// hardware locking up on an illegal opcode.
	locked  bool
	lockErr error

	cyclesThisStep int
}

// New wires a CPU to the bus it will read/write and resets it to the DMG
// post-boot-ROM state spec.md §4.3 fixes as the reference behavior.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset restores the post-boot register file and clears interrupt/halt state.
func (c *CPU) Reset() {
	c.regs.ResetPostBoot()
	c.state.reset()
	c.intr = interruptState{}
	c.halted = false
	c.haltBug = false
	c.locked = false
	c.lockErr = nil
}

// ResetWithBoot restarts execution at 0x0000 with SP/registers zeroed, as if
// a boot ROM is mapped at reset and will initialize them itself.
func (c *CPU) ResetWithBoot() {
	c.regs = Registers{}
	c.state.reset()
	c.intr = interruptState{}
	c.halted = false
	c.haltBug = false
	c.locked = false
	c.lockErr = nil
}

// Locked reports whether an invalid opcode halted the CPU permanently, and
// the error that caused it.
func (c *CPU) Locked() (bool, error) { return c.locked, c.lockErr }

// Registers exposes the register file for inspection (tests, debug tooling).
func (c *CPU) Registers() *Registers { return &c.regs }

// IsHalted reports whether the CPU is currently parked in HALT.
func (c *CPU) IsHalted() bool { return c.halted }

func (c *CPU) lockUp(cause error) {
	if c.locked {
		return
	}
	c.locked = true
	c.lockErr = &CpuError{Cause: cause, Opcode: c.state.curOpcode, PC: c.regs.PC}
}

// Step runs exactly one instruction (or one interrupt dispatch, or one halted
// idle tick) and returns the number of M-cycles it consumed: gate on pending
// interrupts, fetch, execute, account cycles. A locked CPU runs nothing and
// returns 0 cycles with its lock error.
func (c *CPU) Step() (int, error) {
	if c.locked {
		return 0, c.lockErr
	}

	c.cyclesThisStep = 0

	if c.halted {
		if c.handleInterrupts() {
			c.resolveImePending()
			return c.cyclesThisStep, nil
		}
		c.tick(1)
		return c.cyclesThisStep, nil
	}

	if c.handleInterrupts() {
		c.resolveImePending()
		return c.cyclesThisStep, nil
	}

	imePendingAtFetch := c.intr.imePending

	c.state.reset()
	c.fetchInstruction()

	if c.haltBug {
		c.regs.PC--
		c.haltBug = false
	}

	inst := c.state.curInst
	c.fetchData()
	c.execute(inst)

	// EI's one-instruction delay: IME flips on the fetch boundary that
	// follows the instruction running when imePending was already set, not
	// on the EI instruction itself.
	if imePendingAtFetch {
		c.resolveImePending()
	}

	if c.locked {
		return c.cyclesThisStep, c.lockErr
	}
	return c.cyclesThisStep, nil
}
