package cpu

// Mnemonic identifies which execute handler an Instruction dispatches to.
// The ordering follows the original source's InsType enum.
type Mnemonic uint8

const (
	MnNone Mnemonic = iota
	MnNop
	MnLd
	MnInc
	MnDec
	MnRlca
	MnAdd
	MnRrca
	MnStop
	MnRla
	MnJr
	MnRra
	MnDaa
	MnCpl
	MnScf
	MnCcf
	MnHalt
	MnAdc
	MnSub
	MnSbc
	MnAnd
	MnXor
	MnOr
	MnCp
	MnPop
	MnJp
	MnPush
	MnRet
	MnCb
	MnCall
	MnReti
	MnLdh
	MnJpHL
	MnDi
	MnEi
	MnRst
	MnErr
)

// AddrMode is one of the 21 addressing modes spec.md §4.4 defines.
type AddrMode uint8

const (
	AmImp AddrMode = iota
	AmR
	AmRR
	AmRD8
	AmRD16
	AmD16
	AmMrR
	AmRMr
	AmRHLI
	AmRHLD
	AmHLIR
	AmHLDR
	AmRA8
	AmA8R
	AmHLSPR
	AmD8
	AmD16R
	AmMrD8
	AmMr
	AmA16R
	AmRA16
)

// Condition is the branch condition an instruction tests, or CondNone.
type Condition uint8

const (
	CondNone Condition = iota
	CondNZ
	CondZ
	CondNC
	CondC
)

// Instruction is a fully decoded, immutable table entry: mnemonic,
// addressing mode, operand registers, branch condition, RST/CB param, base
// cycle count, and instruction length in bytes.
type Instruction struct {
	Mnemonic  Mnemonic
	AddrMode  AddrMode
	Primary   RegID
	Secondary RegID
	Condition Condition
	Param     byte
	Cycles    byte
	Size      byte
}

var errInstruction = Instruction{Mnemonic: MnErr, AddrMode: AmImp, Cycles: 4, Size: 1}

// opcodeTable is the static 256-entry primary decode table. Entries not
// assigned below default to errInstruction (invalid opcode, per spec.md
// §4.5's invalid-opcode list) by construction in init().
var opcodeTable [256]Instruction

func in(op byte, i Instruction) {
	if i.Size == 0 {
		i.Size = 1
	}
	opcodeTable[op] = i
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = errInstruction
	}

	// 0x00..0x0F
	in(0x00, Instruction{Mnemonic: MnNop, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0x01, Instruction{Mnemonic: MnLd, AddrMode: AmRD16, Primary: RegBC, Cycles: 12, Size: 3})
	in(0x02, Instruction{Mnemonic: MnLd, AddrMode: AmMrR, Primary: RegBC, Secondary: RegA, Cycles: 8, Size: 1})
	in(0x03, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegBC, Cycles: 8, Size: 1})
	in(0x04, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegB, Cycles: 4, Size: 1})
	in(0x05, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegB, Cycles: 4, Size: 1})
	in(0x06, Instruction{Mnemonic: MnLd, AddrMode: AmRD8, Primary: RegB, Cycles: 8, Size: 2})
	in(0x07, Instruction{Mnemonic: MnRlca, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0x08, Instruction{Mnemonic: MnLd, AddrMode: AmD16R, Secondary: RegSP, Cycles: 20, Size: 3})
	in(0x09, Instruction{Mnemonic: MnAdd, AddrMode: AmRR, Primary: RegHL, Secondary: RegBC, Cycles: 8, Size: 1})
	in(0x0A, Instruction{Mnemonic: MnLd, AddrMode: AmRMr, Primary: RegA, Secondary: RegBC, Cycles: 8, Size: 1})
	in(0x0B, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegBC, Cycles: 8, Size: 1})
	in(0x0C, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegC, Cycles: 4, Size: 1})
	in(0x0D, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegC, Cycles: 4, Size: 1})
	in(0x0E, Instruction{Mnemonic: MnLd, AddrMode: AmRD8, Primary: RegC, Cycles: 8, Size: 2})
	in(0x0F, Instruction{Mnemonic: MnRrca, AddrMode: AmImp, Cycles: 4, Size: 1})

	// 0x10..0x1F
	in(0x10, Instruction{Mnemonic: MnStop, AddrMode: AmD8, Cycles: 4, Size: 2})
	in(0x11, Instruction{Mnemonic: MnLd, AddrMode: AmRD16, Primary: RegDE, Cycles: 12, Size: 3})
	in(0x12, Instruction{Mnemonic: MnLd, AddrMode: AmMrR, Primary: RegDE, Secondary: RegA, Cycles: 8, Size: 1})
	in(0x13, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegDE, Cycles: 8, Size: 1})
	in(0x14, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegD, Cycles: 4, Size: 1})
	in(0x15, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegD, Cycles: 4, Size: 1})
	in(0x16, Instruction{Mnemonic: MnLd, AddrMode: AmRD8, Primary: RegD, Cycles: 8, Size: 2})
	in(0x17, Instruction{Mnemonic: MnRla, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0x18, Instruction{Mnemonic: MnJr, AddrMode: AmD8, Condition: CondNone, Cycles: 12, Size: 2})
	in(0x19, Instruction{Mnemonic: MnAdd, AddrMode: AmRR, Primary: RegHL, Secondary: RegDE, Cycles: 8, Size: 1})
	in(0x1A, Instruction{Mnemonic: MnLd, AddrMode: AmRMr, Primary: RegA, Secondary: RegDE, Cycles: 8, Size: 1})
	in(0x1B, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegDE, Cycles: 8, Size: 1})
	in(0x1C, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegE, Cycles: 4, Size: 1})
	in(0x1D, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegE, Cycles: 4, Size: 1})
	in(0x1E, Instruction{Mnemonic: MnLd, AddrMode: AmRD8, Primary: RegE, Cycles: 8, Size: 2})
	in(0x1F, Instruction{Mnemonic: MnRra, AddrMode: AmImp, Cycles: 4, Size: 1})

	// 0x20..0x2F
	in(0x20, Instruction{Mnemonic: MnJr, AddrMode: AmD8, Condition: CondNZ, Cycles: 8, Size: 2})
	in(0x21, Instruction{Mnemonic: MnLd, AddrMode: AmRD16, Primary: RegHL, Cycles: 12, Size: 3})
	in(0x22, Instruction{Mnemonic: MnLd, AddrMode: AmHLIR, Secondary: RegA, Cycles: 8, Size: 1})
	in(0x23, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegHL, Cycles: 8, Size: 1})
	in(0x24, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegH, Cycles: 4, Size: 1})
	in(0x25, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegH, Cycles: 4, Size: 1})
	in(0x26, Instruction{Mnemonic: MnLd, AddrMode: AmRD8, Primary: RegH, Cycles: 8, Size: 2})
	in(0x27, Instruction{Mnemonic: MnDaa, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0x28, Instruction{Mnemonic: MnJr, AddrMode: AmD8, Condition: CondZ, Cycles: 8, Size: 2})
	in(0x29, Instruction{Mnemonic: MnAdd, AddrMode: AmRR, Primary: RegHL, Secondary: RegHL, Cycles: 8, Size: 1})
	in(0x2A, Instruction{Mnemonic: MnLd, AddrMode: AmRHLI, Primary: RegA, Cycles: 8, Size: 1})
	in(0x2B, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegHL, Cycles: 8, Size: 1})
	in(0x2C, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegL, Cycles: 4, Size: 1})
	in(0x2D, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegL, Cycles: 4, Size: 1})
	in(0x2E, Instruction{Mnemonic: MnLd, AddrMode: AmRD8, Primary: RegL, Cycles: 8, Size: 2})
	in(0x2F, Instruction{Mnemonic: MnCpl, AddrMode: AmImp, Cycles: 4, Size: 1})

	// 0x30..0x3F
	in(0x30, Instruction{Mnemonic: MnJr, AddrMode: AmD8, Condition: CondNC, Cycles: 8, Size: 2})
	in(0x31, Instruction{Mnemonic: MnLd, AddrMode: AmRD16, Primary: RegSP, Cycles: 12, Size: 3})
	in(0x32, Instruction{Mnemonic: MnLd, AddrMode: AmHLDR, Secondary: RegA, Cycles: 8, Size: 1})
	in(0x33, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegSP, Cycles: 8, Size: 1})
	in(0x34, Instruction{Mnemonic: MnInc, AddrMode: AmMr, Primary: RegHL, Cycles: 12, Size: 1})
	in(0x35, Instruction{Mnemonic: MnDec, AddrMode: AmMr, Primary: RegHL, Cycles: 12, Size: 1})
	in(0x36, Instruction{Mnemonic: MnLd, AddrMode: AmMrD8, Primary: RegHL, Cycles: 12, Size: 2})
	in(0x37, Instruction{Mnemonic: MnScf, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0x38, Instruction{Mnemonic: MnJr, AddrMode: AmD8, Condition: CondC, Cycles: 8, Size: 2})
	in(0x39, Instruction{Mnemonic: MnAdd, AddrMode: AmRR, Primary: RegHL, Secondary: RegSP, Cycles: 8, Size: 1})
	in(0x3A, Instruction{Mnemonic: MnLd, AddrMode: AmRHLD, Primary: RegA, Cycles: 8, Size: 1})
	in(0x3B, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegSP, Cycles: 8, Size: 1})
	in(0x3C, Instruction{Mnemonic: MnInc, AddrMode: AmR, Primary: RegA, Cycles: 4, Size: 1})
	in(0x3D, Instruction{Mnemonic: MnDec, AddrMode: AmR, Primary: RegA, Cycles: 4, Size: 1})
	in(0x3E, Instruction{Mnemonic: MnLd, AddrMode: AmRD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0x3F, Instruction{Mnemonic: MnCcf, AddrMode: AmImp, Cycles: 4, Size: 1})

	// 0x40..0x7F: LD r,r' / LD (HL),r / LD r,(HL) / HALT at 0x76
	ldRegs := [8]RegID{RegB, RegC, RegD, RegE, RegH, RegL, RegHL, RegA}
	for d := byte(0); d < 8; d++ {
		for s := byte(0); s < 8; s++ {
			op := 0x40 + d*8 + s
			if op == 0x76 {
				in(op, Instruction{Mnemonic: MnHalt, AddrMode: AmImp, Cycles: 4, Size: 1})
				continue
			}
			dst, src := ldRegs[d], ldRegs[s]
			switch {
			case dst == RegHL:
				in(op, Instruction{Mnemonic: MnLd, AddrMode: AmMrR, Primary: RegHL, Secondary: src, Cycles: 8, Size: 1})
			case src == RegHL:
				in(op, Instruction{Mnemonic: MnLd, AddrMode: AmRMr, Primary: dst, Secondary: RegHL, Cycles: 8, Size: 1})
			default:
				in(op, Instruction{Mnemonic: MnLd, AddrMode: AmRR, Primary: dst, Secondary: src, Cycles: 4, Size: 1})
			}
		}
	}

	// 0x80..0xBF: ALU A,r / A,(HL)
	aluRegs := [8]RegID{RegB, RegC, RegD, RegE, RegH, RegL, RegHL, RegA}
	aluOps := [8]Mnemonic{MnAdd, MnAdc, MnSub, MnSbc, MnAnd, MnXor, MnOr, MnCp}
	for g := byte(0); g < 8; g++ {
		for s := byte(0); s < 8; s++ {
			op := 0x80 + g*8 + s
			src := aluRegs[s]
			cyc := byte(4)
			am := AddrMode(AmR)
			if src == RegHL {
				cyc = 8
				am = AmMr
			}
			in(op, Instruction{Mnemonic: aluOps[g], AddrMode: am, Primary: src, Secondary: src, Cycles: cyc, Size: 1})
		}
	}

	// 0xC0..0xFF
	in(0xC0, Instruction{Mnemonic: MnRet, Condition: CondNZ, Cycles: 8, Size: 1})
	in(0xC1, Instruction{Mnemonic: MnPop, AddrMode: AmR, Primary: RegBC, Cycles: 12, Size: 1})
	in(0xC2, Instruction{Mnemonic: MnJp, AddrMode: AmD16, Condition: CondNZ, Cycles: 12, Size: 3})
	in(0xC3, Instruction{Mnemonic: MnJp, AddrMode: AmD16, Cycles: 16, Size: 3})
	in(0xC4, Instruction{Mnemonic: MnCall, AddrMode: AmD16, Condition: CondNZ, Cycles: 12, Size: 3})
	in(0xC5, Instruction{Mnemonic: MnPush, AddrMode: AmR, Primary: RegBC, Cycles: 16, Size: 1})
	in(0xC6, Instruction{Mnemonic: MnAdd, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xC7, Instruction{Mnemonic: MnRst, Param: 0x00, Cycles: 16, Size: 1})
	in(0xC8, Instruction{Mnemonic: MnRet, Condition: CondZ, Cycles: 8, Size: 1})
	in(0xC9, Instruction{Mnemonic: MnRet, Cycles: 16, Size: 1})
	in(0xCA, Instruction{Mnemonic: MnJp, AddrMode: AmD16, Condition: CondZ, Cycles: 12, Size: 3})
	in(0xCB, Instruction{Mnemonic: MnCb, AddrMode: AmD8, Cycles: 4, Size: 2})
	in(0xCC, Instruction{Mnemonic: MnCall, AddrMode: AmD16, Condition: CondZ, Cycles: 12, Size: 3})
	in(0xCD, Instruction{Mnemonic: MnCall, AddrMode: AmD16, Cycles: 24, Size: 3})
	in(0xCE, Instruction{Mnemonic: MnAdc, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xCF, Instruction{Mnemonic: MnRst, Param: 0x08, Cycles: 16, Size: 1})

	in(0xD0, Instruction{Mnemonic: MnRet, Condition: CondNC, Cycles: 8, Size: 1})
	in(0xD1, Instruction{Mnemonic: MnPop, AddrMode: AmR, Primary: RegDE, Cycles: 12, Size: 1})
	in(0xD2, Instruction{Mnemonic: MnJp, AddrMode: AmD16, Condition: CondNC, Cycles: 12, Size: 3})
	in(0xD4, Instruction{Mnemonic: MnCall, AddrMode: AmD16, Condition: CondNC, Cycles: 12, Size: 3})
	in(0xD5, Instruction{Mnemonic: MnPush, AddrMode: AmR, Primary: RegDE, Cycles: 16, Size: 1})
	in(0xD6, Instruction{Mnemonic: MnSub, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xD7, Instruction{Mnemonic: MnRst, Param: 0x10, Cycles: 16, Size: 1})
	in(0xD8, Instruction{Mnemonic: MnRet, Condition: CondC, Cycles: 8, Size: 1})
	in(0xD9, Instruction{Mnemonic: MnReti, Cycles: 16, Size: 1})
	in(0xDA, Instruction{Mnemonic: MnJp, AddrMode: AmD16, Condition: CondC, Cycles: 12, Size: 3})
	in(0xDC, Instruction{Mnemonic: MnCall, AddrMode: AmD16, Condition: CondC, Cycles: 12, Size: 3})
	in(0xDE, Instruction{Mnemonic: MnSbc, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xDF, Instruction{Mnemonic: MnRst, Param: 0x18, Cycles: 16, Size: 1})

	in(0xE0, Instruction{Mnemonic: MnLdh, AddrMode: AmA8R, Secondary: RegA, Cycles: 12, Size: 2})
	in(0xE1, Instruction{Mnemonic: MnPop, AddrMode: AmR, Primary: RegHL, Cycles: 12, Size: 1})
	in(0xE2, Instruction{Mnemonic: MnLdh, AddrMode: AmMrR, Primary: RegC, Secondary: RegA, Cycles: 8, Size: 1})
	in(0xE5, Instruction{Mnemonic: MnPush, AddrMode: AmR, Primary: RegHL, Cycles: 16, Size: 1})
	in(0xE6, Instruction{Mnemonic: MnAnd, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xE7, Instruction{Mnemonic: MnRst, Param: 0x20, Cycles: 16, Size: 1})
	in(0xE8, Instruction{Mnemonic: MnAdd, AddrMode: AmD8, Primary: RegSP, Cycles: 16, Size: 2})
	in(0xE9, Instruction{Mnemonic: MnJpHL, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0xEA, Instruction{Mnemonic: MnLd, AddrMode: AmA16R, Secondary: RegA, Cycles: 16, Size: 3})
	in(0xEE, Instruction{Mnemonic: MnXor, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xEF, Instruction{Mnemonic: MnRst, Param: 0x28, Cycles: 16, Size: 1})

	in(0xF0, Instruction{Mnemonic: MnLdh, AddrMode: AmRA8, Primary: RegA, Cycles: 12, Size: 2})
	in(0xF1, Instruction{Mnemonic: MnPop, AddrMode: AmR, Primary: RegAF, Cycles: 12, Size: 1})
	in(0xF2, Instruction{Mnemonic: MnLdh, AddrMode: AmRMr, Primary: RegA, Secondary: RegC, Cycles: 8, Size: 1})
	in(0xF3, Instruction{Mnemonic: MnDi, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0xF5, Instruction{Mnemonic: MnPush, AddrMode: AmR, Primary: RegAF, Cycles: 16, Size: 1})
	in(0xF6, Instruction{Mnemonic: MnOr, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xF7, Instruction{Mnemonic: MnRst, Param: 0x30, Cycles: 16, Size: 1})
	in(0xF8, Instruction{Mnemonic: MnLd, AddrMode: AmHLSPR, Primary: RegHL, Secondary: RegSP, Cycles: 12, Size: 2})
	in(0xF9, Instruction{Mnemonic: MnLd, AddrMode: AmRR, Primary: RegSP, Secondary: RegHL, Cycles: 8, Size: 1})
	in(0xFA, Instruction{Mnemonic: MnLd, AddrMode: AmRA16, Primary: RegA, Cycles: 16, Size: 3})
	in(0xFB, Instruction{Mnemonic: MnEi, AddrMode: AmImp, Cycles: 4, Size: 1})
	in(0xFE, Instruction{Mnemonic: MnCp, AddrMode: AmD8, Primary: RegA, Cycles: 8, Size: 2})
	in(0xFF, Instruction{Mnemonic: MnRst, Param: 0x38, Cycles: 16, Size: 1})

	// Invalid opcodes (spec.md §4.5): keep errInstruction (already the
	// default). Listed for documentation: D3 DB DD E3 E4 EB EC ED F4 FC FD.
}
