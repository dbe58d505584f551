// Command cpurunner drives the CPU+bus core directly against a Blargg-style
// test ROM, watching its serial output for a pass/fail marker. It bypasses
// internal/emu entirely (no PPU-driven framebuffer, no UI) for fast,
// deterministic CPU-correctness testing.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sm83core/gbcore/internal/bus"
	"github.com/sm83core/gbcore/internal/cpu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	trace := flag.Bool("trace", false, "print PC/opcode/register trace")
	auto := flag.Bool("auto", false, "auto-detect 'Passed'/'Failed N tests' in serial output and exit 0/1")
	until := flag.String("until", "", "stop when serial output contains this substring (case-insensitive)")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s); 0 disables")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}
	var boot []byte
	if *bootPath != "" {
		if boot, err = os.ReadFile(*bootPath); err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
	}

	b := bus.New(rom)
	var ser bytes.Buffer
	b.SetSerialWriter(io.MultiWriter(os.Stdout, &ser))

	c := cpu.New(b)
	if len(boot) >= 0x100 {
		b.SetBootROM(boot)
		c.ResetWithBoot()
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)

	var cycles int
	for i := 0; i < *steps; i++ {
		pc := c.Registers().PC
		cyc, err := c.Step()
		cycles += cyc
		if *trace {
			r := c.Registers()
			fmt.Printf("PC=%04X cyc=%d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X\n",
				pc, cyc, r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP)
		}
		if err != nil {
			fmt.Printf("\nCPU locked: %v\n", err)
			os.Exit(1)
		}

		s := ser.String()
		if *auto {
			if strings.Contains(strings.ToLower(s), "passed") {
				fmt.Printf("\nDetected PASS in serial output.\nDone: steps=%d cycles~=%d elapsed=%s\n",
					i+1, cycles, time.Since(start).Truncate(time.Millisecond))
				os.Exit(0)
			}
			if m := failRe.FindStringSubmatch(s); m != nil {
				fmt.Printf("\nDetected %s in serial output.\nDone: steps=%d cycles~=%d elapsed=%s\n",
					m[0], i+1, cycles, time.Since(start).Truncate(time.Millisecond))
				os.Exit(1)
			}
		} else if *until != "" && strings.Contains(strings.ToLower(s), strings.ToLower(*until)) {
			fmt.Printf("\nDetected %q in serial output.\nDone: steps=%d cycles~=%d elapsed=%s\n",
				*until, i+1, cycles, time.Since(start).Truncate(time.Millisecond))
			return
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			os.Exit(2)
		}
	}
	fmt.Printf("\nDone: steps=%d cycles~=%d elapsed=%s\n", *steps, cycles, time.Since(start).Truncate(time.Millisecond))
}
