// Command gbemu runs a DMG ROM, either windowed (via internal/ui) or
// headless for scripted/CI use.
package main

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sm83core/gbcore/internal/cart"
	"github.com/sm83core/gbcore/internal/emu"
	"github.com/sm83core/gbcore/internal/ui"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gbemu",
		Usage: "a DMG Game Boy emulator core",
		Commands: []*cli.Command{
			runCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run a ROM, windowed by default",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Required: true, Usage: "path to ROM (.gb)"},
			&cli.StringFlag{Name: "bootrom", Usage: "optional DMG boot ROM"},
			&cli.IntFlag{Name: "scale", Value: 3, Usage: "window scale"},
			&cli.StringFlag{Name: "title", Value: "gbemu"},
			&cli.BoolFlag{Name: "trace", Usage: "log every CPU step"},
			&cli.BoolFlag{Name: "save", Value: true, Usage: "persist battery RAM to ROM.sav"},
			&cli.BoolFlag{Name: "headless", Usage: "run without a window"},
			&cli.IntFlag{Name: "frames", Value: 300, Usage: "frames to run in headless mode"},
			&cli.StringFlag{Name: "outpng", Usage: "write last framebuffer to PNG at path"},
			&cli.StringFlag{Name: "expect", Usage: "assert framebuffer CRC32 (hex)"},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	romPath := c.String("rom")
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}
	var boot []byte
	if p := c.String("bootrom"); p != "" {
		if boot, err = os.ReadFile(p); err != nil {
			return fmt.Errorf("read bootrom: %w", err)
		}
	}

	if h, err := cart.ParseHeader(rom); err == nil {
		log.Printf("ROM: %q type=%s banks=%d ram=%dB", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes)
	}

	m := emu.New(emu.Config{Trace: c.Bool("trace"), LimitFPS: !c.Bool("headless")})
	if err := m.LoadCartridge(rom, boot); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	m.SetButtons(emu.Buttons{}) // establish joypad baseline

	savePath := strings.TrimSuffix(romPath, ".gb") + ".sav"
	saveRAM := c.Bool("save")
	if saveRAM {
		if data, err := os.ReadFile(savePath); err == nil {
			if m.LoadBattery(data) {
				log.Printf("loaded save RAM: %s (%d bytes)", savePath, len(data))
			}
		}
	}

	if c.Bool("headless") {
		err := runHeadless(m, c.Int("frames"), c.String("outpng"), c.String("expect"))
		if saveRAM {
			writeBattery(m, savePath)
		}
		return err
	}

	uiCfg := ui.Config{Title: c.String("title"), Scale: c.Int("scale")}
	app := ui.NewApp(uiCfg, m)
	runErr := app.Run()
	if saveRAM {
		writeBattery(m, savePath)
	}
	return runErr
}

func writeBattery(m *emu.Machine, path string) {
	data, ok := m.SaveBattery()
	if !ok {
		return
	}
	if err := os.WriteFile(path, data, 0644); err == nil {
		log.Printf("wrote %s", path)
	}
}

func runHeadless(m *emu.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}
	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)

	fb := m.Framebuffer()
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(frames) / dur.Seconds()
	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(fb, 160, 144, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    append([]byte(nil), pix...),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
