// Command mos6502 is the CLI host for the assembler and interpreter
// core in pkg/asm and pkg/cpu. It replaces the teacher's three
// single-purpose binaries (asm/vm/interp) with one urfave/cli.v2 app
// of subcommands, the way master-g-childhood/go/chr2png structures
// its single-purpose image tool, generalized to three actions.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mos6502/core/internal/monitor"
	"github.com/mos6502/core/pkg/asm"
	"github.com/mos6502/core/pkg/cpu"

	"gopkg.in/urfave/cli.v2"
)

func main() {
	log.SetFlags(0)

	app := &cli.App{
		Name:    "mos6502",
		Usage:   "assemble and run programs for the 6502 core subset",
		Version: "v0.1.0",
		Commands: []*cli.Command{
			assembleCommand,
			runCommand,
			monitorCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var assembleCommand = &cli.Command{
	Name:      "assemble",
	Usage:     "assemble a source file and write the machine code to stdout",
	ArgsUsage: "<source-file>",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return cli.Exit("usage: mos6502 assemble <source-file>", 2)
		}
		source, err := os.ReadFile(c.Args().First())
		if err != nil {
			return cli.Exit(err, 1)
		}
		code, _, err := asm.Assemble(string(source))
		if err != nil {
			return cli.Exit(err, 1)
		}
		os.Stdout.Write(code)
		return nil
	},
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "assemble and run a source file to completion",
	ArgsUsage: "<source-file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "dump-screen",
			Usage: "render memory 0x0200-0x02FF as hex/ASCII after halting",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log the register snapshot after each step",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return cli.Exit("usage: mos6502 run [--dump-screen] [-v] <source-file>", 2)
		}
		source, err := os.ReadFile(c.Args().First())
		if err != nil {
			return cli.Exit(err, 1)
		}
		code, start, err := asm.Assemble(string(source))
		if err != nil {
			return cli.Exit(err, 1)
		}

		machine := cpu.New()
		machine.Load(code, start)

		if c.Bool("verbose") {
			machine.RunTraced(func(snap cpu.Snapshot) {
				log.Printf("mos6502: A=$%02X X=$%02X Y=$%02X PC=$%04X SP=$%02X P=$%02X cycles=%d",
					snap.A, snap.X, snap.Y, snap.PC, snap.SP, snap.P, snap.Cycles)
			})
		} else {
			machine.Run()
		}

		if fault := machine.Fault; fault != nil {
			log.Printf("mos6502: unknown opcode $%02X at $%04X, halted", fault.Opcode, fault.Addr)
		} else if machine.Limited() {
			log.Printf("mos6502: step limit (%d) reached, halted", cpu.MaxSteps)
		}

		if c.Bool("dump-screen") {
			dumpScreen(machine)
		}
		return nil
	},
}

var monitorCommand = &cli.Command{
	Name:  "monitor",
	Usage: "listen for a debug-protocol connection and serve an idle CPU",
	Action: func(c *cli.Context) error {
		machine := cpu.New()
		srv, err := monitor.Listen(machine)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer srv.Close()
		log.Printf("mos6502: monitor listening on %s", srv.Addr())
		return srv.Serve()
	},
}

// dumpScreen renders 0x0200-0x02FF as 16 rows of hex bytes
// followed by their ASCII rendering, dots for non-printable bytes --
// purely a CLI-host convention, pkg/cpu has no notion of a screen.
func dumpScreen(machine *cpu.CPU) {
	const (
		screenStart = 0x0200
		screenEnd   = 0x02FF
		rowWidth    = 16
	)
	for row := screenStart; row <= screenEnd; row += rowWidth {
		var hexPart, asciiPart string
		for col := 0; col < rowWidth; col++ {
			b := machine.Read(uint16(row + col))
			hexPart += fmt.Sprintf("%02X ", b)
			if b >= 0x20 && b < 0x7F {
				asciiPart += string(rune(b))
			} else {
				asciiPart += "."
			}
		}
		fmt.Printf("$%04X  %s %s\n", row, hexPart, asciiPart)
	}
}
