// Package monitor is a line-oriented TCP debug protocol for a running
// *cpu.CPU, intended for an attached test harness rather than a human
// terminal. It is grounded on pkg/vm/tty.go's SerialTTY: the same
// net.Listen("tcp", "127.0.0.1:0") + Accept shape, adapted from a
// byte-at-a-time console register to a line-oriented command reader.
//
// It is purely ambient tooling: pkg/cpu and pkg/asm never import it.
package monitor

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/mos6502/core/pkg/asm"
	"github.com/mos6502/core/pkg/cpu"
)

// Server accepts a single controlling TCP connection at a time and
// serves commands against one *cpu.CPU instance until the connection
// closes.
type Server struct {
	ln net.Listener
	c  *cpu.CPU
}

// Listen opens a TCP listener on an OS-assigned loopback port, the
// way TTYAcceptConn does, and binds it to c.
func Listen(c *cpu.CPU) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln, c: c}, nil
}

// Addr returns the address the monitor is listening on.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.ln.Close()
}

// Serve accepts connections one at a time, forever, handling each to
// completion before accepting the next. It returns only when Accept
// fails, typically because Close was called.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return err
		}
		log.Printf("monitor: console attached from %s", conn.RemoteAddr())
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := s.dispatch(line, scanner)
		if _, err := fmt.Fprintln(conn, reply); err != nil {
			log.Printf("monitor: write failed: %s", err)
			return
		}
	}
}

// dispatch runs one command line and returns the single reply line:
// either the command's result or an "ERR <msg>" line. LOAD is the one
// command that consumes more than its own line: it reads assembly
// source from scanner until a line containing only "." closes the
// body, the way the protocol keeps everything line-oriented without
// embedding newlines inside a single command line.
func (s *Server) dispatch(line string, scanner *bufio.Scanner) string {
	fields := strings.SplitN(line, " ", 2)
	cmd := strings.ToUpper(fields[0])
	var arg string
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}

	switch cmd {
	case "STEP":
		s.c.Resume()
		s.c.Step()
		return fmt.Sprintf("OK running=%t", s.c.Running())

	case "RUN":
		s.c.Run()
		return fmt.Sprintf("OK running=%t", s.c.Running())

	case "RESET":
		s.c.Reset()
		return "OK"

	case "LOAD":
		var body strings.Builder
		if arg != "" {
			body.WriteString(arg)
			body.WriteByte('\n')
		}
		for scanner.Scan() {
			bodyLine := scanner.Text()
			if strings.TrimSpace(bodyLine) == "." {
				break
			}
			body.WriteString(bodyLine)
			body.WriteByte('\n')
		}

		code, start, err := asm.Assemble(body.String())
		if err != nil {
			return "ERR " + err.Error()
		}
		s.c.Reset()
		s.c.Load(code, start)
		return fmt.Sprintf("OK bytes=%d start=$%04X", len(code), start)

	case "REGS":
		snap := s.c.Snapshot()
		return fmt.Sprintf("A=$%02X X=$%02X Y=$%02X PC=$%04X SP=$%02X P=$%02X",
			snap.A, snap.X, snap.Y, snap.PC, snap.SP, snap.P)

	case "PEEK":
		addr, err := strconv.ParseUint(arg, 16, 16)
		if err != nil {
			return "ERR bad address " + arg
		}
		return fmt.Sprintf("$%04X=$%02X", addr, s.c.Read(uint16(addr)))

	default:
		return "ERR unknown command " + cmd
	}
}
