package console

import (
	"context"
	"fmt"
	"math"
)

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Printf(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

// Run drives the bus continuously until ctx is cancelled, rendering no
// frames itself; the frontend is expected to poll Frame() on its own
// schedule while this runs in a separate goroutine.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b.Tick()
		}
	}
}

// BIOS is a minimal interactive monitor: breakpoints, single
// instruction step, register/stack/memory dump, and a free-run command.
// It blocks on stdin and is meant for command-line debugging sessions,
// not for driving the emulator in normal play.
func (b *Bus) BIOS(ctx context.Context) {
	breaks := make(map[uint16]struct{})

	for {
		fmt.Printf("PC=%04x A=%02x X=%02x Y=%02x SP=%02x SR=%02x\n\n",
			b.cpu.PC(), b.cpu.A(), b.cpu.X(), b.cpu.Y(), b.cpu.SP(), b.cpu.SR())
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run until a breakpoint or ctx cancellation")
		fmt.Println("(S)tep - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - display a memory range")
		fmt.Println("S(t)ack - show the top 3 items on the stack")
		fmt.Println("(I)nstruction - disassemble at the current PC")
		fmt.Println("(P)C - set program counter")
		fmt.Println("PP(U) - show PPU scanline/dot/frame")
		fmt.Println("(Q)uit - exit the monitor")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			b.cpu.SetPC(readAddress("Set PC to what address (eg: 0400)?: "))
		case 'q', 'Q':
			return
		case 'r', 'R':
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				b.StepInstruction()
				if _, hit := breaks[b.cpu.PC()]; hit {
					break
				}
			}
		case 's', 'S':
			b.StepInstruction()
		case 't', 'T':
			fmt.Println()
			for i := 1; i <= 3; i++ {
				addr := 0x0100 + uint16(b.cpu.SP()) + uint16(i)
				if addr > 0x01ff {
					break
				}
				fmt.Printf("0x%04x: 0x%02x ", addr, b.Read(addr))
			}
			fmt.Printf("\n\n")
		case 'i', 'I':
			disasm, _ := b.cpu.Disassemble(b.cpu.PC())
			fmt.Printf("\n%s\n\n", disasm)
		case 'u', 'U':
			fmt.Printf("scanline=%d dot=%d frame=%d\n", b.ppu.Scanline(), b.ppu.Dot(), b.ppu.Frame())
		case 'e', 'E':
			b.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			i := low
			for {
				fmt.Printf("0x%04x: 0x%02x ", i, b.Read(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x++
				i++
			}
			fmt.Printf("\n\n")
		}
	}
}
