// package nesrom implements support for the NES (iNES, NES2) ROM
// format. https://www.nesdev.org/wiki/INES
package nesrom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type PlayChoicePROM struct {
	Data       [16]byte
	CounterOut [16]byte
}

type ROM struct {
	path      string
	h         *header
	trainer   []byte          // if present
	prg       []byte          // 16384 * x bytes; x from header
	chr       []byte          // 8192 * y bytes; y from header
	chrIsRAM  bool            // chrSize == 0: board supplies its own CHR RAM
	pcInstRom []byte          // if present
	pcPROM    *PlayChoicePROM // if present; often missing - see PC10 ROM-Images
}

const (
	TRAINER_SIZE   = 512
	PRG_BLOCK_SIZE = 16384
	CHR_BLOCK_SIZE = 8192
	PC_INST_SIZE   = 8192
	PC_PROM_SIZE   = 32
)

// SupportedMappers lists the board IDs this engine implements (spec §4.4).
// A mapper number outside this set is rejected at load time rather than
// deep inside mapper dispatch.
var SupportedMappers = map[uint8]bool{
	0: true, 1: true, 2: true, 3: true, 4: true, 7: true, 9: true, 66: true,
}

// New opens path, validates it as a loadable iNES ROM, and reads its PRG,
// CHR, and optional trainer/PlayChoice payloads. Every rejection reason
// except a truncated PlayChoice INST ROM wraps one of the sentinel errors
// in errors.go, so callers can distinguish them with errors.Is; the
// PlayChoice case is a plain error that wraps no sentinel.
func New(path string) (*ROM, error) {
	if !strings.EqualFold(filepath.Ext(path), ".nes") {
		return nil, fmt.Errorf("%q: %w", path, ErrIncorrectExtension)
	}

	rf, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %v", path, ErrMissingFile, err)
	}
	defer rf.Close()

	hbytes := make([]byte, 16)
	if n, err := rf.Read(hbytes); n != 16 || err != nil {
		return nil, fmt.Errorf("%q: %w", path, ErrMissingHeader)
	}

	h := parseHeader(hbytes)
	if !h.isINesFormat() {
		return nil, fmt.Errorf("%q: %w", path, ErrIncorrectHeaderName)
	}
	if h.isNES2Format() {
		// NES 2.0 headers are a superset of iNES for the fields this
		// loader reads (PRG/CHR size, mapper, mirroring, trainer). One
		// is rejected only when byte 9's low nibble (the NES2-only high
		// bits of the PRG ROM size) is nonzero, since this loader
		// doesn't parse it; other NES2-only fields are ignored.
		if hbytes[9]&0x0F != 0 {
			return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedINesVersion)
		}
	}

	r := &ROM{path: path, h: h}

	if !SupportedMappers[r.h.mapperNum()] {
		return nil, fmt.Errorf("%q: mapper %d: %w", path, r.h.mapperNum(), ErrUnimplementedMapper)
	}

	if h.hasTrainer() {
		r.trainer = make([]byte, TRAINER_SIZE)
		if n, err := rf.Read(r.trainer); n != TRAINER_SIZE || err != nil {
			return nil, fmt.Errorf("%q: %w", path, ErrMissingTrainer)
		}
	}

	prgLen := PRG_BLOCK_SIZE * int(h.prgSize)
	r.prg = make([]byte, prgLen)
	if n, err := rf.Read(r.prg); n != prgLen || err != nil {
		return nil, fmt.Errorf("%q: %w", path, ErrMissingPRG)
	}

	if h.chrSize == 0 {
		r.chrIsRAM = true
		r.chr = make([]byte, CHR_BLOCK_SIZE)
	} else {
		chrLen := CHR_BLOCK_SIZE * int(h.chrSize)
		r.chr = make([]byte, chrLen)
		if n, err := rf.Read(r.chr); n != chrLen || err != nil {
			return nil, fmt.Errorf("%q: %w", path, ErrMissingCHR)
		}
	}

	if h.hasPlayChoice() {
		r.pcInstRom = make([]byte, PC_INST_SIZE)
		if n, err := rf.Read(r.pcInstRom); n != PC_INST_SIZE || err != nil {
			return nil, fmt.Errorf("%q: truncated PlayChoice INST ROM (read %d, wanted %d)", path, n, PC_INST_SIZE)
		}

		pcprom := make([]byte, PC_PROM_SIZE)
		if n, err := rf.Read(pcprom); n == PC_PROM_SIZE && err == nil {
			r.pcPROM = &PlayChoicePROM{}
			copy(r.pcPROM.Data[:], pcprom[:16])
			copy(r.pcPROM.CounterOut[:], pcprom[16:])
		}
		// Missing PlayChoice PROM is tolerated: many dumps omit it and
		// it has no bearing on emulation correctness.
	}

	return r, nil
}

func (r *ROM) NumPrgBlocks() uint8 {
	return r.h.prgSize
}

func (r *ROM) PrgSize() int { return len(r.prg) }
func (r *ROM) ChrSize() int { return len(r.chr) }

// ChrIsRAM reports whether the cartridge supplies its own CHR RAM (header
// byte 5 == 0) rather than fixed CHR ROM.
func (r *ROM) ChrIsRAM() bool { return r.chrIsRAM }

func (r *ROM) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", r.h))
	if r.h.hasTrainer() {
		sb.WriteString(fmt.Sprintf("Trainer: %v\n", r.trainer))
	}

	sb.WriteString(fmt.Sprintf("PRG: %d bytes\n", len(r.prg)))
	sb.WriteString(fmt.Sprintf("CHR: %d bytes (RAM: %v)\n", len(r.chr), r.chrIsRAM))

	return sb.String()
}

func (r *ROM) PrgRead(addr uint16) uint8 {
	return r.prg[int(addr)%len(r.prg)]
}

func (r *ROM) PrgWrite(addr uint16, val uint8) {
	r.prg[int(addr)%len(r.prg)] = val
}

func (r *ROM) ChrRead(addr uint16) uint8 {
	return r.chr[int(addr)%len(r.chr)]
}

func (r *ROM) ChrWrite(addr uint16, val uint8) {
	if !r.chrIsRAM {
		return
	}
	r.chr[int(addr)%len(r.chr)] = val
}

func (r *ROM) MapperNum() uint8 {
	return r.h.mapperNum()
}

func (r *ROM) MirroringMode() uint8 {
	return r.h.mirroringMode()
}

func (r *ROM) HasSaveRAM() bool {
	return r.h.hasPrgRAM()
}

func (r *ROM) PrgRAMSize() uint8 {
	return r.h.prgRAMSize()
}
