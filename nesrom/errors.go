package nesrom

import "errors"

// Sentinel errors returned by New when a file cannot be loaded as a
// playable NES ROM. Callers distinguish them with errors.Is.
var (
	ErrIncorrectExtension  = errors.New("nesrom: file does not have a .nes extension")
	ErrMissingFile         = errors.New("nesrom: file does not exist or could not be opened")
	ErrMissingHeader       = errors.New("nesrom: file is too short to contain a 16-byte iNES header")
	ErrIncorrectHeaderName = errors.New("nesrom: header is missing the \"NES\\x1A\" constant")
	ErrMissingTrainer      = errors.New("nesrom: header declares a trainer but the file is too short to contain one")
	ErrUnimplementedMapper = errors.New("nesrom: mapper number is not one of the supported boards")
	ErrUnsupportedINesVersion = errors.New("nesrom: header declares an iNES version this loader does not support")
	ErrMissingPRG          = errors.New("nesrom: file is too short to contain the declared PRG ROM")
	ErrMissingCHR          = errors.New("nesrom: file is too short to contain the declared CHR ROM")
)
