// ABOUTME: Structural validation for Forsyth-Edwards Notation positions
// ABOUTME: Checks field layout only; move legality is the editor's concern

package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389/benotes/internal/store"
)

// StartingFEN is the standard initial chess position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN wraps store.ErrInvalidInput so callers map it to a client error.
var ErrInvalidFEN = fmt.Errorf("%w: invalid FEN", store.ErrInvalidInput)

// ValidateFEN checks that fen has six fields and a placement of eight ranks
// of eight squares each.
func ValidateFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rank := range ranks {
		squares := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				squares += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				squares++
			default:
				return fmt.Errorf("%w: bad character %q in rank %d", ErrInvalidFEN, c, 8-i)
			}
		}
		if squares != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, 8-i, squares)
		}
	}

	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if castling := fields[2]; castling != "-" {
		for _, c := range castling {
			if !strings.ContainsRune("KQkq", c) || strings.Count(castling, string(c)) > 1 {
				return fmt.Errorf("%w: castling %q", ErrInvalidFEN, castling)
			}
		}
	}

	if ep := fields[3]; ep != "-" {
		if len(ep) != 2 || ep[0] < 'a' || ep[0] > 'h' || (ep[1] != '3' && ep[1] != '6') {
			return fmt.Errorf("%w: en passant %q", ErrInvalidFEN, ep)
		}
	}

	if n, err := strconv.Atoi(fields[4]); err != nil || n < 0 {
		return fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
	}
	if n, err := strconv.Atoi(fields[5]); err != nil || n < 1 {
		return fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
	}
	return nil
}
