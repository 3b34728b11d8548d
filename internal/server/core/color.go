package core

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the long form used in prompts and logs
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "w"/"b" and the long names
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w", "white", "White":
		return ColorWhite, true
	case "b", "black", "Black":
		return ColorBlack, true
	default:
		return 0, false
	}
}

type PieceKind int

const (
	King PieceKind = iota + 1
	Queen
	Bishop
	Rook
	Knight
	Pawn
)

func (k PieceKind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "unknown"
	}
}

// Letter is the lowercase FEN letter for the kind
func (k PieceKind) Letter() byte {
	switch k {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Knight:
		return 'n'
	case Pawn:
		return 'p'
	default:
		return '?'
	}
}

// KindFromLetter maps a FEN letter of either case to its kind
func KindFromLetter(ch byte) (PieceKind, bool) {
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	switch ch {
	case 'k':
		return King, true
	case 'q':
		return Queen, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'n':
		return Knight, true
	case 'p':
		return Pawn, true
	default:
		return 0, false
	}
}
