package mutation

// aminoAcidThreeToSingle converts three letter amino acid codes to single letter.
// Ter and Xaa are both read as a stop.
var aminoAcidThreeToSingle = map[string]byte{
	"Ala": 'A', "Cys": 'C', "Asp": 'D', "Glu": 'E',
	"Phe": 'F', "Gly": 'G', "His": 'H', "Ile": 'I',
	"Lys": 'K', "Leu": 'L', "Met": 'M', "Asn": 'N',
	"Pro": 'P', "Gln": 'Q', "Arg": 'R', "Ser": 'S',
	"Thr": 'T', "Val": 'V', "Trp": 'W', "Tyr": 'Y',
	"Sec": 'U', "Pyl": 'O',
	"Ter": '*', "Xaa": '*',
}

// residueSingle normalises a residue token ("R", "Arg", "*", "X", "Ter") to its
// single letter code. ok is false for anything that is not a residue.
func residueSingle(tok string) (aa byte, ok bool) {
	switch len(tok) {
	case 1:
		c := tok[0]
		switch {
		case c == '*' || c == 'X':
			return '*', true
		case c >= 'A' && c <= 'Z' && c != 'B' && c != 'J' && c != 'Z':
			return c, true
		}
	case 3:
		aa, ok = aminoAcidThreeToSingle[tok]
		return aa, ok
	}
	return 0, false
}

func isStop(aa byte) bool {
	return aa == '*'
}
