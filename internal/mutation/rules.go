package mutation

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule assigns Category to every normalised notation body that Match accepts.
// Rules are tried in slice order and the first match wins, so the order of a
// rule list is its priority.
type Rule struct {
	Name     string
	Category Category
	Match    func(body string) bool
}

var (
	// proteinLocus is the leading position of a protein change: an optional
	// residue followed by a number ("R123", "Ala45", "*110", "124").
	proteinLocus = regexp.MustCompile(`^(?:[A-Z][a-z]{2}|[A-Z*])?\d+`)

	// proteinPoint is a single residue change ("R123*", "Leu10=", "Arg12Cys").
	proteinPoint = regexp.MustCompile(`^([A-Z][a-z]{2}|[A-Z*])(\d+)([A-Z][a-z]{2}|[A-Z*]|=)$`)

	// nucleotideLocus is the leading position of a coding DNA change, including
	// 5' UTR ("-14") and 3' UTR ("*23") positions.
	nucleotideLocus = regexp.MustCompile(`^[-*]?\d`)

	nucleotideSubst  = regexp.MustCompile(`(?i)[ACGTUN]+>[ACGTUN]+$`)
	nucleotideDelIns = regexp.MustCompile(`(?i)del([ACGTUN]*)ins([ACGTUN]*)`)
	nucleotideRange  = regexp.MustCompile(`^(\d+)(?:_(\d+))?(?:del|DEL)`)
)

// ProteinRules is the priority-ordered rule list for amino acid notations.
//
// Frame shift is checked before in-frame indel because frame shifts are
// frequently written with deletion or insertion residues ("L10delfs"), and
// indels are checked before nonsense so an indel that introduces a stop
// ("R12delins*") stays an indel.
var ProteinRules = []Rule{
	{Name: "frame shift", Category: FrameShift, Match: proteinMarker("fs")},
	{Name: "in-frame indel", Category: Indel, Match: proteinMarker("del", "ins", "dup")},
	{Name: "stop-loss extension", Category: Missense, Match: proteinMarker("ext")},
	{Name: "nonsense", Category: Nonsense, Match: pointChange(func(ref, alt byte) bool {
		return isStop(alt) && !isStop(ref)
	})},
	{Name: "protein unchanged", Category: Synonymous, Match: func(body string) bool {
		return body == "="
	}},
	{Name: "synonymous", Category: Synonymous, Match: pointChange(func(ref, alt byte) bool {
		return ref == alt
	})},
	{Name: "missense", Category: Missense, Match: pointChange(func(ref, alt byte) bool {
		return ref != alt
	})},
}

// NucleotideRules is the priority-ordered rule list for coding DNA notations.
// Combined deletion-insertions are resolved by their net length change before
// the plain deletion and insertion markers are considered.
var NucleotideRules = []Rule{
	{Name: "delins net insertion", Category: Insertion, Match: delIns(func(net int, known bool) bool {
		return known && net > 0
	})},
	{Name: "delins balanced", Category: Substitution, Match: delIns(func(net int, known bool) bool {
		return known && net == 0
	})},
	{Name: "delins net deletion", Category: Deletion, Match: delIns(func(net int, known bool) bool {
		return !known || net < 0
	})},
	{Name: "deletion", Category: Deletion, Match: nucleotideMarker("del")},
	{Name: "insertion", Category: Insertion, Match: nucleotideMarker("ins", "dup")},
	{Name: "substitution", Category: Substitution, Match: func(body string) bool {
		return nucleotideLocus.MatchString(body) && nucleotideSubst.MatchString(body)
	}},
}

// proteinMarker matches a protein change with a position and any of markers.
func proteinMarker(markers ...string) func(string) bool {
	return func(body string) bool {
		if !proteinLocus.MatchString(body) {
			return false
		}
		for _, m := range markers {
			if strings.Contains(body, m) {
				return true
			}
		}
		return false
	}
}

// pointChange matches a single residue change whose residues satisfy pred.
// An "=" alternate is read as the reference residue.
func pointChange(pred func(ref, alt byte) bool) func(string) bool {
	return func(body string) bool {
		m := proteinPoint.FindStringSubmatch(body)
		if m == nil {
			return false
		}
		ref, ok := residueSingle(m[1])
		if !ok {
			return false
		}
		alt := ref
		if m[3] != "=" {
			if alt, ok = residueSingle(m[3]); !ok {
				return false
			}
		}
		return pred(ref, alt)
	}
}

// nucleotideMarker matches a DNA change with a position and any of markers.
// Markers are matched case-insensitively.
func nucleotideMarker(markers ...string) func(string) bool {
	return func(body string) bool {
		if !nucleotideLocus.MatchString(body) {
			return false
		}
		lower := strings.ToLower(body)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return true
			}
		}
		return false
	}
}

// delIns matches a combined deletion-insertion and hands pred the net length
// change (inserted minus deleted bases). known is false when either length
// cannot be read from the notation.
func delIns(pred func(net int, known bool) bool) func(string) bool {
	return func(body string) bool {
		if !nucleotideLocus.MatchString(body) {
			return false
		}
		m := nucleotideDelIns.FindStringSubmatch(body)
		if m == nil {
			return false
		}
		deleted, inserted := len(m[1]), len(m[2])
		if deleted == 0 {
			deleted = deletedSpan(body)
		}
		if deleted == 0 || inserted == 0 {
			return pred(0, false)
		}
		return pred(inserted-deleted, true)
	}
}

// deletedSpan returns the number of bases covered by a plain "start_end" or
// "pos" range in front of a deletion, or 0 when the range has intronic or
// uncertain offsets.
func deletedSpan(body string) int {
	m := nucleotideRange.FindStringSubmatch(body)
	if m == nil {
		return 0
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if m[2] == "" {
		return 1
	}
	end, err := strconv.Atoi(m[2])
	if err != nil || end < start {
		return 0
	}
	return end - start + 1
}
