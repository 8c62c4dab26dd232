package mutation

import "strings"

// ClassifyAminoAcid returns the protein taxonomy category of an amino acid
// change notation such as "p.R123*", "p.Ala45fs" or "p.(L10L)".
// It never fails: notations no rule recognises are Unclassified.
func ClassifyAminoAcid(notation string) Category {
	return apply(ProteinRules, normalize(notation, "p."))
}

// ClassifyNucleotide returns the nucleotide taxonomy category of a DNA change
// notation such as "c.34delA" or "c.88A>G".
// It never fails: notations no rule recognises are Unclassified.
func ClassifyNucleotide(notation string) Category {
	return apply(NucleotideRules, normalize(notation, "c.", "g.", "n.", "m.", "r."))
}

// Classify classifies notation under taxonomy t.
func Classify(t Taxonomy, notation string) (Category, error) {
	switch t {
	case Protein:
		return ClassifyAminoAcid(notation), nil
	case Nucleotide:
		return ClassifyNucleotide(notation), nil
	}
	return "", &InvalidTaxonomyError{Taxonomy: t}
}

// Rules returns the priority-ordered rule list of taxonomy t, or nil.
func Rules(t Taxonomy) []Rule {
	switch t {
	case Protein:
		return ProteinRules
	case Nucleotide:
		return NucleotideRules
	}
	return nil
}

// MatchingRule returns the name of the first rule of t matching notation, or
// "" when the notation is unclassified. Used to explain a classification.
func MatchingRule(t Taxonomy, notation string) string {
	var body string
	switch t {
	case Protein:
		body = normalize(notation, "p.")
	case Nucleotide:
		body = normalize(notation, "c.", "g.", "n.", "m.", "r.")
	default:
		return ""
	}
	if r, ok := firstMatch(Rules(t), body); ok {
		return r.Name
	}
	return ""
}

func apply(rules []Rule, body string) Category {
	if r, ok := firstMatch(rules, body); ok {
		return r.Category
	}
	return Unclassified
}

func firstMatch(rules []Rule, body string) (Rule, bool) {
	if body == "" {
		return Rule{}, false
	}
	for _, r := range rules {
		if r.Match(body) {
			return r, true
		}
	}
	return Rule{}, false
}

// normalize strips whitespace, a sequence accession ("ENST0001.1:"), the
// coordinate type prefix and one pair of enclosing parentheses.
func normalize(notation string, prefixes ...string) string {
	s := strings.TrimSpace(notation)
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			s = s[len(p):]
			break
		}
	}
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
