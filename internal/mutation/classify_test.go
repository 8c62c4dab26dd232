package mutation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAminoAcid(t *testing.T) {
	tests := []struct {
		notation string
		want     Category
	}{
		// Examples from the COSMIC and MAF exports
		{"p.R123*", Nonsense},
		{"p.A45fs", FrameShift},
		{"p.L10L", Synonymous},
		{"p.G12C", Missense},
		{"p.V600E", Missense},

		// Frame shift
		{"p.Ala45GlyfsTer12", FrameShift},
		{"p.A45fs*12", FrameShift},
		{"p.L10delfs", FrameShift},

		// In-frame indels
		{"p.E746_A750del", Indel},
		{"p.K124_A125insG", Indel},
		{"p.A767_V769dup", Indel},
		{"p.R12delinsLK*", Indel},
		{"p.Glu746_Ala750del", Indel},

		// Stop loss
		{"p.*110Qext*17", Missense},
		{"p.Ter110GlnextTer17", Missense},
		{"p.*123R", Missense},

		// Nonsense
		{"p.Arg123Ter", Nonsense},
		{"p.R123X", Nonsense},
		{"p.Q61*", Nonsense},

		// Synonymous
		{"p.Leu10=", Synonymous},
		{"p.Leu10Leu", Synonymous},
		{"p.*123*", Synonymous},
		{"p.=", Synonymous},
		{"p.(=)", Synonymous},
		{"p.==", Unclassified},

		// Wrapped and prefixed
		{"p.(R123*)", Nonsense},
		{"ENSP00000256078:p.G12D", Missense},
		{"  p.G12D  ", Missense},
		{"G12D", Missense},

		// Unclassified
		{"", Unclassified},
		{"p.?", Unclassified},
		{"p.M1?", Unclassified},
		{"p.X12_splice", Unclassified},
		{"???", Unclassified},
		{"p.G12", Unclassified},
		{"p.B12C", Unclassified},
		{"p.fs", Unclassified},
		{"del", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAminoAcid(tt.notation))
		})
	}
}

func TestClassifyNucleotide(t *testing.T) {
	tests := []struct {
		notation string
		want     Category
	}{
		{"c.34delA", Deletion},
		{"c.200_201insT", Insertion},
		{"c.88A>G", Substitution},

		{"c.35G>T", Substitution},
		{"c.100+1G>A", Substitution},
		{"c.-14G>C", Substitution},
		{"c.*23a>g", Substitution},
		{"c.10_11AG>TC", Substitution},
		{"g.12345A>T", Substitution},
		{"ENST00000311936:c.35G>T", Substitution},

		{"c.2235_2249del15", Deletion},
		{"c.2235_2249delGGAATTAAGAGAAGC", Deletion},
		{"c.100DEL", Deletion},

		{"c.200dupA", Insertion},
		{"c.100_101insAGT", Insertion},

		// Combined deletion-insertion resolved by net length
		{"c.34delAinsTT", Insertion},
		{"c.10_11delAGinsTC", Substitution},
		{"c.10_11delinsTC", Substitution},
		{"c.200_205delinsT", Deletion},
		{"c.100+1_100+5delinsA", Deletion},
		{"c.34delins", Deletion},

		{"", Unclassified},
		{"c.?", Unclassified},
		{"c.100_102inv", Unclassified},
		{"model", Unclassified},
		{"A>G", Unclassified},
		{"???", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyNucleotide(tt.notation))
		})
	}
}

func TestRulePriority(t *testing.T) {
	// Notations matching more than one rule resolve to the earlier rule.
	assert.Equal(t, "frame shift", MatchingRule(Protein, "p.L10delfs"))
	assert.Equal(t, "in-frame indel", MatchingRule(Protein, "p.R12delins*"))
	assert.Equal(t, "stop-loss extension", MatchingRule(Protein, "p.*110Qext*17"))
	assert.Equal(t, "nonsense", MatchingRule(Protein, "p.R123*"))
	assert.Equal(t, "synonymous", MatchingRule(Protein, "p.L10L"))
	assert.Equal(t, "protein unchanged", MatchingRule(Protein, "p.="))
	assert.Equal(t, "missense", MatchingRule(Protein, "p.L10P"))
	assert.Equal(t, "", MatchingRule(Protein, "p.?"))

	assert.Equal(t, "delins net insertion", MatchingRule(Nucleotide, "c.34delAinsTT"))
	assert.Equal(t, "delins balanced", MatchingRule(Nucleotide, "c.10_11delinsTC"))
	assert.Equal(t, "delins net deletion", MatchingRule(Nucleotide, "c.200_205delinsT"))
	assert.Equal(t, "deletion", MatchingRule(Nucleotide, "c.34delA"))
	assert.Equal(t, "insertion", MatchingRule(Nucleotide, "c.200dupA"))
	assert.Equal(t, "substitution", MatchingRule(Nucleotide, "c.88A>G"))

	assert.Equal(t, "", MatchingRule(Taxonomy("rna"), "c.88A>G"))
}

func TestRuleCategoriesBelongToTaxonomy(t *testing.T) {
	for _, tax := range Taxonomies() {
		for _, r := range Rules(tax) {
			assert.True(t, tax.Has(r.Category), "rule %q of %s yields %s", r.Name, tax, r.Category)
			assert.NotEqual(t, Unclassified, r.Category, "rule %q", r.Name)
		}
	}
}

func TestClassify(t *testing.T) {
	c, err := Classify(Protein, "p.R123*")
	require.NoError(t, err)
	assert.Equal(t, Nonsense, c)

	c, err = Classify(Nucleotide, "c.34delA")
	require.NoError(t, err)
	assert.Equal(t, Deletion, c)

	_, err = Classify(Taxonomy("rna"), "r.34del")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTaxonomy)
}

func TestClassifyTotality(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seeds := []string{"", " ", "p.", "c.", "()", "(", ":", "p.()", "\x00\xff", "p.R123*", "c.88A>G", "c.1delins"}

	inputs := append([]string{}, seeds...)
	for range 2000 {
		b := make([]byte, rng.Intn(24))
		rng.Read(b)
		inputs = append(inputs, string(b))
	}

	for _, s := range inputs {
		for _, tax := range Taxonomies() {
			var (
				c   Category
				err error
			)
			assert.NotPanics(t, func() { c, err = Classify(tax, s) })
			assert.NoError(t, err)
			assert.True(t, tax.Has(c), "%s classified %q as %q", tax, s, c)
		}
	}
}

func TestParseTaxonomy(t *testing.T) {
	for _, name := range []string{"protein", "aa", "amino_acid"} {
		tax, err := ParseTaxonomy(name)
		require.NoError(t, err)
		assert.Equal(t, Protein, tax)
	}
	for _, name := range []string{"nucleotide", "nuc", "dna"} {
		tax, err := ParseTaxonomy(name)
		require.NoError(t, err)
		assert.Equal(t, Nucleotide, tax)
	}

	_, err := ParseTaxonomy("Protein")
	var invalid *InvalidTaxonomyError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, Taxonomy("Protein"), invalid.Taxonomy)
}

func FuzzClassifyAminoAcid(f *testing.F) {
	for _, s := range []string{"p.R123*", "p.A45fs", "p.L10L", "p.E746_A750del", "p.*110Qext*17"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if c := ClassifyAminoAcid(s); !Protein.Has(c) {
			t.Fatalf("ClassifyAminoAcid(%q) = %q", s, c)
		}
	})
}

func FuzzClassifyNucleotide(f *testing.F) {
	for _, s := range []string{"c.34delA", "c.200_201insT", "c.88A>G", "c.10_11delinsTC"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if c := ClassifyNucleotide(s); !Nucleotide.Has(c) {
			t.Fatalf("ClassifyNucleotide(%q) = %q", s, c)
		}
	})
}
