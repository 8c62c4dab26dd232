package generole

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed data/oncogenes.txt
var defaultOncogenes string

//go:embed data/tumor_suppressors.txt
var defaultTSGs string

var (
	defaultOnce       sync.Once
	defaultClassifier *Classifier
)

// Default returns a classifier built from the embedded reference sets, a
// curated list of well characterised cancer driver genes. It is used when no
// reference file is configured.
func Default() *Classifier {
	defaultOnce.Do(func() {
		onc, _ := ReadGeneSet(strings.NewReader(defaultOncogenes))
		tsg, _ := ReadGeneSet(strings.NewReader(defaultTSGs))
		defaultClassifier = NewClassifier(onc, tsg)
	})
	return defaultClassifier
}
