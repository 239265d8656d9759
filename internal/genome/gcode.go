package genome

import (
	"fmt"
	"strings"

	"github.com/bebop/poly/synthesis/codon"
)

// DefaultGeneticCode is the code used when none is configured.
const DefaultGeneticCode = 11

// Amino acids per NCBI genetic code, one letter per codon in TCAG order
// (TTT, TTC, TTA, TTG, TCT, ... GGG).
var ncbieaa = map[int]string{
	1:  "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	2:  "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSS**VVVVAAAADDEEGGGG",
	3:  "FFLLSSSSYY**CCWWTTTTPPPPHHQQRRRRIIMMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	4:  "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	5:  "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSSSSVVVVAAAADDEEGGGG",
	6:  "FFLLSSSSYYQQCC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	9:  "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIIMTTTTNNNKSSSSVVVVAAAADDEEGGGG",
	10: "FFLLSSSSYY**CCCWLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	11: "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	12: "FFLLSSSSYY**CC*WLLLSPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	13: "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSSGGVVVVAAAADDEEGGGG",
	14: "FFLLSSSSYYY*CCWWLLLLPPPPHHQQRRRRIIIMTTTTNNNKSSSSVVVVAAAADDEEGGGG",
	16: "FFLLSSSSYY*LCC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	21: "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNNKSSSSVVVVAAAADDEEGGGG",
	22: "FFLLSS*SYY*LCC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	23: "FF*LSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	24: "FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSSKVVVVAAAADDEEGGGG",
	25: "FFLLSSSSYY**CCGWLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
	26: "FFLLSSSSYY**CC*WLLLAPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
}

var geneticCodeNames = map[int]string{
	1:  "Standard",
	2:  "Vertebrate Mitochondrial",
	3:  "Yeast Mitochondrial",
	4:  "Mold, Protozoan, and Coelenterate Mitochondrial",
	5:  "Invertebrate Mitochondrial",
	6:  "Ciliate, Dasycladacean and Hexamita Nuclear",
	9:  "Echinoderm and Flatworm Mitochondrial",
	10: "Euplotid Nuclear",
	11: "Bacterial, Archaeal and Plant Plastid",
	12: "Alternative Yeast Nuclear",
	13: "Ascidian Mitochondrial",
	14: "Alternative Flatworm Mitochondrial",
	16: "Chlorophycean Mitochondrial",
	21: "Trematode Mitochondrial",
	22: "Scenedesmus obliquus Mitochondrial",
	23: "Thraustochytrium Mitochondrial",
	24: "Rhabdopleuridae Mitochondrial",
	25: "Candidate Division SR1 and Gracilibacteria",
	26: "Pachysolen tannophilus Nuclear",
}

// ValidGeneticCode reports whether id is one of the supported NCBI codes.
func ValidGeneticCode(id int) bool {
	_, ok := ncbieaa[id]
	return ok
}

// GeneticCode translates codons under one NCBI translation table.
type GeneticCode struct {
	ID         int
	Name       string
	aminoAcids string
	starts     map[string]bool
}

// NewGeneticCode returns the translation table for an NCBI genetic code id.
func NewGeneticCode(id int) (*GeneticCode, error) {
	aa, ok := ncbieaa[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGeneticCode, id)
	}
	gc := &GeneticCode{
		ID:         id,
		Name:       geneticCodeNames[id],
		aminoAcids: aa,
		starts:     make(map[string]bool),
	}
	if table, err := codon.NewTranslationTable(id); err == nil {
		for _, c := range table.StartCodons {
			gc.starts[strings.ToUpper(c)] = true
		}
	}
	if len(gc.starts) == 0 {
		gc.starts["ATG"] = true
	}
	return gc, nil
}

func baseIndex(b byte) int {
	switch b {
	case 'T', 'U':
		return 0
	case 'C':
		return 1
	case 'A':
		return 2
	case 'G':
		return 3
	}
	return -1
}

// AminoAcid returns the one-letter amino acid for an uppercase codon, '*' for
// stops and 'X' for codons containing ambiguous bases.
func (gc *GeneticCode) AminoAcid(c string) byte {
	if len(c) != 3 {
		return 'X'
	}
	idx := 0
	for i := 0; i < 3; i++ {
		b := baseIndex(c[i])
		if b < 0 {
			return 'X'
		}
		idx = idx*4 + b
	}
	return gc.aminoAcids[idx]
}

// IsStart reports whether the codon can initiate translation.
func (gc *GeneticCode) IsStart(c string) bool {
	return gc.starts[strings.ReplaceAll(c, "U", "T")]
}

// IsStop reports whether the codon terminates translation.
func (gc *GeneticCode) IsStop(c string) bool {
	return gc.AminoAcid(c) == '*'
}

// Translation is the outcome of translating one coding sequence.
type Translation struct {
	Protein    string
	FirstCodon string
	StartOK    bool // first codon is an initiation codon
	Triplet    bool // translated length is a multiple of three
}

// Translate translates dna starting offset bases in, stopping before the
// first stop codon. A leading initiation codon is read as methionine.
func (gc *GeneticCode) Translate(dna string, offset int) Translation {
	seq := strings.ToUpper(dna)
	if offset > 0 && offset <= len(seq) {
		seq = seq[offset:]
	}
	t := Translation{Triplet: len(seq)%3 == 0}
	if len(seq) >= 3 {
		t.FirstCodon = seq[:3]
		t.StartOK = gc.IsStart(t.FirstCodon)
	}

	var b strings.Builder
	b.Grow(len(seq) / 3)
	for i := 0; i+3 <= len(seq); i += 3 {
		c := seq[i : i+3]
		aa := gc.AminoAcid(c)
		if aa == '*' {
			break
		}
		if i == 0 && offset == 0 && t.StartOK {
			aa = 'M'
		}
		b.WriteByte(aa)
	}
	t.Protein = b.String()
	return t
}
