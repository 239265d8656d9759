package genome

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRecords is returned when an input stream holds no annotation records.
	ErrNoRecords = errors.New("no annotation records found")

	// ErrInvalidGeneticCode is returned for a genetic code outside the NCBI set.
	ErrInvalidGeneticCode = errors.New("invalid genetic code")
)

// FormatError reports input that cannot be interpreted: malformed locations,
// non-numeric or out-of-range coordinates, missing GFF3 parents.
type FormatError struct {
	Accession   string
	FeatureText string
	Msg         string
	Err         error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("format error")
	if e.Accession != "" {
		fmt.Fprintf(&b, " in %s", e.Accession)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.FeatureText != "" {
		fmt.Fprintf(&b, "\nfeature text:\n%s", e.FeatureText)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IdentityError reports a feature whose identifier cannot be resolved while
// identifier generation is disabled.
type IdentityError struct {
	Accession   string
	Type        string
	FeatureText string
	Sources     string // qualifiers consulted for the identifier
}

func (e *IdentityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no identifier for %s feature", e.Type)
	if e.Accession != "" {
		fmt.Fprintf(&b, " in %s", e.Accession)
	}
	if e.Sources != "" {
		fmt.Fprintf(&b, " (identifiers are taken from %s)", e.Sources)
	}
	b.WriteString("; enable identifier generation to allocate one")
	if e.FeatureText != "" {
		fmt.Fprintf(&b, "\nfeature text:\n%s", e.FeatureText)
	}
	return b.String()
}

// WithContext fills in the accession and raw feature text of a FormatError
// or IdentityError that does not carry them yet. Other errors pass through.
func WithContext(err error, accession, text string) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		if fe.Accession == "" {
			fe.Accession = accession
		}
		if fe.FeatureText == "" {
			fe.FeatureText = text
		}
		return err
	}
	var ie *IdentityError
	if errors.As(err, &ie) {
		if ie.Accession == "" {
			ie.Accession = accession
		}
		if ie.FeatureText == "" {
			ie.FeatureText = text
		}
	}
	return err
}
