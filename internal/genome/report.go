package genome

import (
	"fmt"

	"go.uber.org/zap"
)

// WarningKind classifies a non-fatal import problem.
type WarningKind string

const (
	WarnPartialLocation    WarningKind = "partial_location"
	WarnBetweenBases       WarningKind = "between_bases"
	WarnOrderLocation      WarningKind = "order_location"
	WarnOneOfBases         WarningKind = "one_of_bases"
	WarnStartCodon         WarningKind = "start_codon"
	WarnNotTriplet         WarningKind = "length_not_triplet"
	WarnTranslationMatch   WarningKind = "translation_mismatch"
	WarnTranslationFailed  WarningKind = "translation_failed"
	WarnTermNotFound       WarningKind = "ontology_term_not_found"
	WarnUnpaired           WarningKind = "unpaired_cds_mrna"
	WarnBareQualifier      WarningKind = "bare_qualifier"
	WarnGeneSynthesized    WarningKind = "gene_synthesized"
	WarnPossibleMissedLink WarningKind = "possible_missed_link"
	WarnPseudoDropped      WarningKind = "pseudo_dropped"
	WarnRecordSkipped      WarningKind = "record_skipped"
	WarnRecordMetadata     WarningKind = "record_metadata"
	WarnUnknownStrand      WarningKind = "unknown_strand"
)

// Warning is a human-readable, non-fatal problem found during import.
type Warning struct {
	Kind      WarningKind
	Accession string
	FeatureID string
	Message   string
}

func (w Warning) String() string {
	switch {
	case w.Accession != "" && w.FeatureID != "":
		return fmt.Sprintf("[%s] %s %s: %s", w.Kind, w.Accession, w.FeatureID, w.Message)
	case w.FeatureID != "":
		return fmt.Sprintf("[%s] %s: %s", w.Kind, w.FeatureID, w.Message)
	case w.Accession != "":
		return fmt.Sprintf("[%s] %s: %s", w.Kind, w.Accession, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

// Report accumulates warnings for one import run and logs each one as it
// arrives.
type Report struct {
	warnings []Warning
	logger   *zap.Logger
}

// NewReport creates a report. A nil logger discards log output.
func NewReport(logger *zap.Logger) *Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Report{logger: logger}
}

// Add records a warning.
func (r *Report) Add(w Warning) {
	r.warnings = append(r.warnings, w)
	r.logger.Warn(w.Message,
		zap.String("kind", string(w.Kind)),
		zap.String("accession", w.Accession),
		zap.String("feature", w.FeatureID))
}

// Warnf records a formatted warning.
func (r *Report) Warnf(kind WarningKind, accession, featureID, format string, args ...any) {
	r.Add(Warning{Kind: kind, Accession: accession, FeatureID: featureID, Message: fmt.Sprintf(format, args...)})
}

// Warnings returns all recorded warnings in arrival order.
func (r *Report) Warnings() []Warning {
	return r.warnings
}

// Count returns the number of warnings of the given kind.
func (r *Report) Count(kind WarningKind) int {
	n := 0
	for _, w := range r.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of recorded warnings.
func (r *Report) Len() int {
	return len(r.warnings)
}
