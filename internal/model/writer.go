package model

// ResultWriter defines a generic interface for persisting the outcome of an
// analysis run.
type ResultWriter interface {
	// Write persists the full result of one run.
	Write(result *AnalysisResult) error
}
