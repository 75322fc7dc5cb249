package domain

// ArtifactKind distinguishes binary document reports from plain text ones.
type ArtifactKind string

const (
	ArtifactDocument ArtifactKind = "DOCUMENT"
	ArtifactText     ArtifactKind = "TEXT"
)

// Artifact is the generated output of one report run, consumed either by the
// delivery client or by the on-demand download path.
type Artifact struct {
	Kind     ArtifactKind
	Bytes    []byte
	Filename string
	Caption  string
	Text     string

	// ErrorMessage is set instead of content when generation failed
	// internally. Generators never return errors.
	ErrorMessage string
}

// Failed reports whether generation failed and the artifact carries an error
// message instead of content.
func (a Artifact) Failed() bool {
	return a.ErrorMessage != ""
}
