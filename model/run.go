package model

import "time"

// Mode is the pass a run performed
type Mode string

const (
	ModeBuild Mode = "build"
	ModeClean Mode = "clean"
)

// Run represents a single covfix execution over a working tree.
type Run struct {
	// Unique ID for this run (UUID)
	ID string `json:"id" yaml:"id"`
	// Pass performed (build or clean)
	Mode Mode `json:"mode" yaml:"mode"`
	// Artifact layout variant (persistent or tempdir)
	Variant string `json:"variant" yaml:"variant"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// Duration of the run
	Duration time.Duration `json:"duration" yaml:"duration"`
	// Absolute working directory holding src/ and the fixtures
	WorkDir string `json:"workdir" yaml:"workdir"`
	// Exit code the process finished with
	ExitCode int `json:"exit_code" yaml:"exit_code"`
	// Error that aborted the run, if any
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Fixtures visited by a build pass, in processing order
	Fixtures []FixtureResult `json:"fixtures,omitempty" yaml:"fixtures,omitempty"`
	// Files removed by a clean pass, relative to WorkDir
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// FixtureStatus is the outcome for one fixture
type FixtureStatus string

const (
	FixtureStatusFresh   FixtureStatus = "fresh"
	FixtureStatusRebuilt FixtureStatus = "rebuilt"
	FixtureStatusFailed  FixtureStatus = "failed"
)

// FixtureResult records what a build pass did with one fixture.
type FixtureResult struct {
	// Fixture directory name, e.g. branches.gcc7
	Name string `json:"name" yaml:"name"`
	// Profile key the fixture was classified with
	Profile string `json:"profile" yaml:"profile"`
	// Whether the fixture was fresh, rebuilt or failed
	Status FixtureStatus `json:"status" yaml:"status"`
	// Time spent rebuilding (zero for fresh fixtures)
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	// Artifacts placed in the fixture directory
	Artifacts []Artifact `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// ArtifactType identifies the type of artifact
type ArtifactType string

const (
	ArtifactTypeCounterData  ArtifactType = "counter-data"
	ArtifactTypeCounterNotes ArtifactType = "counter-notes"
	ArtifactTypeAnnotation   ArtifactType = "annotation"
	ArtifactTypeHTML         ArtifactType = "html"
)

// Artifact represents a file generated for a fixture
type Artifact struct {
	Type ArtifactType `json:"type" yaml:"type"`
	Size uint64       `json:"size" yaml:"size"`
	File string       `json:"file" yaml:"file"` // relative to fixture dir
}
