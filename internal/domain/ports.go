package domain

import "errors"

// DescriptorCodec converts between descriptor documents and domain values.
type DescriptorCodec interface {
	Decode(data []byte) (ProjectDescriptor, error)
	Encode(expanded *ExpandedDescriptor, format OutputFormat) ([]byte, error)
}

// ConfigLoader loads the engine configuration for a project directory.
type ConfigLoader interface {
	Load(projectPath string) (EngineConfig, error)
}

// DescriptorFinder locates descriptor files under a root directory.
type DescriptorFinder interface {
	Find(root, fileName string, excludePaths ...string) ([]string, error)
}

// ValidationCache remembers descriptors that already expanded cleanly.
type ValidationCache interface {
	Load(projectPath string) (*ValidationRecord, error)
	Save(record *ValidationRecord) error
	Invalidate(projectPath string) error
}

// ErrNotAtRevision is returned by RevisionReader.ReadAt when the revision
// exists but the file was not part of it.
var ErrNotAtRevision = errors.New("file not present at revision")

// RevisionReader reads a file as it was committed at a revision.
type RevisionReader interface {
	IsGitRepo(path string) bool
	ReadAt(path, revision string) ([]byte, error)
}
