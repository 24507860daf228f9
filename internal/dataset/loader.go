package dataset

import "github.com/KaramelBytes/premiumlens/internal/utils"

// Loader reads the dataset once per process. Every later Load returns the
// same *Table (or the same error) without touching the file again.
type Loader struct {
	path string
	lazy *utils.Lazy[*Table]
}

// NewLoader prepares a memoized loader for the CSV at path.
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
		lazy: utils.NewLazy(func() (*Table, error) { return Load(path) }),
	}
}

// Path returns the CSV location.
func (l *Loader) Path() string { return l.path }

// Load returns the cached table, reading it on first call.
func (l *Loader) Load() (*Table, error) { return l.lazy.Get() }
