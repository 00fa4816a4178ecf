package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const workspacePrefix = ".backdrop-"

// Workspace is the run-scoped directory holding every intermediate file.
// It lives inside the output folder by default so the final rename stays on
// one filesystem. Its dot prefix keeps it out of discovery.
type Workspace struct {
	dir string
}

// NewWorkspace creates <root>/.backdrop-<uuid>.
func NewWorkspace(root string) (*Workspace, error) {
	dir := filepath.Join(root, workspacePrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create workspace")
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// Close removes the workspace directory and anything left in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.dir)
}

// Scratch holds the two intermediates of one input. Names carry a fresh
// uuid so no two files of a run collide, even with equal stems.
type Scratch struct {
	Mirrored  string
	Composite string
}

// Scratch returns the intermediate paths for input. Nothing is created.
func (w *Workspace) Scratch(input string) *Scratch {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	prefix := filepath.Join(w.dir, uuid.NewString()+"-"+stem)
	return &Scratch{
		Mirrored:  prefix + ".mirrored" + ext,
		Composite: prefix + ".composite" + ext,
	}
}

// Close removes both intermediates. Missing files are not an error.
func (s *Scratch) Close() error {
	var first error
	for _, p := range []string{s.Mirrored, s.Composite} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	return first
}

// FinalizeError reports a failure to move a finished composite into place.
type FinalizeError struct {
	Output string
	Err    error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("finalize %s: %v", e.Output, e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }

// CrossDeviceError is returned when the workspace and the output folder are
// on different filesystems, so the composite cannot be renamed into place.
type CrossDeviceError struct {
	Src, Dst string
	Err      error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cannot rename %s to %s across filesystems (set a temp dir on the output filesystem): %v",
		e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// replaceFile removes dst if present, then renames src onto it.
func replaceFile(src, dst string) error {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return &FinalizeError{Output: dst, Err: errors.Wrap(err, "remove existing output")}
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return &FinalizeError{Output: dst, Err: &CrossDeviceError{Src: src, Dst: dst, Err: err}}
		}
		return &FinalizeError{Output: dst, Err: errors.Wrap(err, "rename composite")}
	}
	return nil
}
