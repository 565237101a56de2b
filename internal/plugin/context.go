package plugin

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"vtlint/internal/patterns"
	"vtlint/internal/source"
)

// ErrStale is returned by writes whose base no longer matches the file on
// disk.
var ErrStale = errors.New("file changed since it was read")

// FileContext is what a per-file plugin sees. Content is a snapshot read
// once; the engine never mutates it, and fixers write through Rewrite or
// WriteContent instead of touching the context.
type FileContext struct {
	Root     string
	File     string
	Content  string
	Patterns *patterns.Cache

	linesOnce sync.Once
	lines     []string

	// last content written by a fixer of this pass
	current   string
	rewritten bool
}

// NewFileContext reads file with the legacy encoding.
func NewFileContext(root, file string, cache *patterns.Cache) (*FileContext, error) {
	content, err := source.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return &FileContext{Root: root, File: file, Content: content, Patterns: cache}, nil
}

// Lines splits Content on "\n" the first time it is called.
func (c *FileContext) Lines() []string {
	c.linesOnce.Do(func() {
		c.lines = source.SplitLines(c.Content)
	})
	return c.lines
}

// Rel returns File relative to Root, or File itself when no root is set.
func (c *FileContext) Rel() string {
	if c.Root == "" {
		return filepath.ToSlash(c.File)
	}
	rel, err := source.RelativePath(c.File, c.Root)
	if err != nil {
		return filepath.ToSlash(c.File)
	}
	return rel
}

// Ext returns the file extension including the dot.
func (c *FileContext) Ext() string {
	return filepath.Ext(c.File)
}

// Current returns the file as the previous fixer left it, or Content when
// nothing was written yet.
func (c *FileContext) Current() string {
	if c.rewritten {
		return c.current
	}
	return c.Content
}

// Rewrite applies edit to Current and writes the result. Fixers of one file
// run one after another, so each edit sees the changes of the ones before
// it. Nothing is written and false is returned when edit changes nothing.
func (c *FileContext) Rewrite(edit func(current string) string) (bool, error) {
	base := c.Current()
	next := edit(base)
	if next == base {
		return false, nil
	}
	return c.swap(base, next)
}

// WriteContent replaces the file with content computed from the snapshot.
// It fails with ErrStale once another fixer has rewritten the file, since
// writing would drop that change; such fixers should use Rewrite.
func (c *FileContext) WriteContent(content string) (bool, error) {
	if content == c.Current() {
		return false, nil
	}
	return c.swap(c.Content, content)
}

// swap writes next only while the disk still holds expected.
func (c *FileContext) swap(expected, next string) (bool, error) {
	onDisk, err := source.ReadFile(c.File)
	if err != nil {
		return false, err
	}
	if onDisk != expected {
		return false, fmt.Errorf("write %s: %w", c.File, ErrStale)
	}
	if err := source.WriteFileAtomic(c.File, next); err != nil {
		return false, err
	}
	c.current, c.rewritten = next, true
	return true, nil
}

// FilesContext is what a corpus-wide plugin sees.
type FilesContext struct {
	Root     string
	Files    []string
	Patterns *patterns.Cache
}

// ReadFile reads one corpus file with the legacy encoding.
func (c *FilesContext) ReadFile(path string) (string, error) {
	return source.ReadFile(path)
}

// Rel returns path relative to Root.
func (c *FilesContext) Rel(path string) string {
	if c.Root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := source.RelativePath(path, c.Root)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return rel
}
