package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/rankmdx"
)

// Extension is the file extension of stored articles.
const Extension = ".mdx"

// Ensure Corpus implements rankmdx.ArticleStore at compile time.
var _ rankmdx.ArticleStore = (*Corpus)(nil)

// Corpus stores articles as <dir>/<slug>.mdx files.
type Corpus struct {
	dir string
}

// NewCorpus creates a Corpus rooted at dir. The directory is created on the
// first write.
func NewCorpus(dir string) *Corpus {
	return &Corpus{dir: dir}
}

// List returns the slugs of all stored articles, sorted.
func (c *Corpus) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Extension) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, Extension))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Exists reports whether an article with slug is stored.
func (c *Corpus) Exists(ctx context.Context, slug string) (bool, error) {
	path, err := c.path(slug)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Read returns the content of the article stored under slug.
func (c *Corpus) Read(ctx context.Context, slug string) (string, error) {
	path, err := c.path(slug)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", rankmdx.Errorf(rankmdx.ENOTFOUND, "article %q not found", slug)
	} else if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write stores content under slug atomically.
func (c *Corpus) Write(ctx context.Context, slug, content string) error {
	path, err := c.path(slug)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(content))
}

func (c *Corpus) path(slug string) (string, error) {
	if !rankmdx.IsValidSlug(slug) {
		return "", rankmdx.Errorf(rankmdx.EINVALID, "invalid slug %q", slug)
	}
	return filepath.Join(c.dir, slug+Extension), nil
}
