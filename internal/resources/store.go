package resources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Resource is a file the app needs locally before it can serve analyses.
type Resource struct {
	Name     string
	Path     string // relative to the store directory
	URL      string
	Validate func(data []byte) error
}

// PunktResource describes the Punkt training data for language.
func PunktResource(baseURL, language string) Resource {
	return Resource{
		Name: "tokenizers/punkt/" + language,
		Path: filepath.Join("tokenizers", "punkt", language+".json"),
		URL:  strings.TrimRight(baseURL, "/") + "/" + language + ".json",
		Validate: func(data []byte) error {
			_, err := sentences.LoadTraining(data)
			return err
		},
	}
}

type Store struct {
	dir     string
	fetcher Fetcher
	mu      sync.Mutex
}

func NewStore(dir string, fetcher Fetcher) *Store {
	return &Store{dir: dir, fetcher: fetcher}
}

func (s *Store) LocalPath(res Resource) string {
	return filepath.Join(s.dir, res.Path)
}

// Present reports whether the resource exists locally and is non-empty.
func (s *Store) Present(res Resource) bool {
	info, err := os.Stat(s.LocalPath(res))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Ensure makes the resource available locally, downloading it when missing.
// It is idempotent: once the file is present no network call is made.
// downloaded is true only when this call fetched the resource.
func (s *Store) Ensure(ctx context.Context, res Resource) (downloaded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Present(res) {
		slog.Debug("[ResourceStore] Using existing resource",
			slog.String("resource", res.Name),
			slog.String("path", s.LocalPath(res)))
		return false, nil
	}

	slog.Info("[ResourceStore] Resource not found, downloading...",
		slog.String("resource", res.Name),
		slog.String("url", res.URL))

	data, err := s.fetcher.Fetch(ctx, res.URL)
	if err != nil {
		return false, fmt.Errorf("failed to download %s: %w", res.Name, err)
	}

	if res.Validate != nil {
		if err := res.Validate(data); err != nil {
			return false, fmt.Errorf("downloaded %s is invalid: %w", res.Name, err)
		}
	}

	if err := s.write(res, data); err != nil {
		return false, err
	}

	slog.Info("[ResourceStore] Resource downloaded successfully",
		slog.String("resource", res.Name),
		slog.String("path", s.LocalPath(res)))
	return true, nil
}

// Load ensures the resource and returns its contents.
func (s *Store) Load(ctx context.Context, res Resource) (data []byte, downloaded bool, err error) {
	downloaded, err = s.Ensure(ctx, res)
	if err != nil {
		return nil, false, err
	}

	data, err = os.ReadFile(s.LocalPath(res))
	if err != nil {
		return nil, downloaded, fmt.Errorf("failed to read %s: %w", res.Name, err)
	}
	return data, downloaded, nil
}

// write goes through a temp file so a crash never leaves a truncated resource behind.
func (s *Store) write(res Resource, data []byte) error {
	dest := s.LocalPath(res)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create resource directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", res.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", res.Name, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", res.Name, err)
	}
	return nil
}
