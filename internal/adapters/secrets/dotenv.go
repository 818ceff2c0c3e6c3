package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DotenvStore serves secrets parsed from .env files without exporting them
// into the process environment. Later files override earlier ones.
type DotenvStore struct {
	values map[string]string
}

// NewDotenvStore reads the given files; files that do not exist are skipped
func NewDotenvStore(files ...string) (*DotenvStore, error) {
	values := make(map[string]string)
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		parsed, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range parsed {
			values[k] = v
		}
	}
	return &DotenvStore{values: values}, nil
}

func (s *DotenvStore) Lookup(_ context.Context, name string) (string, bool, error) {
	v, ok := s.values[name]
	return v, ok, nil
}

// Len returns the number of loaded entries
func (s *DotenvStore) Len() int {
	return len(s.values)
}
