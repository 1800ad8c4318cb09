package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalArchive implements Archive using the local filesystem. Files live
// under basePath/provider/statement-month/, each next to a .meta.json
// sidecar.
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new local filesystem archive
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

// Save stores a statement file and returns its metadata
func (s *LocalArchive) Save(ctx context.Context, provider, statementMonth, filename string, r io.Reader) (*FileInfo, error) {
	fileID := uuid.New()

	dir := filepath.Join(s.basePath, sanitizePathPart(provider), sanitizePathPart(statementMonth))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	// UUID prefix keeps re-imports of a same-named file apart
	storedFilename := fmt.Sprintf("%s_%s", fileID.String()[:8], sanitizeFilename(filename))
	filePath := filepath.Join(dir, storedFilename)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &FileInfo{
		ID:             fileID,
		Name:           filename,
		Size:           size,
		Provider:       provider,
		StatementMonth: statementMonth,
		Path:           storedFilename,
		ArchivedAt:     time.Now().UTC(),
	}

	if err := s.saveMetadata(dir, fileID, info); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	return info, nil
}

// Open retrieves an archived file by its ID
func (s *LocalArchive) Open(ctx context.Context, provider, statementMonth string, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error) {
	dir := filepath.Join(s.basePath, sanitizePathPart(provider), sanitizePathPart(statementMonth))

	info, err := s.readMetadata(dir, fileID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(dir, info.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archived file: %w", err)
	}
	return f, info, nil
}

// List returns all archived files for a provider and statement month
func (s *LocalArchive) List(ctx context.Context, provider, statementMonth string) ([]*FileInfo, error) {
	dir := filepath.Join(s.basePath, sanitizePathPart(provider), sanitizePathPart(statementMonth))

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	var files []*FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}
		var info FileInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		files = append(files, &info)
	}
	return files, nil
}

func (s *LocalArchive) saveMetadata(dir string, fileID uuid.UUID, info *FileInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath(dir, fileID), data, 0644); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func (s *LocalArchive) readMetadata(dir string, fileID uuid.UUID) (*FileInfo, error) {
	data, err := os.ReadFile(metadataPath(dir, fileID))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &info, nil
}

func metadataPath(dir string, fileID uuid.UUID) string {
	return filepath.Join(dir, fileID.String()+".meta.json")
}

func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." {
		name = "statement"
	}
	return name
}

func sanitizePathPart(part string) string {
	part = strings.TrimSpace(part)
	part = strings.ReplaceAll(part, string(os.PathSeparator), "-")
	part = strings.ReplaceAll(part, "..", "")
	if part == "" {
		part = "unknown"
	}
	return part
}
