package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

const DefaultArchivePrefix = "1c_files"

// ArchiveName formats prefix_YYYY-MM-DDTHH-MM-SS.zip using UTC
func ArchiveName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultArchivePrefix
	}
	return fmt.Sprintf("%s_%s.zip", prefix, now.UTC().Format("2006-01-02T15-04-05"))
}

// Bundle packs artifacts into a single zip archive, preserving their order
// and names.
func Bundle(artifacts []Artifact, prefix string, now time.Time) (Artifact, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, a := range artifacts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     a.Name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return Artifact{}, fmt.Errorf("add %s to archive: %w", a.Name, err)
		}
		if _, err := w.Write(a.Data); err != nil {
			return Artifact{}, fmt.Errorf("write %s to archive: %w", a.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("finish archive: %w", err)
	}

	return Artifact{Name: ArchiveName(prefix, now), Data: buf.Bytes()}, nil
}
