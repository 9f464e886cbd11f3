package service

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeFileHeader builds a parsed multipart file header the way gin hands one
// to the service layer.
func makeFileHeader(t *testing.T, fileName, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	return files[0]
}

func TestFileService_Save(t *testing.T) {
	svc := NewFileService()
	dir := t.TempDir()

	file := makeFileHeader(t, "photo.JPG", "image/jpeg", []byte("fake image bytes"))
	name, err := svc.Save(file, dir)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("stored name %q should carry the lowercased extension", name)
	}
	if strings.Contains(name, "photo") {
		t.Errorf("stored name %q should not reuse the client filename", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("stored file not readable: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored content = %q, want original bytes", data)
	}
}

func TestFileService_Save_GeneratesUniqueNames(t *testing.T) {
	svc := NewFileService()
	dir := t.TempDir()

	file := makeFileHeader(t, "a.png", "image/png", []byte("x"))
	first, err := svc.Save(file, dir)
	if err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	second, err := svc.Save(file, dir)
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if first == second {
		t.Errorf("two saves of the same upload produced the same name %q", first)
	}
}

func TestFileService_Save_Rejections(t *testing.T) {
	svc := NewFileService()
	dir := t.TempDir()

	tests := []struct {
		name string
		file *multipart.FileHeader
	}{
		{"nil file", nil},
		{"disallowed extension", makeFileHeader(t, "notes.txt", "image/png", []byte("x"))},
		{"disallowed content type", makeFileHeader(t, "a.png", "application/pdf", []byte("x"))},
		{"missing content type", makeFileHeader(t, "a.png", "", []byte("x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(tt.file, dir)
			if err == nil {
				t.Fatal("Save() expected error, got nil")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Save() error = %v, want *ValidationError", err)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected uploads left %d files behind", len(entries))
	}
}

func TestFileService_Save_RejectsOversizedFile(t *testing.T) {
	svc := NewFileService()
	dir := t.TempDir()

	file := makeFileHeader(t, "a.jpg", "image/jpeg", []byte("x"))
	file.Size = maxImageFileSize + 1

	if _, err := svc.Save(file, dir); err == nil {
		t.Fatal("Save() expected error for oversized file")
	}
}

func TestFileService_SaveMany_PartialFailure(t *testing.T) {
	svc := NewFileService()
	dir := t.TempDir()

	files := []*multipart.FileHeader{
		makeFileHeader(t, "ok1.png", "image/png", []byte("a")),
		makeFileHeader(t, "bad.txt", "image/png", []byte("b")),
		makeFileHeader(t, "ok2.png", "image/png", []byte("c")),
	}

	saved, errs := svc.SaveMany(files, dir, 7)
	if len(saved) != 2 {
		t.Errorf("SaveMany() saved %d files, want 2", len(saved))
	}
	if len(errs) != 1 {
		t.Errorf("SaveMany() returned %d errors, want 1", len(errs))
	}
}

func TestFileService_SaveMany_EnforcesMaxCount(t *testing.T) {
	svc := NewFileService()
	dir := t.TempDir()

	files := []*multipart.FileHeader{
		makeFileHeader(t, "a.png", "image/png", []byte("a")),
		makeFileHeader(t, "b.png", "image/png", []byte("b")),
		makeFileHeader(t, "c.png", "image/png", []byte("c")),
	}

	saved, errs := svc.SaveMany(files, dir, 2)
	if len(saved) != 2 {
		t.Errorf("SaveMany() saved %d files, want 2", len(saved))
	}
	if len(errs) != 1 {
		t.Errorf("SaveMany() returned %d errors, want 1", len(errs))
	}
}

func TestFileService_Delete(t *testing.T) {
	svc := NewFileService()
	dir := t.TempDir()

	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if !svc.Delete(path) {
		t.Error("Delete() = false for existing file, want true")
	}
	if svc.Delete(path) {
		t.Error("Delete() = true for already-removed file, want false")
	}
}

func TestFileService_EnsureDir(t *testing.T) {
	svc := NewFileService()
	dir := filepath.Join(t.TempDir(), "images", "skumasters")

	if err := svc.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir() did not create a directory")
	}

	// Second call on an existing directory is a no-op.
	if err := svc.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() on existing dir error = %v", err)
	}
}
