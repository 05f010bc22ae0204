package storage_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/examix/examix/internal/storage"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key, err := s.Put("bundles/abc.zip", strings.NewReader("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "bundles/abc.zip" {
		t.Errorf("canonical key = %q", key)
	}

	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte("payload")) {
		t.Errorf("got %q", b)
	}

	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(key); err == nil {
		t.Error("deleted key still readable")
	}
}

func TestFSStoreRejectsEmptyKey(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("", strings.NewReader("x")); err == nil {
		t.Error("empty key accepted")
	}
}

func TestFSStoreRejectsEscapingKey(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"../outside.zip", "bundles/../../outside.zip", "/etc/passwd"} {
		if _, err := s.Put(key, strings.NewReader("x")); err == nil {
			t.Errorf("key %q accepted", key)
		}
		if _, err := s.Get(key); err == nil {
			t.Errorf("Get(%q) accepted", key)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestFSStorePutFailureLeavesNoBlob(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("bundles/broken.zip", failingReader{}); err == nil {
		t.Fatal("failed copy reported success")
	}
	if _, err := s.Get("bundles/broken.zip"); err == nil {
		t.Error("partial write readable after failed Put")
	}
}
