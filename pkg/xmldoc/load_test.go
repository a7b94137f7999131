// SPDX-License-Identifier: MPL-2.0

package xmldoc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/g2rain/archrel/internal/testutil"
	"github.com/g2rain/archrel/pkg/types"
)

func writeFile(t *testing.T, name, content string, perm os.FileMode) types.FilesystemPath {
	t.Helper()
	return types.FilesystemPath(testutil.WriteFileMode(t, t.TempDir(), name, content, perm))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		missing := types.FilesystemPath(filepath.Join(t.TempDir(), "pom.xml"))
		_, err := Load(missing)
		if !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}
		var nf *FileNotFoundError
		if !errors.As(err, &nf) || nf.Path != missing {
			t.Errorf("expected *FileNotFoundError for %s, got %v", missing, err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		if _, err := Load(types.FilesystemPath(t.TempDir())); !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound for a directory, got %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "pom.xml", "<project><name x=>x</name></project>", 0o644)
		_, err := Load(path)
		if !errors.Is(err, ErrMalformedXML) {
			t.Fatalf("expected ErrMalformedXML, got %v", err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Cause == nil {
			t.Errorf("expected *ParseError with a cause, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "pom.xml", "", 0o644)
		if _, err := Load(path); !errors.Is(err, ErrMalformedXML) {
			t.Fatalf("expected ErrMalformedXML for an empty file, got %v", err)
		}
	})
}

func TestLoadSave_Latin1Input(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "pom.xml", "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project><name>caf\xe9</name></project>", 0o644)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := TrimmedText(doc.Root().SelectElement("name")); got != "café" {
		t.Fatalf("name = %q, want café", got)
	}

	if err := Save(context.Background(), doc, path, SaveOptions{Atomic: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path.String())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<project><name>café</name></project>"
	if string(data) != want {
		t.Errorf("saved document:\n%s\nwant:\n%s", data, want)
	}
}

func TestLoadSave_PreservesCData(t *testing.T) {
	t.Parallel()

	const original = `<?xml version="1.0" encoding="UTF-8"?>
<project><description><![CDATA[Use <b>bold</b> & more]]></description></project>`
	path := writeFile(t, "pom.xml", original, 0o644)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := Save(context.Background(), doc, path, SaveOptions{Atomic: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if got := testutil.ReadFile(t, path.String()); got != original {
		t.Errorf("saved document:\n%s\nwant:\n%s", got, original)
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	for _, atomic := range []bool{true, false} {
		name := "plain"
		if atomic {
			name = "atomic"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "archetype-metadata.xml", "<archetype-descriptor><fileSets/></archetype-descriptor>", 0o600)
			doc, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if err := Save(context.Background(), doc, path, SaveOptions{Atomic: atomic}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			data, err := os.ReadFile(path.String())
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if !strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`+"\n<archetype-descriptor>") {
				t.Errorf("saved document should start with a declaration, got:\n%s", data)
			}

			if runtime.GOOS != "windows" {
				info, err := os.Stat(path.String())
				if err != nil {
					t.Fatalf("Stat() error = %v", err)
				}
				if info.Mode().Perm() != 0o600 {
					t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
				}
			}
		})
	}
}

func TestSave_RewritesExistingDeclaration(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("<?xml version='1.0' encoding='utf-8'?>\n<project/>"), "pom.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var sb strings.Builder
	if err := Write(&sb, doc, SaveOptions{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got, want := sb.String(), "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<project/>"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSave_Indent(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("<project><build><plugins/></build></project>"), "pom.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var sb strings.Builder
	if err := Write(&sb, doc, SaveOptions{Indent: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(sb.String(), "<project>\n  <build>\n    <plugins/>\n  </build>\n</project>") {
		t.Errorf("document not reindented:\n%s", sb.String())
	}
}

func TestSave_CanceledContextLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	const original = "<project><name>old</name></project>"
	path := writeFile(t, "pom.xml", original, 0o644)
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	doc.Root().SelectElement("name").SetText("new")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Save(ctx, doc, path, SaveOptions{Atomic: true}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	data, err := os.ReadFile(path.String())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != original {
		t.Errorf("file modified despite cancellation:\n%s", data)
	}
}
