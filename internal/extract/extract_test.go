package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestTextPlainFormats(t *testing.T) {
	body := "John Doe\nExperience\nBuilt things\n"

	for _, name := range []string{"resume.txt", "resume.md", "RESUME.TXT"} {
		got, err := Text(name, []byte(body))
		if err != nil {
			t.Fatalf("Text(%s): %v", name, err)
		}
		if got != body {
			t.Fatalf("Text(%s) = %q, want %q", name, got, body)
		}
	}
}

func TestTextUnsupportedFormat(t *testing.T) {
	_, err := Text("resume.png", []byte("binary"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), ".png") {
		t.Fatalf("error should name the extension, got %q", err.Error())
	}
}

func TestTextCorruptPDF(t *testing.T) {
	if _, err := Text("resume.pdf", []byte("not a pdf at all")); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestStripXML(t *testing.T) {
	content := `<w:body><w:p><w:r><w:t>Experience</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Built an API</w:t></w:r></w:p></w:body>`
	got := stripXML(content)
	want := "Experience\nBuilt an API\n"
	if got != want {
		t.Fatalf("stripXML = %q, want %q", got, want)
	}
}
