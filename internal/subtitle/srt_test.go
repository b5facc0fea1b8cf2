package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	entries := []Entry{
		NewEntry(0, 2, "hola"),
		NewEntry(2.5, 4, "[Inaudible]"),
		NewEntry(5, 7.5, "adéu"),
	}

	want := "1\n00:00:00,000 --> 00:00:02,000\nhola\n\n" +
		"2\n00:00:02,500 --> 00:00:04,000\n[Inaudible]\n\n" +
		"3\n00:00:05,000 --> 00:00:07,500\nadéu\n\n"

	if got := Render(entries); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderNumberingIgnoresTiming(t *testing.T) {
	// repeated and out-of-order timestamps must not affect numbering
	entries := []Entry{
		{Start: "00:00:05,000", End: "00:00:06,000", Text: "a"},
		{Start: "00:00:05,000", End: "00:00:06,000", Text: "b"},
		{Start: "00:00:01,000", End: "00:00:02,000", Text: "c"},
		{Start: "00:10:00,000", End: "00:10:01,000", Text: "[Error]"},
	}

	blocks := strings.Split(strings.TrimSuffix(Render(entries), "\n\n"), "\n\n")
	if len(blocks) != len(entries) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(entries))
	}
	for i, block := range blocks {
		number := strings.SplitN(block, "\n", 2)[0]
		if want := string(rune('1' + i)); number != want {
			t.Errorf("block %d numbered %q, want %q", i, number, want)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.srt")
	entries := []Entry{NewEntry(0, 1, "hello")}

	if err := WriteFile(path, entries); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Render(entries) {
		t.Errorf("file content = %q, want %q", data, Render(entries))
	}
}

func TestPathForVideo(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/videos/talk.mp4", "/videos/talk.srt"},
		{"clip.final.mkv", "clip.final.srt"},
		{"noext", "noext.srt"},
	}
	for _, tt := range tests {
		if got := PathForVideo(tt.in); got != tt.want {
			t.Errorf("PathForVideo(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderExtractRoundTrip(t *testing.T) {
	texts := []string{"hola món", "[Inaudible]", "adéu, fins demà", "Line with 42 digits"}
	entries := make([]Entry, len(texts))
	for i, txt := range texts {
		entries[i] = NewEntry(float64(i), float64(i)+0.5, txt)
	}

	got, err := ExtractText(Render(entries))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if want := strings.Join(texts, "\n"); got != want {
		t.Errorf("ExtractText(Render()) = %q, want %q", got, want)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr error
	}{
		{
			name: "crlf and padding",
			doc:  "1\r\n00:00:00,000 --> 00:00:01,000\r\n  hello  \r\n\r\n2\r\n00:00:01,000 --> 00:00:02,000\r\nworld\r\n",
			want: "hello\nworld",
		},
		{
			name: "foreign document keeps free text",
			doc:  "\ufeffWEBVTT\n\nNOTE made elsewhere\n00:01.000 --> 00:02.000\ntext",
			want: "WEBVTT\nNOTE made elsewhere\ntext",
		},
		{
			name:    "only structure",
			doc:     "1\n00:00:00,000 --> 00:00:01,000\n\n2\n",
			wantErr: ErrNoText,
		},
		{
			name:    "empty",
			doc:     "",
			wantErr: ErrNoText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExtractText() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractFileMissing(t *testing.T) {
	if _, err := ExtractFile(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Error("ExtractFile() should fail for a missing file")
	}
}
