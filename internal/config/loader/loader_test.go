package loader

import (
	"errors"
	"io/fs"
	"testing"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

type target struct {
	Name  string `toml:"name" yaml:"name"`
	Count int    `toml:"count" yaml:"count"`
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"A.TOML", FormatTOML},
		{"a.yaml", FormatYAML},
		{"dir/a.yml", FormatYAML},
		{"a.json", FormatUnknown},
		{"noext", FormatUnknown},
	}

	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoader_Load(t *testing.T) {
	l := New(memFS{
		"c.toml": "name = \"toml\"\ncount = 2\n",
		"c.yaml": "name: yaml\ncount: 3\n",
	})

	var v target
	if err := l.Load("c.toml", &v); err != nil {
		t.Fatalf("toml: %v", err)
	}
	if v.Name != "toml" || v.Count != 2 {
		t.Errorf("toml decoded %+v", v)
	}

	if err := l.Load("c.yaml", &v); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if v.Name != "yaml" || v.Count != 3 {
		t.Errorf("yaml decoded %+v", v)
	}

	if err := l.Load("missing.toml", &v); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestDecode_ParseErrorPosition(t *testing.T) {
	var v target
	err := Decode(FormatTOML, "bad.toml", []byte("name = \"x\"\ncount = \"three\"\n"), &v)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Path != "bad.toml" {
		t.Errorf("Path = %q", pe.Path)
	}

	err = Decode(FormatYAML, "bad.yaml", []byte("name: x\nunknown: 1\n"), &v)
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for unknown yaml field, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("yaml Line = %d, want 2", pe.Line)
	}

	if err := Decode(FormatUnknown, "x", nil, &v); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unknown format: got %v", err)
	}
}

func TestParseError_Error(t *testing.T) {
	cause := errors.New("bad value")
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a.toml", Format: FormatTOML, Err: cause}, "a.toml: toml: bad value"},
		{ParseError{Path: "a.yaml", Format: FormatYAML, Line: 3, Err: cause}, "a.yaml:3: yaml: bad value"},
		{ParseError{Path: "a.toml", Format: FormatTOML, Line: 3, Column: 4, Err: cause}, "a.toml:3:4: toml: bad value"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if !errors.Is(&tt.err, cause) {
			t.Error("ParseError must unwrap to its cause")
		}
	}
}
