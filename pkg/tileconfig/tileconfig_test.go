package tileconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.csv")
	content := "100,200,0\n-50, 25, 10\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	coords, err := Load(path, 2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(coords) != 2 {
		t.Fatalf("Expected 2 coordinates, got %d", len(coords))
	}

	// Stage axes flip: divide by the negated pixel size.
	if coords[0].X != -50 || coords[0].Y != -100 || coords[0].Z != 0 {
		t.Errorf("Expected first coordinate (-50, -100, 0), got %+v", coords[0])
	}
	if coords[1].X != 25 || coords[1].Y != -12.5 || coords[1].Z != -5 {
		t.Errorf("Expected second coordinate (25, -12.5, -5), got %+v", coords[1])
	}
}

func TestLoadBadField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.csv")
	if err := os.WriteFile(path, []byte("1,2,oops\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, 1); err == nil {
		t.Error("Expected an error for a non-numeric field")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TileConfiguration.txt")
	coords := []Coord{{X: 0, Y: 0}, {X: -128, Y: 64.5}}

	if err := Write(path, coords, "", ""); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.Contains(out, "dim = 2") {
		t.Error("Expected a dim = 2 header")
	}
	if !strings.Contains(out, "pos_0000_color_image.tif ; ; (0, 0)") {
		t.Errorf("Expected first default-named tile line, got:\n%s", out)
	}
	if !strings.Contains(out, "pos_0001_color_image.tif ; ; (-128, 64.5)") {
		t.Errorf("Expected second tile line, got:\n%s", out)
	}
}

func TestWriteCustomNaming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TileConfiguration.txt")
	if err := Write(path, []Coord{{X: 1, Y: 2}}, "tile_", "_composite"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tile_0000_composite.tif ; ; (1, 2)") {
		t.Errorf("Expected custom-named tile line, got:\n%s", string(data))
	}
}
