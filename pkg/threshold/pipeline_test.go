package threshold

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/brp-optics/flimfitutils/internal/models"
	"github.com/brp-optics/flimfitutils/pkg/asc"
	"github.com/brp-optics/flimfitutils/pkg/dataset"
)

// TestPipelineRun exercises the whole masking pass on a tiny file-set:
// load, mask, derive the free/bound ratio and export with NaN fill.
func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "pos_0000")
	if err := os.WriteFile(stem+"_a1.asc", []byte("2 0\n4 8\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stem+"_a2.asc", []byte("1 5\n0 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	codec := asc.NewCodec(2, 2)
	p := &Pipeline{
		Codec:    codec,
		Resolver: dataset.NewResolver(codec, nil),
		Thresholds: Spec{
			models.KindA1: {Min: 0, Max: math.Inf(1)},
			models.KindA2: {Min: 0, Max: math.Inf(1)},
		},
		OutSuffix: ".th.asc",
		Fill:      math.NaN(),
	}
	if err := p.Run(stem+"_a1.asc", stem); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ar, err := codec.Load(stem + "_ar.th.asc")
	if err != nil {
		t.Fatalf("Loading exported ratio failed: %v", err)
	}

	// Pixels where a1 or a2 is zero are invalid; the rest hold a1/a2.
	want := []float64{2, math.NaN(), math.NaN(), 4}
	for i, w := range want {
		got := ar.Data[i]
		if math.IsNaN(w) != math.IsNaN(got) || (!math.IsNaN(w) && got != w) {
			t.Errorf("ar[%d]: expected %v, got %v", i, w, got)
		}
	}

	// The same mask must have reached the input quantities too.
	a1, err := codec.Load(stem + "_a1.th.asc")
	if err != nil {
		t.Fatalf("Loading exported a1 failed: %v", err)
	}
	if a1.Data[0] != 2 || a1.Data[3] != 8 {
		t.Errorf("Expected a1 valid pixels 2 and 8, got %v and %v", a1.Data[0], a1.Data[3])
	}
}

// TestPipelineOutputDir verifies that an existing directory as the out
// argument places the exports there under the input's stem.
func TestPipelineOutputDir(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	stem := filepath.Join(inDir, "pos_0001")
	if err := os.WriteFile(stem+"_chi.asc", []byte("1 1\n1 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	codec := asc.NewCodec(2, 2)
	p := &Pipeline{
		Codec:      codec,
		Resolver:   dataset.NewResolver(codec, nil),
		Thresholds: Spec{models.KindChi: {Min: 0.5, Max: 2}},
		OutSuffix:  ".th.asc",
		Fill:       math.NaN(),
	}
	if err := p.Run(stem+"_chi.asc", outDir); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantPath := filepath.Join(outDir, "pos_0001_chi.th.asc")
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("Expected export at %s: %v", wantPath, err)
	}
}

// TestExportAllFill verifies that masked pixels are written with the
// configured fill value.
func TestExportAllFill(t *testing.T) {
	mg := models.NewMaskedGrid(models.Grid{Rows: 1, Cols: 2, Data: []float64{7, 9}})
	mg.Mask[1] = true
	mds := models.MaskedDataset{models.KindT1: mg}

	codec := asc.NewCodec(1, 2)
	stem := filepath.Join(t.TempDir(), "pos")
	if err := ExportAll(codec, stem, mds, ".th.asc", -1); err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}

	got, err := codec.Load(stem + "_t1.th.asc")
	if err != nil {
		t.Fatal(err)
	}
	if got.Data[0] != 7 || got.Data[1] != -1 {
		t.Errorf("Expected [7 -1], got %v", got.Data)
	}
}
