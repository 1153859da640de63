package repo

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tomotrip/internal/core/guidefilter"

	"github.com/google/go-cmp/cmp"
)

func TestYAML_LoadTestdata(t *testing.T) {
	t.Parallel()

	got, err := YAML{Path: "testdata/guides.yaml"}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	want := guidefilter.GuideRecord{
		ID:           "g1",
		Name:         "Aiko Tanaka",
		Location:     "Tokyo Shibuya",
		Languages:    []string{"Japanese", "English"},
		HourlyFee:    5000,
		Keywords:     []string{"night", "food"},
		Description:  "Izakaya crawls and late night ramen around Shibuya",
		Verification: guidefilter.VerificationVerified,
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Fatalf("first record (-want +got):\n%s", diff)
	}
	if got[2].Location != "東京 浅草" || got[2].Verification != "" {
		t.Fatalf("third record = %+v", got[2])
	}

	if _, err := guidefilter.NewCatalog(got); err != nil {
		t.Fatalf("testdata should build a valid catalog: %v", err)
	}
}

func TestYAML_Errors(t *testing.T) {
	t.Parallel()

	if _, err := (YAML{}).Load(context.Background()); err == nil {
		t.Fatalf("empty path should fail")
	}
	if _, err := (YAML{Path: "testdata/missing.yaml"}).Load(context.Background()); err == nil {
		t.Fatalf("missing file should fail")
	}
	_, err := DecodeYAML(strings.NewReader("guides:\n  - id: x\n    fee: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "fee") {
		t.Fatalf("unknown key should be rejected, got %v", err)
	}
}

func TestDecodeYAML_Empty(t *testing.T) {
	t.Parallel()

	got, err := DecodeYAML(strings.NewReader(""))
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty doc = %v, %v", got, err)
	}
}

func TestEncodeYAML_ReadsBack(t *testing.T) {
	t.Parallel()

	in, err := YAML{Path: "testdata/guides.yaml"}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, in); err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	out, err := DecodeYAML(&buf)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("(-in +out):\n%s", diff)
	}
}
