package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tomotrip/internal/core/guidefilter"

	"gopkg.in/yaml.v3"
)

// seedFile is the on disk catalog layout
type seedFile struct {
	Guides []seedGuide `yaml:"guides"`
}

type seedGuide struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Location           string   `yaml:"location"`
	Languages          []string `yaml:"languages"`
	HourlyFee          int      `yaml:"hourly_fee"`
	Keywords           []string `yaml:"keywords"`
	Description        string   `yaml:"description"`
	VerificationStatus string   `yaml:"verification_status"`
}

// YAML reads the catalog from a seed file; file order is catalog order
type YAML struct {
	Path string
}

// Name implements Source
func (y YAML) Name() string { return "yaml" }

// Load implements Source
func (y YAML) Load(_ context.Context) ([]guidefilter.GuideRecord, error) {
	if y.Path == "" {
		return nil, errors.New("guides yaml: no seed file configured")
	}
	f, err := os.Open(y.Path)
	if err != nil {
		return nil, fmt.Errorf("guides yaml: %w", err)
	}
	defer func() { _ = f.Close() }()

	out, err := DecodeYAML(f)
	if err != nil {
		return nil, fmt.Errorf("guides yaml %s: %w", y.Path, err)
	}
	return out, nil
}

// DecodeYAML parses a seed document; unknown keys are rejected so typos surface early
func DecodeYAML(r io.Reader) ([]guidefilter.GuideRecord, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc seedFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []guidefilter.GuideRecord{}, nil
		}
		return nil, err
	}

	out := make([]guidefilter.GuideRecord, 0, len(doc.Guides))
	for _, g := range doc.Guides {
		out = append(out, guidefilter.GuideRecord{
			ID:           g.ID,
			Name:         g.Name,
			Location:     g.Location,
			Languages:    g.Languages,
			HourlyFee:    g.HourlyFee,
			Keywords:     g.Keywords,
			Description:  g.Description,
			Verification: guidefilter.VerificationStatus(g.VerificationStatus),
		})
	}
	return out, nil
}

// EncodeYAML writes records in the seed layout
func EncodeYAML(w io.Writer, records []guidefilter.GuideRecord) error {
	doc := seedFile{Guides: make([]seedGuide, 0, len(records))}
	for _, g := range records {
		doc.Guides = append(doc.Guides, seedGuide{
			ID:                 g.ID,
			Name:               g.Name,
			Location:           g.Location,
			Languages:          g.Languages,
			HourlyFee:          g.HourlyFee,
			Keywords:           g.Keywords,
			Description:        g.Description,
			VerificationStatus: string(g.Verification),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
