// Package seed fills an empty catalog from a product dataset. Records carry
// what the dataset knows (title, category, image, bullets); price, MRP,
// rating, reviews and stock are generated per category.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed sample.json
var sample []byte

// Record is one dataset row.
type Record struct {
	ASIN           string   `json:"asin"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	ImageURL       string   `json:"img_url"`
	FeatureBullets []string `json:"feature_bullets"`
	TechProcess    string   `json:"tech_process"`
	Labels         string   `json:"labels"`
}

// Decode reads a JSON array of records and drops rows without an ASIN,
// title or category.
func Decode(r io.Reader) ([]Record, error) {
	var raw []Record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("dataset decode error: %w", err)
	}

	out := make([]Record, 0, len(raw))
	for _, rec := range raw {
		if strings.TrimSpace(rec.ASIN) == "" || strings.TrimSpace(rec.Title) == "" || strings.TrimSpace(rec.Category) == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Sample returns the dataset bundled with the binary.
func Sample() ([]Record, error) {
	return Decode(bytes.NewReader(sample))
}

// Open reads the dataset at path, or the bundled one when path is empty.
func Open(path string) ([]Record, error) {
	if path == "" {
		return Sample()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// CategoryName turns a dataset slug into a display name:
// "office_and_school_supplies" becomes "Office & School Supplies".
func CategoryName(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "_", " "))
	for i, w := range words {
		if w == "and" {
			words[i] = "&"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func features(bullets []string) string {
	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if b = strings.TrimSpace(b); b != "" {
			lines = append(lines, "• "+b)
		}
	}
	return strings.Join(lines, "\n")
}
