package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"anime-vault-go/internal/models"
	"anime-vault-go/internal/tokenize"
)

func completeRequest() *mintRequest {
	return &mintRequest{
		details: tokenize.ItemDetails{
			Name:        "Tanjiro Figure",
			Description: "1/7 scale figure, boxed",
			Category:    models.CategoryFigure,
			Rarity:      models.RarityRare,
			Series:      "Demon Slayer",
			Character:   "Tanjiro",
			Images:      []tokenize.ImageFile{{Filename: "tanjiro.png", ContentType: "image/png", Data: []byte("png")}},
		},
		verification: tokenize.Verification{
			Photos: []tokenize.ImageFile{{Filename: "box.jpg", ContentType: "image/jpeg", Data: []byte("jpg")}},
		},
	}
}

func TestFillWizard(t *testing.T) {
	wizard, err := fillWizard(completeRequest())
	if err != nil {
		t.Fatalf("fillWizard failed: %v", err)
	}
	if wizard.Step() != tokenize.StepPreview {
		t.Fatalf("Expected preview step, got %s", wizard.Step())
	}

	preview, err := wizard.Preview()
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if preview.Name != "Tanjiro Figure" || preview.ImageCount != 1 || preview.PhotoCount != 1 {
		t.Errorf("Unexpected preview: %+v", preview)
	}
}

func TestFillWizardIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*mintRequest)
	}{
		{"missing name", func(r *mintRequest) { r.details.Name = "" }},
		{"missing image", func(r *mintRequest) { r.details.Images = nil }},
		{"missing photos", func(r *mintRequest) { r.verification.Photos = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := completeRequest()
			tt.modify(req)

			_, err := fillWizard(req)
			var validationErr *tokenize.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tanjiro.png")
	if err := os.WriteFile(path, []byte("png"), 0o600); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}

	files, err := readFiles(" " + path + " ,")
	if err != nil {
		t.Fatalf("readFiles failed: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "tanjiro.png" || files[0].ContentType != "image/png" {
		t.Errorf("Unexpected files: %+v", files)
	}

	if _, err := readFiles(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
