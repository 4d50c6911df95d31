package tokenize

import (
	"errors"
	"testing"

	"anime-vault-go/internal/models"

	"github.com/google/go-cmp/cmp"
)

func tanjiroDetails() ItemDetails {
	return ItemDetails{
		Name:        "Tanjiro Figure",
		Description: "1/7 scale figure, boxed",
		Category:    models.CategoryFigure,
		Rarity:      models.RarityRare,
		Series:      "Demon Slayer",
		Character:   "Tanjiro",
		Images:      []ImageFile{{Filename: "tanjiro.png", ContentType: "image/png", Data: []byte("png")}},
	}
}

func tanjiroVerification() Verification {
	return Verification{Photos: []ImageFile{{Filename: "box.jpg", Data: []byte("jpg")}}}
}

func TestNext(t *testing.T) {
	valid := ValidationResult{}
	invalid := ValidationResult{Missing: []string{"item_name"}}

	tests := []struct {
		name   string
		step   Step
		result ValidationResult
		want   Step
	}{
		{"details valid", StepItemDetails, valid, StepVerification},
		{"details blocked", StepItemDetails, invalid, StepItemDetails},
		{"verification valid", StepVerification, valid, StepPreview},
		{"preview valid", StepPreview, valid, StepMinted},
		{"minted terminal", StepMinted, valid, StepMinted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(tt.step, tt.result); got != tt.want {
				t.Errorf("Next(%s) = %s, want %s", tt.step, got, tt.want)
			}
		})
	}
}

func TestPrevious(t *testing.T) {
	tests := map[Step]Step{
		StepItemDetails:  StepItemDetails,
		StepVerification: StepItemDetails,
		StepPreview:      StepVerification,
		StepMinted:       StepMinted,
	}
	for step, want := range tests {
		if got := Previous(step); got != want {
			t.Errorf("Previous(%s) = %s, want %s", step, got, want)
		}
	}
}

func TestValidateDetails_EnumeratesMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *ItemDetails)
		want   []string
	}{
		{"complete", func(d *ItemDetails) {}, nil},
		{"no name", func(d *ItemDetails) { d.Name = "" }, []string{"item_name"}},
		{"no description", func(d *ItemDetails) { d.Description = "" }, []string{"description"}},
		{"no category", func(d *ItemDetails) { d.Category = "" }, []string{"category"}},
		{"no rarity", func(d *ItemDetails) { d.Rarity = "" }, []string{"rarity"}},
		{"no series", func(d *ItemDetails) { d.Series = "" }, []string{"series"}},
		{"no character", func(d *ItemDetails) { d.Character = "" }, []string{"character"}},
		{"no images", func(d *ItemDetails) { d.Images = nil }, []string{"images"}},
		{"empty images", func(d *ItemDetails) { d.Images = []ImageFile{} }, []string{"images"}},
		{"everything", func(d *ItemDetails) { *d = ItemDetails{} }, []string{
			"item_name", "description", "category", "rarity", "series", "character", "images",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := tanjiroDetails()
			tt.mutate(&details)

			result := ValidateDetails(details)
			if diff := cmp.Diff(tt.want, result.Missing); diff != "" {
				t.Errorf("Missing fields mismatch (-want +got):\n%s", diff)
			}
			if result.Valid() != (len(tt.want) == 0) {
				t.Errorf("Valid() = %v with missing %v", result.Valid(), result.Missing)
			}
		})
	}
}

func TestValidateDetails_InvalidValues(t *testing.T) {
	details := tanjiroDetails()
	details.Category = "plushie"
	details.Rarity = "mythic"
	year := 1200
	details.ReleaseYear = &year

	result := ValidateDetails(details)
	if diff := cmp.Diff([]string{"category", "rarity", "release_year"}, result.Invalid); diff != "" {
		t.Errorf("Invalid fields mismatch (-want +got):\n%s", diff)
	}

	var validationErr *ValidationError
	if !errors.As(result.Err(), &validationErr) {
		t.Fatalf("Expected *ValidationError, got %v", result.Err())
	}
}

func TestValidateVerification(t *testing.T) {
	if result := ValidateVerification(Verification{}); !cmp.Equal(result.Missing, []string{"photos"}) {
		t.Errorf("Expected photos missing, got %v", result.Missing)
	}
	if result := ValidateVerification(tanjiroVerification()); !result.Valid() {
		t.Errorf("Expected valid verification, got %+v", result)
	}
}

func TestWizard_BlocksForwardNavigation(t *testing.T) {
	w := NewWizard()
	details := tanjiroDetails()
	details.Series = ""

	err := w.SubmitDetails(details)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if diff := cmp.Diff([]string{"series"}, validationErr.Missing); diff != "" {
		t.Errorf("Missing fields mismatch (-want +got):\n%s", diff)
	}
	if w.Step() != StepItemDetails {
		t.Errorf("Expected to stay on item details, got %s", w.Step())
	}
}

func TestWizard_KeepsImagesWhenResubmitted(t *testing.T) {
	w := NewWizard()
	if err := w.SubmitDetails(tanjiroDetails()); err != nil {
		t.Fatalf("SubmitDetails failed: %v", err)
	}
	w.Back()

	updated := tanjiroDetails()
	updated.Description = "Updated description"
	updated.Images = nil
	if err := w.SubmitDetails(updated); err != nil {
		t.Fatalf("Resubmit failed: %v", err)
	}

	draft := w.Draft()
	if len(draft.Details.Images) != 1 || draft.Details.Images[0].Filename != "tanjiro.png" {
		t.Errorf("Expected earlier image to be kept, got %+v", draft.Details.Images)
	}
	if draft.Details.Description != "Updated description" {
		t.Errorf("Expected updated description, got %s", draft.Details.Description)
	}
}

func TestWizard_TanjiroFlow(t *testing.T) {
	w := NewWizard()

	if err := w.SubmitDetails(tanjiroDetails()); err != nil {
		t.Fatalf("SubmitDetails failed: %v", err)
	}
	if err := w.SubmitVerification(tanjiroVerification()); err != nil {
		t.Fatalf("SubmitVerification failed: %v", err)
	}
	if w.Step() != StepPreview {
		t.Fatalf("Expected preview step, got %s", w.Step())
	}

	preview, err := w.Preview()
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	want := Preview{
		Name:        "Tanjiro Figure",
		Description: "1/7 scale figure, boxed",
		Category:    models.CategoryFigure,
		Rarity:      models.RarityRare,
		Series:      "Demon Slayer",
		Character:   "Tanjiro",
		ImageCount:  1,
		PhotoCount:  1,
	}
	if diff := cmp.Diff(want, preview); diff != "" {
		t.Errorf("Preview mismatch (-want +got):\n%s", diff)
	}

	if err := w.Next(); !errors.Is(err, ErrConfirmRequired) {
		t.Errorf("Expected ErrConfirmRequired, got %v", err)
	}

	if err := w.MarkMinted(&models.MintResult{TxDigest: "DIGEST"}); err != nil {
		t.Fatalf("MarkMinted failed: %v", err)
	}
	if w.Step() != StepMinted || w.Minted().TxDigest != "DIGEST" {
		t.Errorf("Expected minted step with result, got %s %+v", w.Step(), w.Minted())
	}

	w.Back()
	if w.Step() != StepMinted {
		t.Error("Expected minted to be terminal")
	}
}

func TestWizard_WrongStep(t *testing.T) {
	w := NewWizard()
	if err := w.SubmitVerification(tanjiroVerification()); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
	if _, err := w.Preview(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
	if err := w.MarkMinted(&models.MintResult{}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
}
