package tokenize

import (
	"errors"
	"fmt"

	"anime-vault-go/internal/models"
)

type Step int

const (
	StepItemDetails Step = iota + 1
	StepVerification
	StepPreview
	StepMinted
)

var Steps = []Step{StepItemDetails, StepVerification, StepPreview, StepMinted}

func (s Step) String() string {
	switch s {
	case StepItemDetails:
		return "Item Details"
	case StepVerification:
		return "Verification"
	case StepPreview:
		return "Preview"
	case StepMinted:
		return "Minted"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Next advances one step when result is valid. Minted is terminal.
func Next(step Step, result ValidationResult) Step {
	if !result.Valid() || step >= StepMinted || step < StepItemDetails {
		return step
	}
	return step + 1
}

// Previous moves back one step. There is no way back from Minted.
func Previous(step Step) Step {
	if step <= StepItemDetails || step >= StepMinted {
		return step
	}
	return step - 1
}

var (
	ErrWrongStep       = errors.New("action not available at the current step")
	ErrConfirmRequired = errors.New("confirm the mint to finish the preview step")
)

// ImageFile is an uploaded file held in memory until the mint.
type ImageFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"-"`
}

type ItemDetails struct {
	Name         string          `json:"item_name" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	Category     models.Category `json:"category" validate:"required,category"`
	Rarity       models.Rarity   `json:"rarity" validate:"required,rarity"`
	Series       string          `json:"series" validate:"required"`
	Character    string          `json:"character" validate:"required"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	ReleaseYear  *int            `json:"release_year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Condition    string          `json:"condition,omitempty"`
	Images       []ImageFile     `json:"images" validate:"min=1"`
}

type Verification struct {
	Photos              []ImageFile `json:"photos" validate:"min=1"`
	Certificates        []ImageFile `json:"certificates,omitempty"`
	ProvenanceDocuments []ImageFile `json:"provenance_documents,omitempty"`
}

// Draft is everything collected by the wizard before minting.
type Draft struct {
	Details      ItemDetails  `json:"details"`
	Verification Verification `json:"verification"`
}

// Preview is what the preview step shows before confirmation.
type Preview struct {
	Name         string          `json:"item_name"`
	Description  string          `json:"description"`
	Category     models.Category `json:"category"`
	Rarity       models.Rarity   `json:"rarity"`
	Series       string          `json:"series"`
	Character    string          `json:"character"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	ReleaseYear  *int            `json:"release_year,omitempty"`
	Condition    string          `json:"condition,omitempty"`
	ImageCount   int             `json:"image_count"`
	PhotoCount   int             `json:"photo_count"`
}

func (d Draft) Preview() Preview {
	return Preview{
		Name:         d.Details.Name,
		Description:  d.Details.Description,
		Category:     d.Details.Category,
		Rarity:       d.Details.Rarity,
		Series:       d.Details.Series,
		Character:    d.Details.Character,
		Manufacturer: d.Details.Manufacturer,
		ReleaseYear:  d.Details.ReleaseYear,
		Condition:    d.Details.Condition,
		ImageCount:   len(d.Details.Images),
		PhotoCount:   len(d.Verification.Photos),
	}
}

// Wizard holds the local state of one tokenization flow. It is not safe for
// concurrent use.
type Wizard struct {
	step   Step
	draft  Draft
	minted *models.MintResult
}

func NewWizard() *Wizard {
	return &Wizard{step: StepItemDetails}
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) Draft() Draft {
	return w.draft
}

// SubmitDetails stores the item details and advances when they validate.
// Previously submitted images are kept unless new ones are given.
func (w *Wizard) SubmitDetails(details ItemDetails) error {
	if w.step != StepItemDetails {
		return ErrWrongStep
	}
	if len(details.Images) == 0 {
		details.Images = w.draft.Details.Images
	}
	w.draft.Details = details

	result := ValidateDetails(details)
	w.step = Next(w.step, result)
	return result.Err()
}

// SubmitVerification stores the verification documents and advances when
// at least one photo is present.
func (w *Wizard) SubmitVerification(verification Verification) error {
	if w.step != StepVerification {
		return ErrWrongStep
	}
	if len(verification.Photos) == 0 {
		verification.Photos = w.draft.Verification.Photos
	}
	w.draft.Verification = verification

	result := ValidateVerification(verification)
	w.step = Next(w.step, result)
	return result.Err()
}

// Next revalidates the current step and advances. Leaving the preview step
// requires MarkMinted.
func (w *Wizard) Next() error {
	var result ValidationResult
	switch w.step {
	case StepItemDetails:
		result = ValidateDetails(w.draft.Details)
	case StepVerification:
		result = ValidateVerification(w.draft.Verification)
	case StepPreview:
		return ErrConfirmRequired
	default:
		return ErrWrongStep
	}
	w.step = Next(w.step, result)
	return result.Err()
}

func (w *Wizard) Back() {
	w.step = Previous(w.step)
}

func (w *Wizard) Preview() (Preview, error) {
	if w.step != StepPreview {
		return Preview{}, ErrWrongStep
	}
	return w.draft.Preview(), nil
}

// MarkMinted records a confirmed mint and finishes the flow.
func (w *Wizard) MarkMinted(result *models.MintResult) error {
	if w.step != StepPreview {
		return ErrWrongStep
	}
	if result == nil {
		return fmt.Errorf("mint result is required")
	}
	validation := Validate(w.draft)
	if !validation.Valid() {
		return validation.Err()
	}
	w.minted = result
	w.step = Next(w.step, validation)
	return nil
}

func (w *Wizard) Minted() *models.MintResult {
	return w.minted
}
