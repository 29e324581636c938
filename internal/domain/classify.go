package domain

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	// ErrNotImage is returned when an upload is not an image file.
	ErrNotImage = errors.New("only image files can be uploaded")

	// ErrUploadTooLarge is returned when an upload exceeds the size limit.
	ErrUploadTooLarge = errors.New("upload too large")

	// ErrEmptyUpload is returned when an upload carries no bytes.
	ErrEmptyUpload = errors.New("upload is empty")
)

// Upload is an image submitted for classification.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ValidateUpload checks the client-side preconditions before any network call:
// the declared type must be image/*, the bytes must sniff as an image, and the
// size must stay within maxBytes (0 disables the limit).
func ValidateUpload(u Upload, maxBytes int64) error {
	if len(u.Data) == 0 {
		return ErrEmptyUpload
	}
	if !isImageType(u.ContentType) {
		return fmt.Errorf("%w: declared type %q", ErrNotImage, u.ContentType)
	}
	if sniffed := http.DetectContentType(u.Data); !isImageType(sniffed) {
		return fmt.Errorf("%w: content looks like %q", ErrNotImage, sniffed)
	}
	if maxBytes > 0 && int64(len(u.Data)) > maxBytes {
		return fmt.Errorf("%w: %s exceeds the %s limit", ErrUploadTooLarge,
			humanize.Bytes(uint64(len(u.Data))), humanize.Bytes(uint64(maxBytes)))
	}
	return nil
}

func isImageType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}

// Prediction is one ranked candidate returned by the classifier. Name is what the
// contract specifies; NativeName covers servers that send name_ko instead.
type Prediction struct {
	Code        string  `json:"code"`
	Name        string  `json:"name,omitempty"`
	NativeName  string  `json:"name_ko,omitempty"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// DisplayName returns the best available human-readable name.
func (p Prediction) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.NativeName != "":
		return p.NativeName
	default:
		return p.Code
	}
}

// Percent formats the confidence as a percentage with one decimal, e.g. "92.0%".
func (p Prediction) Percent() string {
	return fmt.Sprintf("%.1f%%", p.Confidence*100)
}

// ConfidenceLow is the confidence level that triggers photography tips.
const ConfidenceLow = "low"

// ClassifyResult is the successful payload of a classification.
type ClassifyResult struct {
	Predictions     []Prediction   `json:"predictions"`
	ConfidenceLevel string         `json:"confidence_level"`
	ConfidenceText  string         `json:"confidence_text"`
	Tips            []string       `json:"tips"`
	Meta            map[string]any `json:"meta,omitempty"`
}

// Top returns the highest-ranked prediction.
func (r ClassifyResult) Top() (Prediction, bool) {
	if len(r.Predictions) == 0 {
		return Prediction{}, false
	}
	return r.Predictions[0], true
}

// Classifier identifies the cloud genus shown in an image.
type Classifier interface {
	Classify(ctx context.Context, u Upload) (ClassifyResult, error)
}
