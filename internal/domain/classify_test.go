package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		max     int64
		wantErr error
	}{
		{
			name:   "png accepted",
			upload: Upload{Filename: "sky.png", ContentType: "image/png", Data: pngHeader},
		},
		{
			name:    "empty",
			upload:  Upload{Filename: "sky.png", ContentType: "image/png"},
			wantErr: ErrEmptyUpload,
		},
		{
			name:    "declared text",
			upload:  Upload{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
			wantErr: ErrNotImage,
		},
		{
			name:    "declared image but text bytes",
			upload:  Upload{Filename: "fake.png", ContentType: "image/png", Data: []byte("just words")},
			wantErr: ErrNotImage,
		},
		{
			name:    "too large",
			upload:  Upload{Filename: "sky.png", ContentType: "image/png", Data: append(bytes.Clone(pngHeader), make([]byte, 64)...)},
			max:     32,
			wantErr: ErrUploadTooLarge,
		},
		{
			name:   "zero limit disables size check",
			upload: Upload{Filename: "sky.png", ContentType: "image/png", Data: append(bytes.Clone(pngHeader), make([]byte, 4096)...)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.upload, tt.max)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPrediction_Formatting(t *testing.T) {
	p := Prediction{Code: "Cu", Name: "적운", Confidence: 0.92}
	assert.Equal(t, "92.0%", p.Percent())
	assert.Equal(t, "적운", p.DisplayName())

	assert.Equal(t, "권운", Prediction{Code: "Ci", NativeName: "권운"}.DisplayName())
	assert.Equal(t, "St", Prediction{Code: "St"}.DisplayName())
	assert.Equal(t, "7.5%", Prediction{Confidence: 0.075}.Percent())
}

func TestClassifyResult_Top(t *testing.T) {
	_, ok := ClassifyResult{}.Top()
	assert.False(t, ok)

	r := ClassifyResult{Predictions: []Prediction{{Code: "Cu"}, {Code: "Sc"}}}
	top, ok := r.Top()
	require.True(t, ok)
	assert.Equal(t, "Cu", top.Code)
}
