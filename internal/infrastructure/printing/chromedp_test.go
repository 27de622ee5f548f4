package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrintParams(t *testing.T) {
	params := buildPrintParams(&RenderRequest{HTML: "<p>x</p>"})

	assert.InDelta(t, 8.27, params.paperWidth, 0.01)
	assert.InDelta(t, 11.69, params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(defaultMarginMM), params.margin, 0.001)
	assert.False(t, params.landscape)

	landscape := buildPrintParams(&RenderRequest{HTML: "<p>x</p>", Landscape: true, MarginMM: 5})
	assert.True(t, landscape.landscape)
	assert.InDelta(t, mmToInches(5), landscape.margin, 0.001)
}

func TestCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, completeHTML(&RenderRequest{HTML: full}))

	wrapped := completeHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF")))
	pdf := []byte("/Type /Pages /Type /Page /Type /Page")
	assert.Equal(t, 2, estimatePageCount(pdf))
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{Timeout: time.Second})
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{HTML: "   "})

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)

	assert.Equal(t, "chromedp execution failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "x", NewRenderError(ErrCodeRenderFailed, "x", nil).Error())
}
