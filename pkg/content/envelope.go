package content

import (
	"encoding/json"
	"fmt"
)

// Page is the canonical paginated envelope every caller (and the cache)
// sees. The backend historically answered with content, items or data as
// the element field depending on the endpoint; NormalizePage maps all
// accepted shapes to this one before anything downstream touches the
// payload.
type Page struct {
	Content    []json.RawMessage `json:"content"`
	TotalPages int               `json:"totalPages"`
	Number     int               `json:"number"`
}

// rawEnvelope mirrors the duck-typed response shapes.
type rawEnvelope struct {
	Content    []json.RawMessage `json:"content"`
	Items      []json.RawMessage `json:"items"`
	Data       []json.RawMessage `json:"data"`
	TotalPages *int              `json:"totalPages"`
	Number     *int              `json:"number"`
}

// NormalizePage converts a raw response body into the canonical Page.
// A bare JSON array is accepted as a single-page result.
func NormalizePage(raw []byte) (*Page, error) {
	// bare array
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return &Page{Content: arr, TotalPages: 1, Number: 0}, nil
	}

	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode paginated envelope: %w", err)
	}

	page := &Page{TotalPages: 1}
	switch {
	case env.Content != nil:
		page.Content = env.Content
	case env.Items != nil:
		page.Content = env.Items
	case env.Data != nil:
		page.Content = env.Data
	default:
		page.Content = []json.RawMessage{}
	}

	if env.TotalPages != nil {
		page.TotalPages = *env.TotalPages
	}
	if env.Number != nil {
		page.Number = *env.Number
	}
	return page, nil
}

// Encode marshals the page back to its canonical JSON form, the shape
// stored in the cache.
func (p *Page) Encode() (json.RawMessage, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	return raw, nil
}
