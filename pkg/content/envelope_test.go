package content

import (
	"testing"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantLen    int
		wantTotal  int
		wantNumber int
		wantErr    bool
	}{
		{
			name:       "spring style content envelope",
			raw:        `{"content":[{"id":1},{"id":2}],"totalPages":3,"number":1}`,
			wantLen:    2,
			wantTotal:  3,
			wantNumber: 1,
		},
		{
			name:      "items envelope",
			raw:       `{"items":[{"id":1}],"totalPages":2}`,
			wantLen:   1,
			wantTotal: 2,
		},
		{
			name:      "data envelope",
			raw:       `{"data":[{"id":1}]}`,
			wantLen:   1,
			wantTotal: 1,
		},
		{
			name:      "bare array is a single page",
			raw:       `[{"id":1},{"id":2},{"id":3}]`,
			wantLen:   3,
			wantTotal: 1,
		},
		{
			name:      "empty content",
			raw:       `{"content":[],"totalPages":0,"number":0}`,
			wantLen:   0,
			wantTotal: 0,
		},
		{
			name:      "no element field at all",
			raw:       `{"totalPages":4}`,
			wantLen:   0,
			wantTotal: 4,
		},
		{
			name:    "not an envelope",
			raw:     `"just a string"`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			raw:     `{nope`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := NormalizePage([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizePage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(page.Content) != tt.wantLen {
				t.Errorf("len(Content) = %d, want %d", len(page.Content), tt.wantLen)
			}
			if page.TotalPages != tt.wantTotal && tt.wantTotal != 0 {
				t.Errorf("TotalPages = %d, want %d", page.TotalPages, tt.wantTotal)
			}
			if page.Number != tt.wantNumber {
				t.Errorf("Number = %d, want %d", page.Number, tt.wantNumber)
			}
		})
	}
}

func TestNormalizePage_ContentWins(t *testing.T) {
	// when several element fields are present, content takes precedence
	page, err := NormalizePage([]byte(`{"content":[{"id":1}],"items":[{"id":9},{"id":8}]}`))
	if err != nil {
		t.Fatalf("NormalizePage() error = %v", err)
	}
	if len(page.Content) != 1 {
		t.Errorf("len(Content) = %d, want 1 (content field wins)", len(page.Content))
	}
}

func TestPage_EncodeRoundTrip(t *testing.T) {
	page, err := NormalizePage([]byte(`{"items":[{"id":1}],"totalPages":2,"number":1}`))
	if err != nil {
		t.Fatalf("NormalizePage() error = %v", err)
	}

	raw, err := page.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	again, err := NormalizePage(raw)
	if err != nil {
		t.Fatalf("NormalizePage(Encode()) error = %v", err)
	}
	if len(again.Content) != 1 || again.TotalPages != 2 || again.Number != 1 {
		t.Errorf("round trip changed the page: %+v", again)
	}
}
