package models

import (
	"encoding/json"
	"strings"
)

// SelectedFile is the document picked in the upload form.
type SelectedFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	Pages       int    `json:"pages"` // 0 when the PDF could not be parsed
}

func (f *SelectedFile) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// SearchResults accepts either a JSON list of strings or a single string.
type SearchResults []string

func (s *SearchResults) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		if one == "" {
			*s = SearchResults{}
			return nil
		}
		*s = SearchResults{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

type SearchResult struct {
	Results    SearchResults `json:"results,omitempty"`
	DocumentID *int          `json:"document_id,omitempty"`
	Filename   *string       `json:"filename,omitempty"`
	Detail     *string       `json:"detail,omitempty"`
}

// Text joins the results with newlines, "" when there are none.
func (r *SearchResult) Text() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Results, "\n")
}
