package annotation

import "encoding/json"

// Style holds the visual settings for a numbered mark.
//
// A Style is a plain value: compare with ==, and call Clone whenever a style
// crosses an ownership boundary (into a preset catalog, onto an annotation)
// so that later edits to one holder never rewrite another.
type Style struct {
	Name          string  `json:"name"`
	FontFamily    string  `json:"font_family"`
	FontSize      int     `json:"font_size"`
	TextColor     string  `json:"text_color"`
	BgColor       string  `json:"bg_color"`
	BgOpacity     float64 `json:"bg_opacity"`
	Padding       int     `json:"padding"`
	BorderEnabled bool    `json:"border_enabled"`
	BorderWidth   int     `json:"border_width"`
	TailEnabled   bool    `json:"tail_enabled"`
	TailLength    int     `json:"tail_length"`
	TailWidth     int     `json:"tail_width"`
}

// DefaultStyle returns the built-in default style.
func DefaultStyle() Style {
	return Style{
		Name:        "Default",
		FontFamily:  "Arial",
		FontSize:    24,
		TextColor:   "#000000",
		BgColor:     "#FFFF00",
		BgOpacity:   1.0,
		Padding:     4,
		BorderWidth: 1,
		TailLength:  40,
		TailWidth:   2,
	}
}

// Clone returns an independent copy of the style.
func (s Style) Clone() Style {
	return s
}

// UnmarshalJSON loads a style from its JSON mapping form. Missing fields
// keep the default style's values and unrecognized fields are ignored, so
// style data written by older or newer versions still loads.
func (s *Style) UnmarshalJSON(data []byte) error {
	type plain Style
	v := plain(DefaultStyle())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Style(v)
	return nil
}

// UnmarshalStyle loads a single style from JSON, applying the same
// defaulting rules as UnmarshalJSON.
func UnmarshalStyle(data []byte) (Style, error) {
	var s Style
	if err := json.Unmarshal(data, &s); err != nil {
		return Style{}, err
	}
	return s, nil
}
