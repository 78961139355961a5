package fields

// FieldCommon holds the properties shared by every value-collecting field.
type FieldCommon struct {
	Label      string `json:"label" validate:"min=2,max=50"`
	HelperText string `json:"helperText" validate:"max=200"`
	Required   bool   `json:"required"`
}

func (c FieldCommon) IsRequired() bool   { return c.Required }
func (c FieldCommon) FieldLabel() string { return c.Label }

// InputCommon adds a placeholder to FieldCommon.
type InputCommon struct {
	FieldCommon
	PlaceHolder string `json:"placeHolder" validate:"max=50"`
}

type TextConfig struct {
	InputCommon
}

func (c TextConfig) Clone() Config { return c }

type TextareaConfig struct {
	InputCommon
	Rows int `json:"rows" validate:"gte=1,lte=10"`
}

func (c TextareaConfig) Clone() Config { return c }

type NumberConfig struct {
	InputCommon
}

func (c NumberConfig) Clone() Config { return c }

type SelectConfig struct {
	InputCommon
	Options []string `json:"options"`
}

func (c SelectConfig) Clone() Config {
	if c.Options != nil {
		c.Options = append([]string{}, c.Options...)
	}
	return c
}

type CheckboxConfig struct {
	FieldCommon
}

func (c CheckboxConfig) Clone() Config { return c }

type DateConfig struct {
	FieldCommon
}

func (c DateConfig) Clone() Config { return c }

// TextStyle is the typography block shared by heading fields.
type TextStyle struct {
	FontSize       int    `json:"fontSize" validate:"gte=10,lte=72"`
	Alignment      string `json:"alignment" validate:"oneof=left center right"`
	TextColor      string `json:"textColor" validate:"hexrgb"`
	FontWeight     string `json:"fontWeight" validate:"oneof=100 200 300 400 500 600 700 800 900"`
	FontStyle      string `json:"fontStyle" validate:"oneof=normal italic"`
	TextDecoration string `json:"textDecoration" validate:"oneof=none underline"`
	TextTransform  string `json:"textTransform" validate:"oneof=none uppercase capitalize lowercase"`
	FontFamily     string `json:"fontFamily" validate:"oneof=Arial 'Times New Roman' 'Courier New' Georgia Verdana Tahoma"`
}

func (s TextStyle) style() Style {
	return Style{
		FontSize:       s.FontSize,
		Alignment:      s.Alignment,
		Color:          s.TextColor,
		FontWeight:     s.FontWeight,
		FontStyle:      s.FontStyle,
		TextDecoration: s.TextDecoration,
		TextTransform:  s.TextTransform,
		FontFamily:     s.FontFamily,
	}
}

type TitleConfig struct {
	Title string `json:"title" validate:"min=2,max=50"`
	TextStyle
}

func (c TitleConfig) Clone() Config      { return c }
func (c TitleConfig) FieldLabel() string { return c.Title }

type SubtitleConfig struct {
	SubTitle string `json:"subTitle" validate:"min=2,max=50"`
	TextStyle
}

func (c SubtitleConfig) Clone() Config      { return c }
func (c SubtitleConfig) FieldLabel() string { return c.SubTitle }

type ParagraphConfig struct {
	Text string `json:"text" validate:"min=2,max=500"`
}

func (c ParagraphConfig) Clone() Config { return c }

type SeparatorConfig struct{}

func (c SeparatorConfig) Clone() Config { return c }

type SpacerConfig struct {
	Height int `json:"height" validate:"gte=5,lte=200"`
}

func (c SpacerConfig) Clone() Config { return c }
