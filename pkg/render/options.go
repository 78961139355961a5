package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the definition.
type RenderOptions struct {
	// Title is shown above the fields. Empty omits the heading.
	Title string
	// Selected is the instance id highlighted on the canvas. Properties mode
	// renders the editor of this instance.
	Selected string
	// Values pre-populates fill inputs keyed by instance id.
	Values map[string]string
	// Validate judges every field before rendering so untouched required
	// fields are flagged, as after a rejected submit.
	Validate bool
	// Errors surfaces server-side messages keyed by instance id or path. See
	// MapErrorPayload.
	Errors map[string][]string
	// Hidden emits extra hidden inputs in fill mode (CSRF tokens and the like).
	Hidden map[string]string
	// Action and SubmitLabel configure the fill form element.
	Action      string
	SubmitLabel string
}
