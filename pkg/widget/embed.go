package widget

import (
	_ "embed"
)

//go:embed assets/widget.css
var widgetStyles string

// Styles returns the widget's default stylesheet. The engine never injects
// it; hosts decide how styling is delivered.
func Styles() string {
	return widgetStyles
}
