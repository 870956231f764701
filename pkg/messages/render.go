package messages

import (
	"fmt"
	"strings"
)

// Render replaces {{name}} placeholders in the template with values from
// params. Placeholders without a matching param are left unchanged.
//
// Example:
//
//	Render("The {{field}} must be at least {{min}} characters.",
//	    map[string]any{"field": "name", "min": 2})
func Render(template string, params map[string]any) string {
	if len(params) == 0 {
		return template
	}
	result := template
	for key, value := range params {
		result = strings.ReplaceAll(result, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return result
}
