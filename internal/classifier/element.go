// internal/classifier/element.go
package classifier

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
	"github.com/xkilldash9x/formpilot-cli/internal/catalog"
)

// elementInfo is the extracted view of one candidate input element.
type elementInfo struct {
	node     *html.Node
	data     catalog.ElementData
	kind     schemas.FieldKind
	required bool
	visible  bool
	disabled bool
	options  []schemas.SelectOption
	group    string
}

// extractInputs collects every input, textarea and select under the container,
// in document order, with enough extracted data for matching.
func extractInputs(container *html.Node, labels map[string]string) []elementInfo {
	nodes := htmlquery.Find(container, ".//input | .//textarea | .//select")
	infos := make([]elementInfo, 0, len(nodes))
	for _, n := range nodes {
		infos = append(infos, extractElement(n, labels))
	}
	return infos
}

func extractElement(n *html.Node, labels map[string]string) elementInfo {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}

	tag := strings.ToLower(n.Data)
	inputType := strings.ToLower(attrs["type"])
	if tag == "input" && inputType == "" {
		inputType = "text"
	}

	info := elementInfo{
		node: n,
		data: catalog.ElementData{
			Tag:       tag,
			InputType: inputType,
			Attrs:     attrs,
			Label:     resolveLabel(n, attrs, labels),
		},
		kind:     fieldKind(tag, inputType),
		required: hasRequired(attrs),
		visible:  isVisible(attrs),
		disabled: isDisabled(attrs),
		group:    attrs["name"],
	}

	if tag == "select" {
		info.options = extractOptions(n)
	}
	return info
}

// collectLabels builds an id -> label-text index from every <label for=...>
// under the document root, so per-element resolution is a map lookup.
func collectLabels(root *html.Node) map[string]string {
	labels := map[string]string{}
	for _, l := range htmlquery.Find(root, "//label[@for]") {
		id := htmlquery.SelectAttr(l, "for")
		if id == "" {
			continue
		}
		if text := squeeze(htmlquery.InnerText(l)); text != "" {
			labels[id] = text
		}
	}
	return labels
}

// resolveLabel finds the best human-readable label for an input, in order of
// reliability: explicit <label for>, wrapping <label>, aria-label, placeholder.
func resolveLabel(n *html.Node, attrs map[string]string, labels map[string]string) string {
	if id := attrs["id"]; id != "" {
		if text, ok := labels[id]; ok {
			return text
		}
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && strings.EqualFold(p.Data, "label") {
			if text := squeeze(htmlquery.InnerText(p)); text != "" {
				return text
			}
			break
		}
	}
	if v := attrs["aria-label"]; v != "" {
		return squeeze(v)
	}
	return squeeze(attrs["placeholder"])
}

func extractOptions(selectNode *html.Node) []schemas.SelectOption {
	var options []schemas.SelectOption
	for _, o := range htmlquery.Find(selectNode, ".//option") {
		text := squeeze(htmlquery.InnerText(o))
		value := htmlquery.SelectAttr(o, "value")
		if value == "" {
			value = text
		}
		options = append(options, schemas.SelectOption{Value: value, Text: text})
	}
	return options
}

func fieldKind(tag, inputType string) schemas.FieldKind {
	switch tag {
	case "textarea":
		return schemas.KindTextarea
	case "select":
		return schemas.KindSelect
	}
	switch inputType {
	case "email":
		return schemas.KindEmail
	case "tel":
		return schemas.KindTel
	case "url":
		return schemas.KindURL
	case "number":
		return schemas.KindNumber
	case "date":
		return schemas.KindDate
	case "checkbox":
		return schemas.KindCheckbox
	case "radio":
		return schemas.KindRadio
	case "file":
		return schemas.KindFile
	}
	return schemas.KindText
}

func hasRequired(attrs map[string]string) bool {
	if _, ok := attrs["required"]; ok {
		return true
	}
	return attrs["aria-required"] == "true"
}

func isDisabled(attrs map[string]string) bool {
	if _, ok := attrs["disabled"]; ok {
		return true
	}
	if _, ok := attrs["readonly"]; ok {
		return true
	}
	return attrs["aria-disabled"] == "true"
}

// isVisible is a static-snapshot approximation of visibility. It cannot see
// computed styles, but it catches type=hidden, the hidden attribute, inline
// display/visibility styles, aria-hidden and zero-sized honeypot inputs.
func isVisible(attrs map[string]string) bool {
	if attrs["type"] == "hidden" {
		return false
	}
	if _, ok := attrs["hidden"]; ok {
		return false
	}
	if attrs["aria-hidden"] == "true" {
		return false
	}
	style := strings.ReplaceAll(strings.ToLower(attrs["style"]), " ", "")
	if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
		return false
	}
	if attrs["width"] == "0" || attrs["height"] == "0" {
		return false
	}
	return true
}

// squeeze trims and collapses internal whitespace runs to single spaces.
func squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
