package page

import (
	"net/url"
	"strings"

	"movierec-web/internal/dom"

	"golang.org/x/net/html"
)

// formValues recoge los campos de un formulario como FormData: radios y
// checkboxes solo si están marcados, sin botones ni campos deshabilitados.
func formValues(form *html.Node) url.Values {
	values := url.Values{}
	for _, el := range dom.FindAll(form, func(n *html.Node) bool {
		switch n.Data {
		case "input", "select", "textarea":
			return dom.Attr(n, "name") != "" && !dom.HasAttr(n, "disabled")
		}
		return false
	}) {
		name := dom.Attr(el, "name")
		switch el.Data {
		case "textarea":
			values.Add(name, dom.Text(el))
		case "select":
			for _, opt := range selectedOptions(el) {
				values.Add(name, optionValue(opt))
			}
		default:
			switch strings.ToLower(dom.Attr(el, "type")) {
			case "submit", "button", "reset", "image", "file":
			case "radio", "checkbox":
				if dom.HasAttr(el, "checked") {
					v := dom.Attr(el, "value")
					if !dom.HasAttr(el, "value") {
						v = "on"
					}
					values.Add(name, v)
				}
			default:
				values.Add(name, dom.Attr(el, "value"))
			}
		}
	}
	return values
}

func selectedOptions(sel *html.Node) []*html.Node {
	opts := dom.FindAll(sel, func(n *html.Node) bool { return n.Data == "option" && !dom.HasAttr(n, "disabled") })
	var out []*html.Node
	for _, o := range opts {
		if dom.HasAttr(o, "selected") {
			out = append(out, o)
		}
	}
	if out == nil && !dom.HasAttr(sel, "multiple") && len(opts) > 0 {
		return opts[:1]
	}
	return out
}

func optionValue(opt *html.Node) string {
	if dom.HasAttr(opt, "value") {
		return dom.Attr(opt, "value")
	}
	return strings.TrimSpace(dom.Text(opt))
}
