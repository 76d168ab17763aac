package clickresolve

import (
	"strings"

	"github.com/samber/lo"
)

// Clickable reports whether el qualifies as an interaction target: an
// interactive tag, a known class/id/role, an interaction data-attribute or
// inline handler, or membership in a navigation/menu/tab container.
func Clickable(el *Element, v Vocabulary) bool {
	if el == nil || el.IsDocumentRoot() {
		return false
	}
	return ownInteraction(el, v) || insideContainer(el, v)
}

func ownInteraction(el *Element, v Vocabulary) bool {
	tag := strings.ToLower(el.Tag)
	if lo.Contains(v.Tags, tag) {
		if tag == "input" {
			if typ, _ := el.Attr("type"); strings.EqualFold(typ, "hidden") {
				return false
			}
		}
		return true
	}
	if hasAnyFold(el.Classes, v.Classes) {
		return true
	}
	if el.ID != "" && lo.Contains(v.IDs, strings.ToLower(el.ID)) {
		return true
	}
	if lo.Contains(v.Roles, role(el)) {
		return true
	}
	return lo.SomeBy(v.DataAttributes, el.HasAttr) || lo.SomeBy(v.HandlerAttributes, el.HasAttr)
}

func isContainer(el *Element, v Vocabulary) bool {
	return lo.Contains(v.ContainerTags, strings.ToLower(el.Tag)) ||
		lo.Contains(v.ContainerRoles, role(el)) ||
		hasAnyFold(el.Classes, v.ContainerClasses)
}

// insideContainer walks from el to the document root.
func insideContainer(el *Element, v Vocabulary) bool {
	for n := el; n != nil && !n.IsDocumentRoot(); n = n.Parent {
		if isContainer(n, v) {
			return true
		}
	}
	return false
}

// TabID returns the tab identifier carried by el, without a leading '#'.
func TabID(el *Element, v Vocabulary) (string, bool) {
	for _, attr := range v.TabAttributes {
		if val, ok := el.Attr(attr); ok && strings.TrimSpace(val) != "" {
			return strings.TrimPrefix(strings.TrimSpace(val), "#"), true
		}
	}
	return "", false
}

func role(el *Element) string {
	if el.Role != "" {
		return strings.ToLower(el.Role)
	}
	r, _ := el.Attr("role")
	return strings.ToLower(r)
}

func hasAnyFold(values, known []string) bool {
	return lo.SomeBy(values, func(s string) bool {
		return lo.Contains(known, strings.ToLower(s))
	})
}
