package matching

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/pactlab/pactmock/pkg/pact"
)

// MatchXMLBody compares expected vs. actual XML bodies as element trees.
// Elements are identified by namespace URI (resolved from declared
// xmlns bindings) plus local name, never by raw prefix, so "<a:foo>"
// and "<b:foo>" compare equal when both prefixes resolve to the same
// URI. Attribute paths use the "/element/@attr" convention from the
// rule-set path expressions.
func MatchXMLBody(expectedRaw, actualRaw []byte, rules pact.RuleSet) []Mismatch {
	expDoc := etree.NewDocument()
	if err := expDoc.ReadFromBytes(expectedRaw); err != nil {
		return []Mismatch{newMismatch(MismatchBodyType, "$", fmt.Sprintf("expected body is not valid XML: %v", err))}
	}
	actDoc := etree.NewDocument()
	if err := actDoc.ReadFromBytes(actualRaw); err != nil {
		return []Mismatch{newMismatch(MismatchBodyType, "$", fmt.Sprintf("actual body is not valid XML: %v", err))}
	}
	if expDoc.Root() == nil {
		if actDoc.Root() == nil {
			return nil
		}
		return []Mismatch{newMismatch(MismatchBody, "$", "expected empty XML document")}
	}
	if actDoc.Root() == nil {
		return []Mismatch{newMismatch(MismatchBody, "$", "actual XML document has no root element")}
	}
	return walkXML("/"+expDoc.Root().Tag, expDoc.Root(), actDoc.Root(), rules)
}

func walkXML(path string, expected, actual *etree.Element, rules pact.RuleSet) []Mismatch {
	var out []Mismatch

	if expected.Tag != actual.Tag || expected.NamespaceURI() != actual.NamespaceURI() {
		return []Mismatch{newMismatch(MismatchBody, path, fmt.Sprintf(
			"expected element {%s}%s but got {%s}%s",
			expected.NamespaceURI(), expected.Tag, actual.NamespaceURI(), actual.Tag))}
	}

	for _, attr := range expected.Attr {
		if attr.Space == "xmlns" || attr.Key == "xmlns" {
			continue
		}
		attrPath := fmt.Sprintf("%s/@%s", path, attr.Key)
		actualAttr := actual.SelectAttr(attr.Key)
		if actualAttr == nil {
			out = append(out, newMismatch(MismatchBody, attrPath, "missing attribute"))
			continue
		}
		if group, ok := ResolveGroup(rules, pact.CategoryBody, attrPath); ok {
			out = append(out, ApplyGroup(group, attrPath, attr.Value, actualAttr.Value)...)
		} else if attr.Value != actualAttr.Value {
			out = append(out, newMismatch(MismatchBody, attrPath, fmt.Sprintf(
				"expected %q but got %q", attr.Value, actualAttr.Value)))
		}
	}

	expChildren := expected.ChildElements()
	actChildren := actual.ChildElements()
	if cardinalityRuleApplies(rules, path) {
		// An each-like cardinality rule governs this element's children;
		// only require every expected child's shape appears, not an
		// exact count (the cardinality rule itself enforces any bound).
		if len(expChildren) > 0 && len(actChildren) == 0 {
			out = append(out, newMismatch(MismatchBody, path, "expected one or more child elements"))
		}
		return out
	}
	if len(expChildren) != len(actChildren) {
		out = append(out, newMismatch(MismatchBody, path, fmt.Sprintf(
			"expected %d child elements but got %d", len(expChildren), len(actChildren))))
		return out
	}
	for i, expChild := range expChildren {
		childPath := fmt.Sprintf("%s/%s[%d]", path, expChild.Tag, i+1)
		out = append(out, walkXML(childPath, expChild, actChildren[i], rules)...)
	}

	if len(expChildren) == 0 {
		expText, actText := expected.Text(), actual.Text()
		if group, ok := ResolveGroup(rules, pact.CategoryBody, path+"/text()"); ok {
			out = append(out, ApplyGroup(group, path, expText, actText)...)
		} else if expText != actText {
			out = append(out, newMismatch(MismatchBody, path, fmt.Sprintf(
				"expected text %q but got %q", expText, actText)))
		}
	}
	return out
}

func cardinalityRuleApplies(rules pact.RuleSet, path string) bool {
	group, ok := ResolveGroup(rules, pact.CategoryBody, path)
	if !ok {
		return false
	}
	for _, r := range group.Rules {
		if r.Type == pact.RuleMinType || r.Type == pact.RuleMaxType || r.Type == pact.RuleMinMaxType || r.Type == pact.RuleEachValue {
			return true
		}
	}
	return false
}
