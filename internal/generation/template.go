package generation

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Template is a parsed prompt template. The grammar is deliberately small:
//
//	{{field}}                               substitution
//	{{#if field}} ... {{else}} ... {{/if}}  conditional section, else optional
//	{{media url=field}}                     data URI field sent as an attachment
//
// Every referenced field must be declared in the flow's input schema.
type Template struct {
	source string
	nodes  []node
}

// RenderedPrompt is the result of rendering a template against an input payload.
type RenderedPrompt struct {
	Text  string
	Media []Media
}

type node interface {
	render(r *renderer) error
}

type textNode struct {
	text string
}

type fieldNode struct {
	field string
}

type ifNode struct {
	field     string
	then      []node
	otherwise []node
	hasElse   bool
}

type mediaNode struct {
	field string
}

// ParseTemplate parses source and checks every field reference against the
// input schema. All problems are reported as *TemplateError.
func ParseTemplate(source string, inputs []FieldSpec) (*Template, error) {
	nodes, err := parseNodes(source)
	if err != nil {
		return nil, err
	}
	if err := bindNodes(nodes, inputs); err != nil {
		return nil, err
	}
	return &Template{source: source, nodes: nodes}, nil
}

// Source returns the template text as it was defined.
func (t *Template) Source() string {
	return t.source
}

// Render produces the prompt text and attachments for a validated input
// payload. Rendering is deterministic: the same input always yields the same
// text and media.
func (t *Template) Render(input []byte) (*RenderedPrompt, error) {
	doc := gjson.ParseBytes(input)
	r := &renderer{values: doc.Map()}
	for _, n := range t.nodes {
		if err := n.render(r); err != nil {
			return nil, err
		}
	}
	return &RenderedPrompt{
		Text:  strings.TrimSpace(r.out.String()),
		Media: r.media,
	}, nil
}

// frame is one open conditional during parsing.
type frame struct {
	node *ifNode
	// target points at the branch currently collecting nodes.
	target *[]node
}

func parseNodes(source string) ([]node, error) {
	var root []node
	target := &root
	var stack []frame

	rest := source
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			if rest != "" {
				*target = append(*target, textNode{text: rest})
			}
			break
		}
		if open > 0 {
			*target = append(*target, textNode{text: rest[:open]})
		}
		end := strings.Index(rest[open+2:], "}}")
		if end < 0 {
			return nil, &TemplateError{Reason: "unterminated {{ tag"}
		}
		tag := strings.TrimSpace(rest[open+2 : open+2+end])
		rest = rest[open+2+end+2:]

		switch {
		case strings.HasPrefix(tag, "#if "):
			field := strings.TrimSpace(strings.TrimPrefix(tag, "#if "))
			if !isIdentifier(field) {
				return nil, &TemplateError{Field: field, Reason: "invalid field name in {{#if}}"}
			}
			n := &ifNode{field: field}
			*target = append(*target, n)
			stack = append(stack, frame{node: n, target: target})
			target = &n.then

		case tag == "else":
			if len(stack) == 0 {
				return nil, &TemplateError{Reason: "{{else}} outside of {{#if}}"}
			}
			top := stack[len(stack)-1].node
			if top.hasElse {
				return nil, &TemplateError{Field: top.field, Reason: "duplicate {{else}}"}
			}
			top.hasElse = true
			target = &top.otherwise

		case tag == "/if":
			if len(stack) == 0 {
				return nil, &TemplateError{Reason: "{{/if}} without matching {{#if}}"}
			}
			target = stack[len(stack)-1].target
			stack = stack[:len(stack)-1]

		case strings.HasPrefix(tag, "media "):
			arg := strings.TrimSpace(strings.TrimPrefix(tag, "media "))
			field, ok := strings.CutPrefix(arg, "url=")
			if !ok || !isIdentifier(field) {
				return nil, &TemplateError{Reason: fmt.Sprintf("malformed media directive %q", tag)}
			}
			*target = append(*target, mediaNode{field: field})

		case isIdentifier(tag):
			*target = append(*target, fieldNode{field: tag})

		default:
			return nil, &TemplateError{Reason: fmt.Sprintf("unsupported directive %q", tag)}
		}
	}

	if len(stack) > 0 {
		return nil, &TemplateError{Field: stack[len(stack)-1].node.field, Reason: "unterminated {{#if}}"}
	}
	return root, nil
}

func bindNodes(nodes []node, inputs []FieldSpec) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case fieldNode:
			if _, ok := findField(inputs, n.field); !ok {
				return &TemplateError{Field: n.field, Reason: "not declared in input schema"}
			}
		case mediaNode:
			f, ok := findField(inputs, n.field)
			if !ok {
				return &TemplateError{Field: n.field, Reason: "not declared in input schema"}
			}
			if f.Kind != KindString {
				return &TemplateError{Field: n.field, Reason: "media fields must be strings"}
			}
		case *ifNode:
			if _, ok := findField(inputs, n.field); !ok {
				return &TemplateError{Field: n.field, Reason: "not declared in input schema"}
			}
			if err := bindNodes(n.then, inputs); err != nil {
				return err
			}
			if err := bindNodes(n.otherwise, inputs); err != nil {
				return err
			}
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

type renderer struct {
	values map[string]gjson.Result
	out    strings.Builder
	media  []Media
}

func (n textNode) render(r *renderer) error {
	r.out.WriteString(n.text)
	return nil
}

func (n fieldNode) render(r *renderer) error {
	if v, ok := r.values[n.field]; ok {
		r.out.WriteString(stringify(v))
	}
	return nil
}

func (n *ifNode) render(r *renderer) error {
	branch := n.otherwise
	if v, ok := r.values[n.field]; ok && truthy(v) {
		branch = n.then
	}
	for _, child := range branch {
		if err := child.render(r); err != nil {
			return err
		}
	}
	return nil
}

func (n mediaNode) render(r *renderer) error {
	v, ok := r.values[n.field]
	if !ok || v.Type == gjson.Null {
		return nil
	}
	media, err := ParseDataURI(v.String())
	if err != nil {
		return &InputValidationError{Violations: Violations{{Field: n.field, Reason: err.Error()}}}
	}
	r.media = append(r.media, *media)
	return nil
}

func stringify(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.Str
	case v.Type == gjson.Null:
		return ""
	case v.IsArray():
		items := v.Array()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	default:
		// numbers, booleans and objects keep their JSON form
		return v.Raw
	}
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	}
	if v.IsArray() {
		return len(v.Array()) > 0
	}
	return v.Exists()
}
