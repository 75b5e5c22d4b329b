package content

import (
	"encoding/json"

	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/reporttpl/reporttpl/rterr"
)

// allowedHTMLTags is the tag whitelist spec requires for html content,
// grounded on original_source's content/__init__.py tag enum.
var allowedHTMLTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "em": true, "strong": true, "blockquote": true,
	"b": true, "i": true, "u": true,
}

// htmlContent renders a tagged, styled text body, substituting every
// interpolated expression's evaluated (and possibly formatted) value
// into place. Grounded on original_source's HtmlParseResult.
type htmlContent struct {
	tag   string
	style json.RawMessage
	text  *interpolatedText
}

type htmlDescriptor struct {
	Kind    string          `json:"kind"`
	Tag     string          `json:"tag"`
	Content string          `json:"content"`
	Style   json.RawMessage `json:"style,omitempty"`
}

func newHTMLContent(raw []byte, imports []string) (Content, error) {
	var d htmlDescriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if !allowedHTMLTags[d.Tag] {
		return nil, &rterr.DisallowedConstruct{Construct: "unknown html tag: " + d.Tag}
	}
	it, err := newInterpolatedText(d.Content, imports)
	if err != nil {
		return nil, err
	}
	return &htmlContent{tag: d.Tag, style: d.Style, text: it}, nil
}

func (c *htmlContent) Unbound() []string { return c.text.unbound() }

func (c *htmlContent) EvalResult(env map[string]any, formatters map[string]*exprlang.LazyExpr) (any, error) {
	rendered, err := c.text.render(env, formatters)
	if err != nil {
		return nil, err
	}
	result := map[string]any{"tag": c.tag, "text": rendered}
	if len(c.style) > 0 {
		var style any
		if err := json.Unmarshal(c.style, &style); err != nil {
			return nil, err
		}
		result["style"] = style
	} else {
		result["style"] = nil
	}
	return result, nil
}
