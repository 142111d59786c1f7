package goldmark

import (
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/mdast"
)

// frontMatterTransformer turns the block captured by goldmark-meta into a
// FrontMatter node at the top of the document. The YAML does not need to
// be valid for the block to be kept.
type frontMatterTransformer struct{}

func (t *frontMatterTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	rec := recorderFrom(pc)
	if rec == nil {
		return
	}

	var captured ast.Node
	for node, rule := range rec.rules {
		if rule == "front_matter" {
			captured = node
			break
		}
	}
	if captured == nil {
		return
	}

	if _, err := meta.TryGet(pc); err != nil {
		logging.Default().Debug("front matter is not valid YAML", logging.FieldError, err)
	}

	front := &FrontMatter{Content: captured.Lines().Value(reader.Source())}
	if span := rec.block(captured); span != nil {
		rec.blocks[front] = &mdast.Span{Start: span.Start, End: span.End}
	}
	rec.rules[front] = "front_matter"
	delete(rec.rules, captured)

	if parent := captured.Parent(); parent != nil {
		parent.ReplaceChild(parent, captured, front)
		return
	}
	if first := doc.FirstChild(); first != nil {
		doc.InsertBefore(doc, first, front)
		return
	}
	doc.AppendChild(doc, front)
}

// headingAnchorTransformer places a self-link at the start of every heading
// that has an id.
type headingAnchorTransformer struct{}

func (t *headingAnchorTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		id, ok := heading.AttributeString("id")
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		target, ok := id.([]byte)
		if !ok || len(target) == 0 {
			return ast.WalkSkipChildren, nil
		}
		anchor := &HeadingAnchor{Target: target}
		if first := heading.FirstChild(); first != nil {
			heading.InsertBefore(heading, first, anchor)
		} else {
			heading.AppendChild(heading, anchor)
		}
		return ast.WalkSkipChildren, nil
	})
}

// sourceposTransformer adds a data-sourcepos attribute to every block
// whose span was recorded.
type sourceposTransformer struct{}

func (t *sourceposTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	rec := recorderFrom(pc)
	if rec == nil {
		return
	}
	index := mdast.NewLineIndex(reader.Source())
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		if span := rec.block(node); span != nil {
			node.SetAttributeString("data-sourcepos", []byte(index.Position(*span).String()))
		}
		return ast.WalkContinue, nil
	})
}
