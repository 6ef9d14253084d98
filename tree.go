package typesxml

import (
	"github.com/rmraya/typesxml/internal/debug"
	"github.com/rmraya/typesxml/sax"
)

// TreeBuilder is a sax.Handler that assembles a *Document: it keeps
// no state beyond "the document under construction" and "the current
// open element", delegating every well-formedness and validity
// decision to the parser that drives it.
type TreeBuilder struct {
	doc  *Document
	node Node
}

// Document returns the tree assembled by the most recently completed
// parse, or nil before StartDocument has fired.
func (t *TreeBuilder) Document() *Document { return t.doc }

func (t *TreeBuilder) SetDocumentLocator(ctx sax.Context, loc sax.DocumentLocator) error {
	return nil
}

func (t *TreeBuilder) StartDocument(ctxif sax.Context) error {
	if debug.Enabled {
		g := debug.IPrintf("START tree.StartDocument")
		defer g.IRelease("END tree.StartDocument")
	}
	ctx := ctxif.(*parserCtx)
	t.doc = NewDocument(ctx.version, ctx.encoding, ctx.standalone)
	ctx.doc = t.doc
	return nil
}

func (t *TreeBuilder) EndDocument(ctxif sax.Context) error {
	if debug.Enabled {
		g := debug.IPrintf("START tree.EndDocument")
		defer g.IRelease("END tree.EndDocument")
	}
	ctx := ctxif.(*parserCtx)
	ctx.doc = t.doc
	return nil
}

func (t *TreeBuilder) ProcessingInstruction(ctxif sax.Context, target, data string) error {
	pi, err := t.doc.CreatePI(target, data)
	if err != nil {
		return err
	}
	if t.node == nil {
		return t.doc.AddChild(pi)
	}
	return t.node.AddChild(pi)
}

func (t *TreeBuilder) StartElement(ctxif sax.Context, elem sax.ParsedElement) error {
	if debug.Enabled {
		if elem.Prefix() != "" {
			debug.Printf("tree.StartElement: %s:%s", elem.Prefix(), elem.LocalName())
		} else {
			debug.Printf("tree.StartElement: %s", elem.LocalName())
		}
	}
	e, err := t.doc.CreateElementNS(elem.LocalName(), elem.Prefix(), elem.URI())
	if err != nil {
		return err
	}
	for _, attr := range elem.Attributes() {
		e.SetAttribute(attr.Name(), attr.Value())
	}
	if t.node == nil {
		if err := t.doc.AddChild(e); err != nil {
			return err
		}
	} else if err := t.node.AddChild(e); err != nil {
		return err
	}
	t.node = e
	return nil
}

func (t *TreeBuilder) EndElement(ctxif sax.Context, elem sax.ParsedElement) error {
	if debug.Enabled {
		if elem.Prefix() != "" {
			debug.Printf("tree.EndElement: %s:%s", elem.Prefix(), elem.LocalName())
		} else {
			debug.Printf("tree.EndElement: %s", elem.LocalName())
		}
	}
	if e, ok := t.node.(*Element); ok && e.LocalName() == elem.LocalName() && e.Prefix() == elem.Prefix() {
		t.node = t.node.Parent()
	}
	return nil
}

func (t *TreeBuilder) Characters(ctxif sax.Context, data []byte) error {
	if debug.Enabled {
		g := debug.IPrintf("START tree.Characters: '%s'", data)
		defer g.IRelease("END tree.Characters")
	}
	if t.node == nil {
		return ErrInvalidDocument
	}
	return t.node.AddContent(data)
}

func (t *TreeBuilder) IgnorableWhitespace(ctxif sax.Context, data []byte) error {
	ctx := ctxif.(*parserCtx)
	if ctx.keepBlanks {
		return t.Characters(ctx, data)
	}
	return nil
}

func (t *TreeBuilder) SkippedEntity(ctx sax.Context, name string) error {
	return nil
}

func (t *TreeBuilder) StartCDATA(ctxif sax.Context) error {
	if t.node == nil {
		return ErrInvalidDocument
	}
	t.node.AddChild(t.doc.CreateCDATA(nil))
	t.node = t.node.LastChild()
	return nil
}

func (t *TreeBuilder) EndCDATA(ctxif sax.Context) error {
	if cdata, ok := t.node.(*CDATA); ok {
		t.node = cdata.Parent()
	}
	return nil
}

func (t *TreeBuilder) Comment(ctxif sax.Context, data []byte) error {
	if debug.Enabled {
		g := debug.IPrintf("START tree.Comment: %s", data)
		defer g.IRelease("END tree.Comment")
	}
	c, err := t.doc.CreateComment(data)
	if err != nil {
		return err
	}
	if t.node == nil {
		return t.doc.AddChild(c)
	}
	return t.node.AddChild(c)
}

// StartDTD/EndDTD and the DeclHandler/DTDHandler family below are
// no-ops on TreeBuilder: the parser builds the DTD grammar itself via
// DTDParser and attaches it to the Document directly (parser.go),
// rather than replaying each declaration as an event. These methods
// exist so TreeBuilder satisfies sax.Handler and so a caller that
// wants per-declaration notifications can still register its own
// handler instead.
func (t *TreeBuilder) StartDTD(ctxif sax.Context, name, publicID, systemID string) error {
	return nil
}

func (t *TreeBuilder) EndDTD(ctxif sax.Context) error                 { return nil }
func (t *TreeBuilder) StartEntity(ctx sax.Context, name string) error { return nil }
func (t *TreeBuilder) EndEntity(ctx sax.Context, name string) error   { return nil }

func (t *TreeBuilder) AttributeDecl(ctxif sax.Context, elemName, attrName string, typ int, deftype int, defaultValue sax.AttributeDefaultValue, enum sax.Enumeration) error {
	return nil
}

func (t *TreeBuilder) ElementDecl(ctxif sax.Context, name string, typ int, content sax.ElementContent) error {
	return nil
}

func (t *TreeBuilder) InternalEntityDecl(ctxif sax.Context, name, value string) error {
	return nil
}

func (t *TreeBuilder) ExternalEntityDecl(ctxif sax.Context, name, publicID, systemID string) error {
	return nil
}

func (t *TreeBuilder) NotationDecl(ctxif sax.Context, name, publicID, systemID string) error {
	return nil
}

func (t *TreeBuilder) UnparsedEntityDecl(ctxif sax.Context, name string, publicID, systemID, notation string) error {
	return nil
}

func (t *TreeBuilder) GetExternalSubset(ctxif sax.Context, name, baseURI string) error {
	return nil
}

func (t *TreeBuilder) ExternalSubset(ctx sax.Context, name, publicID, systemID string) error {
	return nil
}

func (t *TreeBuilder) InternalSubset(ctx sax.Context, name, publicID, systemID string) error {
	return nil
}

func (t *TreeBuilder) GetEntity(ctxif sax.Context, name string) (sax.Entity, error) {
	ctx := ctxif.(*parserCtx)
	if v, ok := predefinedCharByName[name]; ok {
		return newEntity(name, InternalPredefinedEntity, "", "", v), nil
	}
	if ctx.doc == nil {
		return nil, ErrEntityNotFound
	}
	if e, ok := ctx.doc.GetEntity(name); ok {
		return e, nil
	}
	return nil, ErrEntityNotFound
}

func (t *TreeBuilder) GetParameterEntity(ctxif sax.Context, name string) (sax.Entity, error) {
	ctx := ctxif.(*parserCtx)
	if ctx.doc == nil {
		return nil, ErrInvalidDocument
	}
	if e, ok := ctx.doc.GetParameterEntity(name); ok {
		return e, nil
	}
	return nil, ErrEntityNotFound
}

func (t *TreeBuilder) ResolveEntity(ctxif sax.Context, name, publicID, baseURI, systemID string) (sax.Entity, error) {
	return nil, ErrEntityNotFound
}

var _ sax.Handler = (*TreeBuilder)(nil)
