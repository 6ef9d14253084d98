package sax

// SAX is a function-field dispatcher: callers set only the handler
// fields they care about and leave the rest at their no-op defaults.
// It implements Handler in full, so a *SAX can be passed anywhere a
// Handler is expected.
type SAX struct {
	SetDocumentLocatorHandler   func(ctx Context, loc DocumentLocator) error
	StartDocumentHandler        func(ctx Context) error
	EndDocumentHandler          func(ctx Context) error
	ProcessingInstructionHandler func(ctx Context, target string, data string) error
	StartElementHandler         func(ctx Context, elem ParsedElement) error
	EndElementHandler           func(ctx Context, elem ParsedElement) error
	CharactersHandler           func(ctx Context, content []byte) error
	IgnorableWhitespaceHandler  func(ctx Context, content []byte) error
	SkippedEntityHandler        func(ctx Context, name string) error

	NotationDeclHandler       func(ctx Context, name, publicID, systemID string) error
	UnparsedEntityDeclHandler func(ctx Context, name, publicID, systemID, notation string) error

	AttributeDeclHandler     func(ctx Context, eName, aName string, typ int, deftype int, value AttributeDefaultValue, enum Enumeration) error
	ElementDeclHandler       func(ctx Context, name string, typ int, content ElementContent) error
	ExternalEntityDeclHandler func(ctx Context, name, publicID, systemID string) error
	InternalEntityDeclHandler func(ctx Context, name, value string) error

	CommentHandler    func(ctx Context, content []byte) error
	StartCDATAHandler func(ctx Context) error
	EndCDATAHandler   func(ctx Context) error
	StartDTDHandler   func(ctx Context, name, publicID, systemID string) error
	EndDTDHandler     func(ctx Context) error
	StartEntityHandler func(ctx Context, name string) error
	EndEntityHandler   func(ctx Context, name string) error

	GetExternalSubsetHandler func(ctx Context, name, baseURI string) error
	ResolveEntityHandler     func(ctx Context, name, publicID, baseURI, systemID string) (Entity, error)

	ExternalSubsetHandler    func(ctx Context, name, publicID, systemID string) error
	InternalSubsetHandler    func(ctx Context, name, publicID, systemID string) error
	GetEntityHandler         func(ctx Context, name string) (Entity, error)
	GetParameterEntityHandler func(ctx Context, name string) (Entity, error)
}

// New returns a *SAX with every handler field nil; unset fields behave
// as no-ops (returning nil error / nil entity).
func New() *SAX {
	return &SAX{}
}

var _ Handler = (*SAX)(nil)

func (s *SAX) SetDocumentLocator(ctx Context, loc DocumentLocator) error {
	if s.SetDocumentLocatorHandler != nil {
		return s.SetDocumentLocatorHandler(ctx, loc)
	}
	return nil
}

func (s *SAX) StartDocument(ctx Context) error {
	if s.StartDocumentHandler != nil {
		return s.StartDocumentHandler(ctx)
	}
	return nil
}

func (s *SAX) EndDocument(ctx Context) error {
	if s.EndDocumentHandler != nil {
		return s.EndDocumentHandler(ctx)
	}
	return nil
}

func (s *SAX) ProcessingInstruction(ctx Context, target, data string) error {
	if s.ProcessingInstructionHandler != nil {
		return s.ProcessingInstructionHandler(ctx, target, data)
	}
	return nil
}

func (s *SAX) StartElement(ctx Context, elem ParsedElement) error {
	if s.StartElementHandler != nil {
		return s.StartElementHandler(ctx, elem)
	}
	return nil
}

func (s *SAX) EndElement(ctx Context, elem ParsedElement) error {
	if s.EndElementHandler != nil {
		return s.EndElementHandler(ctx, elem)
	}
	return nil
}

func (s *SAX) Characters(ctx Context, content []byte) error {
	if s.CharactersHandler != nil {
		return s.CharactersHandler(ctx, content)
	}
	return nil
}

func (s *SAX) IgnorableWhitespace(ctx Context, content []byte) error {
	if s.IgnorableWhitespaceHandler != nil {
		return s.IgnorableWhitespaceHandler(ctx, content)
	}
	return nil
}

func (s *SAX) SkippedEntity(ctx Context, name string) error {
	if s.SkippedEntityHandler != nil {
		return s.SkippedEntityHandler(ctx, name)
	}
	return nil
}

func (s *SAX) NotationDecl(ctx Context, name, publicID, systemID string) error {
	if s.NotationDeclHandler != nil {
		return s.NotationDeclHandler(ctx, name, publicID, systemID)
	}
	return nil
}

func (s *SAX) UnparsedEntityDecl(ctx Context, name, publicID, systemID, notation string) error {
	if s.UnparsedEntityDeclHandler != nil {
		return s.UnparsedEntityDeclHandler(ctx, name, publicID, systemID, notation)
	}
	return nil
}

func (s *SAX) AttributeDecl(ctx Context, eName, aName string, typ int, deftype int, value AttributeDefaultValue, enum Enumeration) error {
	if s.AttributeDeclHandler != nil {
		return s.AttributeDeclHandler(ctx, eName, aName, typ, deftype, value, enum)
	}
	return nil
}

func (s *SAX) ElementDecl(ctx Context, name string, typ int, content ElementContent) error {
	if s.ElementDeclHandler != nil {
		return s.ElementDeclHandler(ctx, name, typ, content)
	}
	return nil
}

func (s *SAX) ExternalEntityDecl(ctx Context, name, publicID, systemID string) error {
	if s.ExternalEntityDeclHandler != nil {
		return s.ExternalEntityDeclHandler(ctx, name, publicID, systemID)
	}
	return nil
}

func (s *SAX) InternalEntityDecl(ctx Context, name, value string) error {
	if s.InternalEntityDeclHandler != nil {
		return s.InternalEntityDeclHandler(ctx, name, value)
	}
	return nil
}

func (s *SAX) Comment(ctx Context, content []byte) error {
	if s.CommentHandler != nil {
		return s.CommentHandler(ctx, content)
	}
	return nil
}

func (s *SAX) StartCDATA(ctx Context) error {
	if s.StartCDATAHandler != nil {
		return s.StartCDATAHandler(ctx)
	}
	return nil
}

func (s *SAX) EndCDATA(ctx Context) error {
	if s.EndCDATAHandler != nil {
		return s.EndCDATAHandler(ctx)
	}
	return nil
}

func (s *SAX) StartDTD(ctx Context, name, publicID, systemID string) error {
	if s.StartDTDHandler != nil {
		return s.StartDTDHandler(ctx, name, publicID, systemID)
	}
	return nil
}

func (s *SAX) EndDTD(ctx Context) error {
	if s.EndDTDHandler != nil {
		return s.EndDTDHandler(ctx)
	}
	return nil
}

func (s *SAX) StartEntity(ctx Context, name string) error {
	if s.StartEntityHandler != nil {
		return s.StartEntityHandler(ctx, name)
	}
	return nil
}

func (s *SAX) EndEntity(ctx Context, name string) error {
	if s.EndEntityHandler != nil {
		return s.EndEntityHandler(ctx, name)
	}
	return nil
}

func (s *SAX) GetExternalSubset(ctx Context, name, baseURI string) error {
	if s.GetExternalSubsetHandler != nil {
		return s.GetExternalSubsetHandler(ctx, name, baseURI)
	}
	return nil
}

func (s *SAX) ResolveEntity(ctx Context, name, publicID, baseURI, systemID string) (Entity, error) {
	if s.ResolveEntityHandler != nil {
		return s.ResolveEntityHandler(ctx, name, publicID, baseURI, systemID)
	}
	return nil, nil
}

func (s *SAX) ExternalSubset(ctx Context, name, publicID, systemID string) error {
	if s.ExternalSubsetHandler != nil {
		return s.ExternalSubsetHandler(ctx, name, publicID, systemID)
	}
	return nil
}

func (s *SAX) InternalSubset(ctx Context, name, publicID, systemID string) error {
	if s.InternalSubsetHandler != nil {
		return s.InternalSubsetHandler(ctx, name, publicID, systemID)
	}
	return nil
}

func (s *SAX) GetEntity(ctx Context, name string) (Entity, error) {
	if s.GetEntityHandler != nil {
		return s.GetEntityHandler(ctx, name)
	}
	return nil, nil
}

func (s *SAX) GetParameterEntity(ctx Context, name string) (Entity, error) {
	if s.GetParameterEntityHandler != nil {
		return s.GetParameterEntityHandler(ctx, name)
	}
	return nil, nil
}
