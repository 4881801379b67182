package rdf

// Well-known namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	LogNamespace  = "http://www.w3.org/2000/10/swap/log#"
	TriXNamespace = "http://www.w3.org/2004/03/trix/trix-1/"
)

const rdfXMLNS = RDFNamespace

// Vocabulary terms used by the writers.
var (
	RDFFirst      = IRI{Value: RDFNamespace + "first"}
	RDFRest       = IRI{Value: RDFNamespace + "rest"}
	RDFNil        = IRI{Value: RDFNamespace + "nil"}
	RDFType       = IRI{Value: RDFNamespace + "type"}
	RDFXMLLiteral = IRI{Value: RDFNamespace + "XMLLiteral"}
	RDFLangString = IRI{Value: RDFNamespace + "langString"}

	XSDString  = IRI{Value: XSDNamespace + "string"}
	XSDInteger = IRI{Value: XSDNamespace + "integer"}
	XSDDecimal = IRI{Value: XSDNamespace + "decimal"}
	XSDDouble  = IRI{Value: XSDNamespace + "double"}
	XSDBoolean = IRI{Value: XSDNamespace + "boolean"}

	OWLSameAs  = IRI{Value: OWLNamespace + "sameAs"}
	LogImplies = IRI{Value: LogNamespace + "implies"}
)

// isListPredicate reports whether p is rdf:first or rdf:rest.
func isListPredicate(p IRI) bool {
	return p == RDFFirst || p == RDFRest
}
