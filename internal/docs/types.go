package docs

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind is the entity kind of a record.
type Kind string

const (
	KindClass       Kind = "CLASS"
	KindInterface   Kind = "INTERFACE"
	KindEnum        Kind = "ENUM"
	KindAnnotation  Kind = "ANNOTATION"
	KindConstructor Kind = "CONSTRUCTOR"
	KindMethod      Kind = "METHOD"
)

// Identity locates a class page: its package, names and doc-root relative URL.
type Identity struct {
	Package       string
	SimpleName    string
	QualifiedName string
	Path          string
}

// SuggestFacet is the autocomplete payload attached to a record.
type SuggestFacet struct {
	Input  []string `json:"input"`
	Output string   `json:"output"`
	Weight int      `json:"weight"`
}

// Param is a formal parameter. Description is only set on full member
// records; abbreviated copies drop it.
type Param struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MemberRecord is a constructor or method of a class page.
type MemberRecord struct {
	ID                 string        `json:"_id"`
	Kind               Kind          `json:"kind"`
	Package            string        `json:"package"`
	QualifiedClass     string        `json:"qualifiedClass"`
	SimpleClass        string        `json:"simpleClass"`
	Name               string        `json:"name"`
	QualifiedName      string        `json:"qualifiedName"`
	Annotations        []string      `json:"annotations"`
	Modifiers          []string      `json:"modifiers"`
	TypeParameters     string        `json:"typeParameters,omitempty"`
	Params             []Param       `json:"params"`
	Throws             []string      `json:"throws"`
	ReturnType         string        `json:"returnType,omitempty"`
	ReturnsDescription string        `json:"returnsDescription,omitempty"`
	Description        string        `json:"description"`
	Path               string        `json:"path"`
	Weight             int           `json:"weight,omitempty"`
	Suggest            *SuggestFacet `json:"suggest,omitempty"`
}

// memberID is unique per overload: qualifiedClass#name(type,type).
func memberID(qualifiedClass, name string, params []Param) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return qualifiedClass + "#" + name + "(" + strings.Join(types, ",") + ")"
}

// AbbreviatedMember is the reduced projection of a member embedded in its
// owning class record.
type AbbreviatedMember struct {
	Name        string   `json:"name"`
	Params      []Param  `json:"params"`
	ReturnType  string   `json:"returnType,omitempty"`
	Modifiers   []string `json:"modifiers"`
	Description string   `json:"description"`
	Path        string   `json:"path"`
}

// Abbreviate projects m for embedding, stripping parameter descriptions.
func (m *MemberRecord) Abbreviate() AbbreviatedMember {
	params := make([]Param, len(m.Params))
	for i, p := range m.Params {
		params[i] = Param{Type: p.Type, Name: p.Name}
	}
	return AbbreviatedMember{
		Name:        m.Name,
		Params:      params,
		ReturnType:  m.ReturnType,
		Modifiers:   m.Modifiers,
		Description: m.Description,
		Path:        m.Path,
	}
}

func abbreviateAll(members []MemberRecord) []AbbreviatedMember {
	out := make([]AbbreviatedMember, len(members))
	for i := range members {
		out[i] = members[i].Abbreviate()
	}
	return out
}

// ClassPayload carries the kind-specific part of a class record.
type ClassPayload interface {
	Kind() Kind
}

// ClassBody is the payload of a CLASS. A nil Constructors slice means
// constructors are not embedded by the active policy.
type ClassBody struct {
	SuperClass   string
	Constructors []AbbreviatedMember
	Methods      []AbbreviatedMember
}

func (ClassBody) Kind() Kind { return KindClass }

type InterfaceBody struct {
	Methods []AbbreviatedMember
}

func (InterfaceBody) Kind() Kind { return KindInterface }

// EnumBody is the payload of an ENUM; its super type is always java.lang.Enum.
type EnumBody struct {
	Methods []AbbreviatedMember
}

func (EnumBody) Kind() Kind { return KindEnum }

type AnnotationBody struct{}

func (AnnotationBody) Kind() Kind { return KindAnnotation }

// ClassRecord is the class/interface/enum/annotation-level record.
type ClassRecord struct {
	Package       string
	SimpleName    string
	QualifiedName string
	Modifiers     []string
	Annotations   []string
	Implements    []string
	Since         string
	Description   string
	Path          string
	Weight        int
	Suggest       *SuggestFacet
	Payload       ClassPayload
}

// Kind returns the kind selected by the payload.
func (c *ClassRecord) Kind() Kind {
	if c.Payload == nil {
		return KindClass
	}
	return c.Payload.Kind()
}

// SuperClass returns the super type, or "" when the kind has none.
func (c *ClassRecord) SuperClass() string {
	switch p := c.Payload.(type) {
	case ClassBody:
		return p.SuperClass
	case EnumBody:
		return "java.lang.Enum"
	}
	return ""
}

type classWire struct {
	ID            string               `json:"_id"`
	Package       string               `json:"package"`
	SimpleName    string               `json:"simpleName"`
	QualifiedName string               `json:"qualifiedName"`
	Kind          Kind                 `json:"kind"`
	Modifiers     []string             `json:"modifiers"`
	Annotations   []string             `json:"annotations"`
	SuperClass    string               `json:"superClass,omitempty"`
	Implements    []string             `json:"implements"`
	Since         string               `json:"since,omitempty"`
	Description   string               `json:"description"`
	Path          string               `json:"path"`
	Weight        int                  `json:"weight,omitempty"`
	Suggest       *SuggestFacet        `json:"suggest,omitempty"`
	Constructors  *[]AbbreviatedMember `json:"constructors,omitempty"`
	Methods       *[]AbbreviatedMember `json:"methods,omitempty"`
}

// MarshalJSON flattens the payload into a single object with a fixed
// field order.
func (c *ClassRecord) MarshalJSON() ([]byte, error) {
	w := classWire{
		ID:            c.QualifiedName,
		Package:       c.Package,
		SimpleName:    c.SimpleName,
		QualifiedName: c.QualifiedName,
		Kind:          c.Kind(),
		Modifiers:     nonNil(c.Modifiers),
		Annotations:   nonNil(c.Annotations),
		SuperClass:    c.SuperClass(),
		Implements:    nonNil(c.Implements),
		Since:         c.Since,
		Description:   c.Description,
		Path:          c.Path,
		Weight:        c.Weight,
		Suggest:       c.Suggest,
	}
	switch p := c.Payload.(type) {
	case ClassBody:
		if p.Constructors != nil {
			w.Constructors = &p.Constructors
		}
		w.Methods = membersOrEmpty(p.Methods)
	case InterfaceBody:
		w.Methods = membersOrEmpty(p.Methods)
	case EnumBody:
		w.Methods = membersOrEmpty(p.Methods)
	}
	return Marshal(w)
}

// Marshal encodes v as compact JSON without escaping <, > and &, which
// are common in generic type names.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func membersOrEmpty(m []AbbreviatedMember) *[]AbbreviatedMember {
	if m == nil {
		m = []AbbreviatedMember{}
	}
	return &m
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
