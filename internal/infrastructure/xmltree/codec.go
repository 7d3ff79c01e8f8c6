// Package xmltree lee y escribe el árbol de categorías como XML anidado:
//
//	<categorias>
//	  <categoria id="1" nombre="Ropa">
//	    <categoria id="2" nombre="Camisas"/>
//	  </categoria>
//	</categorias>
//
// Al importar se ignora el atributo id; los IDs los asigna el almacenamiento.
package xmltree

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

const (
	rootTag     = "categorias"
	categoryTag = "categoria"
	nameAttr    = "nombre"
	idAttr      = "id"
)

var _ usecase.TreeXMLCodec = (*Codec)(nil)

// Codec implementa usecase.TreeXMLCodec con etree.
type Codec struct {
	indent int
}

// NewCodec construye el codec con sangría de 2 espacios.
func NewCodec() *Codec {
	return &Codec{indent: 2}
}

// Encode escribe el bosque en w.
func (c *Codec) Encode(w io.Writer, forest []*tree.Node) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(rootTag)
	for _, n := range forest {
		appendNode(root, n)
	}
	doc.Indent(c.indent)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("xmltree: escribir: %w", err)
	}
	return nil
}

func appendNode(parent *etree.Element, n *tree.Node) {
	el := parent.CreateElement(categoryTag)
	el.CreateAttr(idAttr, strconv.FormatInt(n.Category.ID, 10))
	el.CreateAttr(nameAttr, n.Category.Name)
	for _, l := range n.Lower {
		appendNode(el, l)
	}
}

// Decode lee ramas desde r. Acepta UTF-8 e ISO-8859-1.
func (c *Codec) Decode(r io.Reader) ([]tree.Draft, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("xmltree: parsear: %v: %w", err, domain.ErrInvalidInput)
	}
	root := doc.Root()
	if root == nil || root.Tag != rootTag {
		return nil, fmt.Errorf("xmltree: se esperaba <%s> como raíz: %w", rootTag, domain.ErrInvalidInput)
	}
	drafts, err := readChildren(root)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("xmltree: <%s> sin categorías: %w", rootTag, domain.ErrInvalidInput)
	}
	return drafts, nil
}

func readChildren(parent *etree.Element) ([]tree.Draft, error) {
	var out []tree.Draft
	for _, el := range parent.ChildElements() {
		if el.Tag != categoryTag {
			return nil, fmt.Errorf("xmltree: elemento inesperado <%s> en <%s>: %w", el.Tag, parent.Tag, domain.ErrInvalidInput)
		}
		name := strings.TrimSpace(el.SelectAttrValue(nameAttr, ""))
		if name == "" {
			return nil, fmt.Errorf("xmltree: <%s> sin atributo %s: %w", categoryTag, nameAttr, domain.ErrInvalidInput)
		}
		lower, err := readChildren(el)
		if err != nil {
			return nil, err
		}
		out = append(out, tree.Draft{Name: name, Lower: lower})
	}
	return out, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(charset) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "UTF-8", "":
		return input, nil
	default:
		return nil, fmt.Errorf("xmltree: charset no soportado %q", charset)
	}
}
