package glow

import (
	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// Factory creates containers for the Glow application types. Application
// types outside the schema are skipped. Every Glow type is constructed, so
// the decoders reject a primitive carrying a Glow type tag with
// dom.ErrNodeKind.
type Factory struct{}

// CreateApplicationDefinedNode implements dom.ApplicationFactory.
func (Factory) CreateApplicationDefinedNode(tag, typeTag ber.Tag) dom.Node {
	if _, ok := typeOf(typeTag); !ok {
		return nil
	}
	return dom.NewContainer(tag, typeTag)
}

// NewNodeFactory returns the node factory for Glow trees.
func NewNodeFactory() *dom.Factory {
	return dom.NewFactory(Factory{})
}

// NewNodeFactoryWithRegistry returns a Glow node factory that decodes leaf
// values with r.
func NewNodeFactoryWithRegistry(r *ber.Registry) *dom.Factory {
	return dom.NewFactoryWithRegistry(Factory{}, r)
}

// Decode decodes a complete Glow message held in data.
func Decode(data []byte) (*Root, error) {
	n, err := dom.Decode(data, NewNodeFactory())
	if err != nil {
		return nil, err
	}
	return RootOf(n)
}
