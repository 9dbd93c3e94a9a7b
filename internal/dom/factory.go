package dom

import "github.com/KilimcininKorOglu/ember/internal/ber"

// NodeFactory creates the node for a TLV whose headers have been decoded.
// Returning nil is the signal to skip the TLV and, for a container, its
// whole subtree. A factory must never fail for an unknown tag.
type NodeFactory interface {
	CreateNode(tag, typeTag ber.Tag, constructed bool) Node
}

// ApplicationFactory supplies nodes for type tags that are not built-in
// universal types, typically application class tags of a schema.
type ApplicationFactory interface {
	CreateApplicationDefinedNode(tag, typeTag ber.Tag) Node
}

// ApplicationFactoryFunc adapts a function to ApplicationFactory.
type ApplicationFactoryFunc func(tag, typeTag ber.Tag) Node

// CreateApplicationDefinedNode calls f.
func (f ApplicationFactoryFunc) CreateApplicationDefinedNode(tag, typeTag ber.Tag) Node {
	return f(tag, typeTag)
}

// Factory is the standard NodeFactory. Universal SEQUENCE and SET become
// generic containers, universal primitives with a registered decoder become
// leaves, and everything else is delegated to the application factory.
type Factory struct {
	registry *ber.Registry
	app      ApplicationFactory
}

// NewFactory creates a Factory using the default registry. app may be nil,
// in which case all application defined types are skipped.
func NewFactory(app ApplicationFactory) *Factory {
	return NewFactoryWithRegistry(app, ber.DefaultRegistry())
}

// NewFactoryWithRegistry creates a Factory that decides leaf support with r.
func NewFactoryWithRegistry(app ApplicationFactory, r *ber.Registry) *Factory {
	return &Factory{registry: r, app: app}
}

// Registry returns the registry the factory consults.
func (f *Factory) Registry() *ber.Registry { return f.registry }

// CreateContainer returns a generic container for the universal SEQUENCE
// and SET type tags and nil for any other tag.
func (f *Factory) CreateContainer(tag, typeTag ber.Tag) *Container {
	switch typeTag {
	case ber.SequenceTag, ber.SetTag:
		return NewContainer(tag, typeTag)
	default:
		return nil
	}
}

// CreateNode implements NodeFactory.
func (f *Factory) CreateNode(tag, typeTag ber.Tag, constructed bool) Node {
	if typeTag.IsUniversal() {
		if constructed {
			if c := f.CreateContainer(tag, typeTag); c != nil {
				return c
			}
		} else if f.registry.Knows(typeTag) {
			return NewTypedLeaf(tag, typeTag)
		}
	}
	if f.app == nil {
		return nil
	}
	return f.app.CreateApplicationDefinedNode(tag, typeTag)
}
