// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package trace implements a backend that creates no GPU resources. It
// hands out numbered clients, counts every creation call and logs it,
// which makes it useful for tests and dry runs.
package trace

import (
	"fmt"

	"github.com/devblok/model3d/model"
	"github.com/sirupsen/logrus"
)

// Kind is the kind of client created.
type Kind int

// Client kinds, in dependency order.
const (
	Region Kind = iota
	Descriptor
	Accessor
	Index
	Vertices
)

func (k Kind) String() string {
	switch k {
	case Region:
		return "region"
	case Descriptor:
		return "descriptor"
	case Accessor:
		return "accessor"
	case Index:
		return "index"
	case Vertices:
		return "vertices"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Client is what the backend returns for every creation call.
type Client struct {
	Kind Kind
	ID   int

	// Parents are the clients this one was created from.
	Parents []*Client

	// Attr is set for accessor clients.
	Attr model.VertexAttr
	// Bytes is the size of a region, or of an index stream.
	Bytes uint32

	backend  *Backend
	released bool
}

// Release implements gfx.Releasable.
func (c *Client) Release() {
	if c.released {
		return
	}
	c.released = true
	c.backend.released++
}

// Released reports whether Release has been called.
func (c *Client) Released() bool {
	return c.released
}

func (c *Client) String() string {
	return fmt.Sprintf("%s#%d", c.Kind, c.ID)
}

// Counts holds the number of creation calls of each kind.
type Counts struct {
	Regions     int
	Descriptors int
	Accessors   int
	Indices     int
	Vertices    int
}

// Total returns the sum of all calls.
func (c Counts) Total() int {
	return c.Regions + c.Descriptors + c.Accessors + c.Indices + c.Vertices
}

// New creates a Backend logging through log; nil uses model.Logger().
func New(log logrus.FieldLogger) *Backend {
	if log == nil {
		log = model.Logger()
	}
	return &Backend{log: log}
}

// Backend implements model.Renderable.
type Backend struct {
	log      logrus.FieldLogger
	counts   Counts
	clients  []*Client
	released int
}

// Counts returns the number of creation calls made so far.
func (b *Backend) Counts() Counts {
	return b.counts
}

// Clients returns every client created, in creation order.
func (b *Backend) Clients() []*Client {
	return b.clients
}

// Released returns the number of clients released.
func (b *Backend) Released() int {
	return b.released
}

func (b *Backend) newClient(kind Kind, parents ...*Client) *Client {
	c := &Client{
		Kind:    kind,
		ID:      len(b.clients) + 1,
		backend: b,
	}
	for _, p := range parents {
		if p != nil {
			c.Parents = append(c.Parents, p)
		}
	}
	b.clients = append(b.clients, c)
	return c
}

func asClient(c interface{}) *Client {
	if c == nil {
		return nil
	}
	tc, ok := c.(*Client)
	if !ok {
		panic(fmt.Sprintf("trace: foreign client %T", c))
	}
	return tc
}

// CreateRegionClient implements model.Renderable.
func (b *Backend) CreateRegionClient(data []byte) model.RegionClient {
	b.counts.Regions++
	c := b.newClient(Region)
	c.Bytes = uint32(len(data))
	b.log.WithFields(logrus.Fields{"client": c, "bytes": len(data)}).Info("region")
	return c
}

// CreateDescriptorClient implements model.Renderable.
func (b *Backend) CreateDescriptorClient(region model.RegionClient, stride uint32, fields []model.VertexDesc) model.DescriptorClient {
	b.counts.Descriptors++
	c := b.newClient(Descriptor, asClient(region))
	b.log.WithFields(logrus.Fields{"client": c, "stride": stride, "fields": len(fields)}).Info("descriptor")
	return c
}

// CreateAccessorClient implements model.Renderable.
func (b *Backend) CreateAccessorClient(attr model.VertexAttr, et model.ElementType, count, byteOffset, stride uint32, desc model.DescriptorClient) model.AccessorClient {
	b.counts.Accessors++
	c := b.newClient(Accessor, asClient(desc))
	c.Attr = attr
	b.log.WithFields(logrus.Fields{
		"client": c,
		"attr":   attr,
		"type":   et,
		"count":  count,
		"offset": byteOffset,
		"stride": stride,
	}).Info("accessor")
	return c
}

// CreateIndexClient implements model.Renderable.
func (b *Backend) CreateIndexClient(et model.ElementType, count, byteOffset uint32, region model.RegionClient) model.IndexClient {
	b.counts.Indices++
	c := b.newClient(Index, asClient(region))
	c.Bytes = count * et.ByteLength()
	b.log.WithFields(logrus.Fields{"client": c, "type": et, "count": count, "offset": byteOffset}).Info("index")
	return c
}

// CreateVerticesClient implements model.Renderable.
func (b *Backend) CreateVerticesClient(indices model.IndexClient, attrs []model.AttrClient) model.VerticesClient {
	b.counts.Vertices++
	parents := []*Client{asClient(indices)}
	for _, ac := range attrs {
		parents = append(parents, asClient(ac.Client))
	}
	c := b.newClient(Vertices, parents...)
	b.log.WithFields(logrus.Fields{"client": c, "attrs": len(attrs), "indexed": indices != nil}).Info("vertices")
	return c
}
