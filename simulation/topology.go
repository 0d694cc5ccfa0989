package simulation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sarchlab/overlaynet/config"
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/server/chat"
	"github.com/sarchlab/overlaynet/server/media"
	"github.com/sarchlab/overlaynet/server/text"
	"github.com/sarchlab/overlaynet/web"
)

// BuildFromTopology creates the nodes, clients and links of a topology. The
// topology's link capacity and reassembly bound override the builder's.
func BuildFromTopology(topo config.Topology, b Builder) (*Simulation, error) {
	if err := topo.Validate(); err != nil {
		return nil, err
	}

	b = b.WithLinkCapacity(topo.LinkCapacity)
	if topo.MaxPendingSessions > 0 {
		b = b.WithMaxPendingSessions(topo.MaxPendingSessions)
	}

	s := b.Build()

	for _, n := range topo.Nodes {
		id := network.NodeID(n.ID)

		if n.Type == config.TypeClient {
			s.AddClient(id, n.NodeName())
			continue
		}

		handler, err := handlerFor(n)
		if err != nil {
			return nil, err
		}

		s.AddServer(id, n.NodeName(), handler)
	}

	for _, l := range topo.Links {
		err := s.Connect(network.NodeID(l.A), network.NodeID(l.B))
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func handlerFor(n config.NodeSpec) (node.Handler, error) {
	switch n.Type {
	case config.TypeMedia:
		files, err := mediaFiles(n.MediaFiles)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}

		return media.NewHandler(files...), nil
	case config.TypeText:
		files, err := textFiles(n.TextFiles)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}

		return text.NewHandler(files...), nil
	case config.TypeChat:
		return chat.NewHandler(), nil
	default:
		return nil, fmt.Errorf("%w: node %d is a %s, not a server",
			config.ErrInvalidTopology, n.ID, n.Type)
	}
}

func fileID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: file id %q: %w",
			config.ErrInvalidTopology, raw, err)
	}

	return id, nil
}

func mediaFiles(specs []config.MediaFileSpec) ([]web.MediaFile, error) {
	files := make([]web.MediaFile, 0, len(specs))

	for _, spec := range specs {
		id, err := fileID(spec.ID)
		if err != nil {
			return nil, err
		}

		files = append(files, web.MediaFile{
			ID:      id,
			Title:   spec.Title,
			Content: []byte(spec.Content),
		})
	}

	return files, nil
}

func textFiles(specs []config.TextFileSpec) ([]web.TextFile, error) {
	files := make([]web.TextFile, 0, len(specs))

	for _, spec := range specs {
		id, err := fileID(spec.ID)
		if err != nil {
			return nil, err
		}

		f := web.TextFile{ID: id, Title: spec.Title, Content: spec.Content}

		for _, raw := range spec.MediaRefs {
			ref, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: media ref %q: %w",
					config.ErrInvalidTopology, raw, err)
			}

			f.MediaRefs = append(f.MediaRefs, ref)
		}

		files = append(files, f)
	}

	return files, nil
}
