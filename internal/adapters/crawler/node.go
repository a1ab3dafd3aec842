package crawler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depgraph/internal/adapters/fs"
	"go.trai.ch/depgraph/internal/adapters/logger"
	"go.trai.ch/depgraph/internal/core/ports"
)

// NodeID is the unique identifier for the crawler Graft node.
const NodeID graft.ID = "adapter.crawler"

func init() {
	graft.Register(graft.Node[ports.Crawler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, fs.FileSystemNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Crawler, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(walker, fsys, log), nil
		},
	})
}
