// Package store persists projects: named class diagrams with an owner.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per project, for the CLI
//   - [MongoStore]: a "projects" collection, for the server
//
// Lookups of unknown projects fail with PROJECT_NOT_FOUND, which
// [errors.IsNotFound] recognises.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/model"
)

// Project is a stored diagram.
type Project struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Owner     string       `json:"owner,omitempty" bson:"owner,omitempty"`
	Nodes     []model.Node `json:"nodes" bson:"nodes"`
	NodeCount int          `json:"node_count" bson:"node_count"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Summary is the listing view of a project.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Owner     string    `json:"owner,omitempty" bson:"owner,omitempty"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is implemented by project backends.
type Store interface {
	Get(ctx context.Context, id string) (*Project, error)
	// Put creates or replaces a project, stamping CreatedAt and UpdatedAt.
	Put(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
	// List returns summaries newest first. An empty owner lists everything.
	List(ctx context.Context, owner string) ([]Summary, error)
	Close() error
}

// NewProject returns a project with a fresh ID holding g.
func NewProject(name, owner string, g *model.Graph) *Project {
	p := &Project{ID: model.NewID(), Name: name, Owner: owner}
	p.SetGraph(g)
	return p
}

// Graph rebuilds the model graph from the stored nodes.
func (p *Project) Graph() (*model.Graph, error) {
	return model.FromNodes(p.Nodes)
}

// SetGraph replaces the stored nodes with a snapshot of g.
func (p *Project) SetGraph(g *model.Graph) {
	nodes := g.Nodes()
	p.Nodes = make([]model.Node, len(nodes))
	for i, n := range nodes {
		p.Nodes[i] = *n
	}
	p.NodeCount = len(nodes)
}

// Summary returns the listing view of p.
func (p *Project) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, Owner: p.Owner, NodeCount: p.NodeCount, UpdatedAt: p.UpdatedAt}
}

// stamp prepares p for writing.
func stamp(p *Project) error {
	if p.ID == "" {
		p.ID = model.NewID()
	}
	if err := errors.ValidateID(p.ID); err != nil {
		return err
	}
	if err := errors.ValidateName(p.Name); err != nil {
		return err
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.NodeCount = len(p.Nodes)
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeProjectNotFound, "project %q not found", id)
}
