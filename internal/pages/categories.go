package pages

import (
	"context"

	"glpiboard/internal/client"
	"glpiboard/internal/domain"
	"glpiboard/internal/invoke"
)

const ScopeAll = "all"

type Categories struct {
	d    Deps
	Tree *invoke.Hook[domain.CategoryTree]
}

type CategoriesView struct {
	Tree invoke.State[domain.CategoryTree]
	// Top is the root category holding the most tickets.
	Top *domain.CategoryNode
}

func NewCategories(d Deps) *Categories {
	return &Categories{d: d, Tree: newHook[domain.CategoryTree](d)}
}

func (p *Categories) Load(ctx context.Context, scope string) (CategoriesView, error) {
	if scope == "" {
		scope = ScopeAll
	}
	err := run(ctx, p.Tree, client.CategoriesTreeRequest(domain.CategoriesRequest{Scope: scope}))
	v := CategoriesView{Tree: p.Tree.Snapshot()}
	if v.Tree.Data != nil {
		for i, n := range v.Tree.Data.Nodes {
			if v.Top == nil || n.Count > v.Top.Count {
				v.Top = &v.Tree.Data.Nodes[i]
			}
		}
	}
	return v, err
}
